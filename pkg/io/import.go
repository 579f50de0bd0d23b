package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/layout"
	"github.com/matzehuels/danmaku/pkg/lifetime"
	"github.com/matzehuels/danmaku/pkg/numfmt"
)

type recordFile struct {
	Comments []record `json:"comments"`
}

type record struct {
	ID     string         `json:"id,omitempty"`
	VPos   numfmt.Decimal `json:"vpos"`
	Owner  bool           `json:"owner,omitempty"`
	Mode   layout.Mode    `json:"mode,omitempty"`
	Text   string         `json:"text"`
	Width  numfmt.Decimal `json:"width"`
	Height numfmt.Decimal `json:"height"`
}

// ReadJSON decodes comment records from r.
//
// The input must be a JSON object with a "comments" array:
//
//	{
//	  "comments": [
//	    {"id": "c1", "vpos": 1.5, "mode": "scroll", "text": "hello", "width": 40, "height": 33},
//	    {"vpos": "2", "owner": true, "text": "/perm welcome"}
//	  ]
//	}
//
// Each record must have a "vpos" (seconds, as a JSON number or a decimal or
// fraction string; numbers are read exactly). Records without an "id" get a
// random UUID. Viewer comments need "width" and "height" for layout.
//
// ReadJSON returns an error if the JSON is malformed, a vpos is missing, a
// mode is unknown or an id is repeated. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]lifetime.Record, error) {
	var data recordFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode records")
	}

	seen := make(map[string]bool, len(data.Comments))
	out := make([]lifetime.Record, 0, len(data.Comments))
	for i, c := range data.Comments {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if seen[c.ID] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "comment %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true
		if !c.VPos.IsSet() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "comment %s: missing vpos", c.ID)
		}
		rec := lifetime.Record{ID: c.ID, VPos: c.VPos.Rat(), Owner: c.Owner, Mode: c.Mode, Text: c.Text}
		if c.Width.IsSet() {
			rec.Width = c.Width.Rat()
		}
		if c.Height.IsSet() {
			rec.Height = c.Height.Rat()
		}
		out = append(out, rec)
	}
	return out, nil
}

// ImportJSON reads a JSON file at path and returns the decoded records.
// It returns the same validation errors as [ReadJSON].
func ImportJSON(path string) ([]lifetime.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
