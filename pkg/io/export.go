package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/danmaku/pkg/lifetime"
	"github.com/matzehuels/danmaku/pkg/numfmt"
	"github.com/matzehuels/danmaku/pkg/pipeline"
	"github.com/matzehuels/danmaku/pkg/vote"
)

type resultFile struct {
	Stats    pipeline.Stats `json:"stats"`
	Comments []comment      `json:"comments"`
	Banners  []banner       `json:"banners,omitempty"`
	Panels   []panel        `json:"panels,omitempty"`
	Skipped  []string       `json:"skipped,omitempty"`
}

type span struct {
	Start     numfmt.Decimal `json:"start"`
	End       numfmt.Decimal `json:"end"`
	StartTime string         `json:"start_time"`
	EndTime   string         `json:"end_time"`
}

func newSpan(start, end numfmt.Decimal) span {
	return span{
		Start: start, End: end,
		StartTime: numfmt.Timestamp(start.Rat()),
		EndTime:   numfmt.Timestamp(end.Rat()),
	}
}

type comment struct {
	ID string `json:"id"`
	span
	Mode     string         `json:"mode"`
	Y        numfmt.Decimal `json:"y"`
	Opacity  numfmt.Decimal `json:"opacity"`
	Alpha    string         `json:"alpha"`
	Overflow bool           `json:"overflow,omitempty"`
}

type banner struct {
	ID string `json:"id"`
	span
	Text       string         `json:"text"`
	Scale      numfmt.Decimal `json:"scale"`
	X          numfmt.Decimal `json:"x"`
	Y          numfmt.Decimal `json:"y"`
	Background vote.Shape     `json:"background"`
}

type panel struct {
	ID string `json:"id"`
	span
	Mode  string `json:"mode"`
	Boxes []box  `json:"boxes"`
}

type box struct {
	Label      string         `json:"label"`
	X          numfmt.Decimal `json:"x"`
	Y          numfmt.Decimal `json:"y"`
	PercentY   numfmt.Decimal `json:"percent_y"`
	Percentage string         `json:"percentage,omitempty"`
	Fill       vote.Shape     `json:"fill"`
	Outline    vote.Shape     `json:"outline"`
}

// WriteJSON encodes a pipeline result as JSON and writes it to w.
//
// Comments are listed in start order. Every rational is written exactly:
// as a JSON number when it has a finite decimal form, otherwise as an
// "a/b" string. Times are also given as H:MM:SS.CC subtitle timestamps.
func WriteJSON(res *pipeline.Result, w io.Writer) error {
	out := resultFile{Stats: res.Stats, Skipped: res.Timeline.Skipped}

	for _, c := range res.Layout.Order {
		out.Comments = append(out.Comments, comment{
			ID:       c.ID,
			span:     newSpan(numfmt.NewDecimal(c.Start), numfmt.NewDecimal(c.End)),
			Mode:     c.Mode.String(),
			Y:        numfmt.NewDecimal(c.Y),
			Opacity:  numfmt.NewDecimal(c.Opacity),
			Alpha:    numfmt.Alpha(c.Opacity),
			Overflow: c.Overflow,
		})
	}

	for _, b := range res.Banners {
		out.Banners = append(out.Banners, banner{
			ID:         b.Event.ID,
			span:       eventSpan(b.Event),
			Text:       b.Event.Caption,
			Scale:      numfmt.NewDecimal(b.Scale),
			X:          numfmt.NewDecimal(b.X),
			Y:          numfmt.NewDecimal(b.Y),
			Background: b.Background,
		})
	}

	for _, p := range res.Panels {
		pp := panel{
			ID:   p.Event.ID,
			span: newSpan(numfmt.NewDecimal(p.Event.Start), numfmt.NewDecimal(p.Event.VoteEnd)),
			Mode: p.Event.VoteMode.String(),
		}
		for _, b := range p.Boxes {
			pp.Boxes = append(pp.Boxes, box{
				Label:      b.Label,
				X:          numfmt.NewDecimal(b.X),
				Y:          numfmt.NewDecimal(b.Y),
				PercentY:   numfmt.NewDecimal(b.PercentY),
				Percentage: b.Percentage,
				Fill:       b.Fill,
				Outline:    b.Outline,
			})
		}
		out.Panels = append(out.Panels, pp)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func eventSpan(e *lifetime.Event) span {
	return newSpan(numfmt.NewDecimal(e.Start), numfmt.NewDecimal(e.End))
}

// ExportJSON writes a pipeline result to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(res *pipeline.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(res, f)
}
