package drawing

import (
	"math/big"
	"strings"

	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/exact"
)

// Parse reads drawing words such as "m 0 0 l 10 0 10 10". Numbers may be
// decimals ("2.5") or fractions ("5/2") and are kept exact.
func Parse(s string) (*Path, error) {
	words := strings.Fields(s)
	items := make([]any, len(words))
	for i, w := range words {
		if r, ok := exact.ParseRat(w); ok {
			items[i] = r
		} else {
			items[i] = w
		}
	}
	return Build(items...)
}

// Build assembles a path from a sequence of mode letters and coordinates.
// Accepted items are Mode, single-letter strings, *big.Rat, exact.Sqrt2 and
// int. It is the programmatic form of [Parse]:
//
//	drawing.Build(drawing.Move, 0, 0, drawing.Line, 10, 0, 10, 10)
func Build(items ...any) (*Path, error) {
	var (
		contours []Contour
		contour  Contour
		mode     Mode
		arg      *exact.Sqrt2
		complete = true // the current mode has received at least one point
	)

	setMode := func(m Mode) error {
		if !m.valid() {
			return errors.New(errors.ErrCodeInvalidDrawing, "unknown drawing command %q", m)
		}
		if mode == 0 && m != Move {
			return errors.New(errors.ErrCodeInvalidDrawing, "drawing must start with %q, got %q", Move, m)
		}
		if arg != nil {
			return errors.New(errors.ErrCodeInvalidDrawing, "coordinate %s has no pair", *arg)
		}
		if mode == Move && m == Move {
			return errors.New(errors.ErrCodeDegenerateContour, "move is not followed by a segment")
		}
		if !complete {
			return errors.New(errors.ErrCodeInvalidDrawing, "command %q has no coordinates", mode)
		}
		if m == Move && len(contour) > 0 {
			contours = append(contours, contour)
			contour = nil
		}
		mode = m
		complete = false
		return nil
	}

	addNumber := func(v exact.Sqrt2) error {
		if mode == 0 {
			return errors.New(errors.ErrCodeInvalidDrawing, "coordinate before the first command")
		}
		if arg == nil {
			arg = &v
			return nil
		}
		if mode == Move && complete {
			return errors.New(errors.ErrCodeDegenerateContour, "move is not followed by a segment")
		}
		contour = append(contour, Point{Mode: mode, X: *arg, Y: v})
		arg = nil
		complete = true
		return nil
	}

	for _, item := range items {
		var err error
		switch v := item.(type) {
		case Mode:
			err = setMode(v)
		case string:
			if len(v) != 1 {
				return nil, errors.New(errors.ErrCodeInvalidDrawing, "invalid drawing word %q", v)
			}
			err = setMode(Mode(v[0]))
		case *big.Rat:
			err = addNumber(exact.FromRat(v))
		case exact.Sqrt2:
			err = addNumber(v)
		case int:
			err = addNumber(exact.FromInt(int64(v)))
		default:
			return nil, errors.New(errors.ErrCodeInvalidDrawing, "drawing items must be commands or numbers, not %T", item)
		}
		if err != nil {
			return nil, err
		}
	}
	// A final move flushes the last contour and runs the same checks.
	if err := setMode(Move); err != nil {
		return nil, err
	}
	if len(contours) == 0 {
		return nil, errors.New(errors.ErrCodeDegenerateContour, "empty drawing")
	}
	return fromContours(contours), nil
}
