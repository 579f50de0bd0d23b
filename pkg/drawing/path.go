package drawing

import (
	"math/big"
	"strings"

	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/exact"
)

// Mode is a drawing command. A point's mode describes the segment that ends
// at that point.
type Mode byte

const (
	Move     Mode = 'm' // start a new closed contour
	MoveOpen Mode = 'n' // move without closing the previous figure
	Line     Mode = 'l'
	Bezier   Mode = 'b' // cubic Bézier; points come in groups of three
)

func (m Mode) String() string { return string(m) }

func (m Mode) valid() bool {
	switch m {
	case Move, MoveOpen, Line, Bezier:
		return true
	}
	return false
}

// Point is one coordinate pair together with the command that reaches it.
type Point struct {
	Mode Mode
	X, Y exact.Sqrt2
}

// Pt is shorthand for a point with rational coordinates.
func Pt(mode Mode, x, y *big.Rat) Point {
	return Point{Mode: mode, X: exact.FromRat(x), Y: exact.FromRat(y)}
}

// Equal reports whether p and q have the same mode and coordinates.
func (p Point) Equal(q Point) bool {
	return p.Mode == q.Mode && p.X.Equal(q.X) && p.Y.Equal(q.Y)
}

// Contour is one closed sub-path. Its first point always has mode [Move].
type Contour []Point

// Path is an immutable list of contours with exact coordinates. All
// transformations return new paths.
type Path struct {
	contours []Contour
}

// New builds a path from contours. Each contour must start with a [Move]
// and reach at least one more point. A trailing line back to the start is
// implied by closing, so it is dropped.
func New(contours ...Contour) (*Path, error) {
	if len(contours) == 0 {
		return nil, errors.New(errors.ErrCodeDegenerateContour, "empty drawing")
	}
	out := make([]Contour, 0, len(contours))
	for i, c := range contours {
		if len(c) < 2 {
			return nil, errors.New(errors.ErrCodeDegenerateContour, "contour %d has no segments", i)
		}
		if c[0].Mode != Move {
			return nil, errors.New(errors.ErrCodeInvalidDrawing, "contour %d does not start with %q", i, Move)
		}
		for _, p := range c[1:] {
			if !p.Mode.valid() || p.Mode == Move {
				return nil, errors.New(errors.ErrCodeInvalidDrawing, "contour %d has invalid mode %q", i, p.Mode)
			}
		}
		out = append(out, append(Contour(nil), c...))
	}
	return fromContours(out), nil
}

// fromContours takes ownership of contours and applies the closing-segment
// normalization.
func fromContours(contours []Contour) *Path {
	for i, c := range contours {
		last, first := c[len(c)-1], c[0]
		if len(c) > 1 && last.Mode == Line && last.X.Equal(first.X) && last.Y.Equal(first.Y) {
			contours[i] = c[:len(c)-1]
		}
	}
	return &Path{contours: contours}
}

// Contours returns a copy of the path's contours.
func (p *Path) Contours() []Contour {
	out := make([]Contour, len(p.contours))
	for i, c := range p.contours {
		out[i] = append(Contour(nil), c...)
	}
	return out
}

// Len returns the total number of points.
func (p *Path) Len() int {
	n := 0
	for _, c := range p.contours {
		n += len(c)
	}
	return n
}

// Anchors returns the number of on-curve points: every point except the
// two Bézier control points that precede each curve end point.
func (p *Path) Anchors() int {
	n := 0
	for _, c := range p.contours {
		run := 0
		for _, pt := range c {
			if pt.Mode != Bezier {
				n++
				run = 0
				continue
			}
			run++
			if run%3 == 0 {
				n++
			}
		}
	}
	return n
}

// IsRational reports whether every coordinate is rational.
func (p *Path) IsRational() bool {
	for _, c := range p.contours {
		for _, pt := range c {
			if !pt.X.IsRat() || !pt.Y.IsRat() {
				return false
			}
		}
	}
	return true
}

// Equal reports whether p and q have identical contours.
func (p *Path) Equal(q *Path) bool {
	if len(p.contours) != len(q.contours) {
		return false
	}
	for i, c := range p.contours {
		d := q.contours[i]
		if len(c) != len(d) {
			return false
		}
		for j := range c {
			if !c[j].Equal(d[j]) {
				return false
			}
		}
	}
	return true
}

func (p *Path) mapPoints(f func(Point) Point) *Path {
	out := make([]Contour, len(p.contours))
	for i, c := range p.contours {
		nc := make(Contour, len(c))
		for j, pt := range c {
			nc[j] = f(pt)
		}
		out[i] = nc
	}
	return fromContours(out)
}

// Translate moves every point by (dx, dy).
func (p *Path) Translate(dx, dy exact.Sqrt2) *Path {
	return p.mapPoints(func(pt Point) Point {
		return Point{Mode: pt.Mode, X: pt.X.Add(dx), Y: pt.Y.Add(dy)}
	})
}

// TranslateRat is [Path.Translate] for rational offsets.
func (p *Path) TranslateRat(dx, dy *big.Rat) *Path {
	return p.Translate(exact.FromRat(dx), exact.FromRat(dy))
}

// Scale multiplies every coordinate by k.
func (p *Path) Scale(k *big.Rat) *Path {
	return p.mapPoints(func(pt Point) Point {
		return Point{Mode: pt.Mode, X: pt.X.MulRat(k), Y: pt.Y.MulRat(k)}
	})
}

// Reverse traverses every contour backwards. Each point takes the mode of
// the point that followed it, so segments keep their kind and the contour
// describes the same outline with the opposite winding.
func (p *Path) Reverse() *Path {
	out := make([]Contour, len(p.contours))
	for i, c := range p.contours {
		rc := make(Contour, 0, len(c))
		mode := Move
		for j := len(c) - 1; j >= 0; j-- {
			rc = append(rc, Point{Mode: mode, X: c[j].X, Y: c[j].Y})
			mode = c[j].Mode
		}
		out[i] = rc
	}
	return fromContours(out)
}

// CombineWithHole returns p's contours followed by the reversed contours of
// hole. Under a non-zero fill rule the hole's area is cut out of p.
func (p *Path) CombineWithHole(hole *Path) *Path {
	rev := hole.Reverse()
	out := make([]Contour, 0, len(p.contours)+len(rev.contours))
	out = append(out, p.Contours()...)
	out = append(out, rev.contours...)
	return fromContours(out)
}

// String returns the drawing words with exact coordinates, for debugging.
// Use [Path.Serialize] for output.
func (p *Path) String() string {
	var sb strings.Builder
	var mode Mode
	for _, c := range p.contours {
		for _, pt := range c {
			if pt.Mode != mode {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteByte(byte(pt.Mode))
				mode = pt.Mode
			}
			sb.WriteByte(' ')
			sb.WriteString(pt.X.String())
			sb.WriteByte(' ')
			sb.WriteString(pt.Y.String())
		}
	}
	return sb.String()
}
