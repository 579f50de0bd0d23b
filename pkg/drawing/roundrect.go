package drawing

import (
	"math/big"

	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/exact"
)

// bezierInset is (7 − 4√2)/3: the distance from a corner to the control
// points of the cubic that approximates a quarter circle of unit radius.
var bezierInset = exact.New(big.NewRat(-4, 3), big.NewRat(7, 3))

// BezierInset returns r·(7 − 4√2)/3.
func BezierInset(r *big.Rat) exact.Sqrt2 {
	return bezierInset.MulRat(r)
}

// RoundedRect returns a w×h rectangle with its top-left corner at the origin
// and corners rounded to radius r. The single contour starts where the top
// edge meets the top-right corner and runs clockwise (in screen
// coordinates), alternating one straight edge and one cubic per corner.
//
// It fails with INVALID_GEOMETRY unless w, h and r are non-negative and
// 2r ≤ min(w, h).
func RoundedRect(w, h, r *big.Rat) (*Path, error) {
	if w.Sign() < 0 || h.Sign() < 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "rectangle size %s×%s is negative", w.RatString(), h.RatString())
	}
	if r.Sign() < 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "corner radius %s is negative", r.RatString())
	}
	d := new(big.Rat).Add(r, r)
	if d.Cmp(w) > 0 || d.Cmp(h) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry,
			"corner radius %s does not fit a %s×%s rectangle", r.RatString(), w.RatString(), h.RatString())
	}

	W, H, R := exact.FromRat(w), exact.FromRat(h), exact.FromRat(r)
	O := BezierInset(r)
	var zero exact.Sqrt2

	pt := func(m Mode, x, y exact.Sqrt2) Point { return Point{Mode: m, X: x, Y: y} }
	contour := Contour{
		pt(Move, W.Sub(R), zero),
		pt(Bezier, W.Sub(O), zero), pt(Bezier, W, O), pt(Bezier, W, R),
		pt(Line, W, H.Sub(R)),
		pt(Bezier, W, H.Sub(O)), pt(Bezier, W.Sub(O), H), pt(Bezier, W.Sub(R), H),
		pt(Line, R, H),
		pt(Bezier, O, H), pt(Bezier, zero, H.Sub(O)), pt(Bezier, zero, H.Sub(R)),
		pt(Line, zero, R),
		pt(Bezier, zero, O), pt(Bezier, O, zero), pt(Bezier, R, zero),
	}
	return fromContours([]Contour{contour}), nil
}
