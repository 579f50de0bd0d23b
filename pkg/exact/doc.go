// Package exact implements exact arithmetic over ℚ[√2], the rationals
// extended by the square root of two.
//
// The rounded-corner geometry in [github.com/matzehuels/danmaku/pkg/drawing]
// places Bézier control points at r·(7 − 4√2)/3 from each corner. Carrying
// that offset as a float would make path serialization depend on the
// platform's rounding; [Sqrt2] keeps it symbolic instead, as a pair of
// rationals (coef, offset) meaning coef·√2 + offset.
//
// # Arithmetic
//
// Addition, subtraction, multiplication, division and integer powers are
// closed over ℚ[√2] and never round:
//
//	o := exact.New(big.NewRat(-4, 3), big.NewRat(7, 3)) // (7 − 4√2)/3
//	o = o.MulRat(big.NewRat(10, 1))                      // scaled by the radius
//
// # Comparison and Rounding
//
// [Sqrt2.Cmp] decides order by comparing squares of rationals, so it is
// exact. [Sqrt2.Floor], [Sqrt2.Ceil], [Sqrt2.Round] and [Sqrt2.Trunc] narrow
// a rational bracket around the value with Newton's method until both ends
// round to the same integer. The result is always the mathematically
// correct integer.
//
// The package also exports the rounding helpers for plain *big.Rat values
// ([Floor], [Ceil], [Round], [Trunc]); [Round] breaks ties toward the even
// neighbour.
package exact
