package exact

import (
	"fmt"
	"math/big"
)

// Sqrt2 is an exact element of ℚ[√2]: coef·√2 + offset with rational coef
// and offset.
//
// Values are immutable. Every method returns a fresh value and never
// modifies its receiver or arguments, so a Sqrt2 may be copied and shared
// freely. The zero value is 0.
type Sqrt2 struct {
	coef   *big.Rat
	offset *big.Rat
}

// New returns coef·√2 + offset. The arguments are copied; nil means zero.
func New(coef, offset *big.Rat) Sqrt2 {
	return Sqrt2{
		coef:   new(big.Rat).Set(ratOrZero(coef)),
		offset: new(big.Rat).Set(ratOrZero(offset)),
	}
}

// FromRat returns the rational r as a Sqrt2 with a zero √2 coefficient.
func FromRat(r *big.Rat) Sqrt2 { return New(nil, r) }

// FromInt returns n as a Sqrt2.
func FromInt(n int64) Sqrt2 { return New(nil, big.NewRat(n, 1)) }

// Frac returns a/b as a Sqrt2.
func Frac(a, b int64) Sqrt2 { return New(nil, big.NewRat(a, b)) }

// Root2 returns √2.
func Root2() Sqrt2 { return New(big.NewRat(1, 1), nil) }

// Coef returns a copy of the √2 coefficient.
func (x Sqrt2) Coef() *big.Rat { return new(big.Rat).Set(ratOrZero(x.coef)) }

// Offset returns a copy of the rational part.
func (x Sqrt2) Offset() *big.Rat { return new(big.Rat).Set(ratOrZero(x.offset)) }

// IsRat reports whether x is rational, i.e. its √2 coefficient is zero.
func (x Sqrt2) IsRat() bool { return ratOrZero(x.coef).Sign() == 0 }

// Rat returns x as a rational when it is one.
func (x Sqrt2) Rat() (*big.Rat, bool) {
	if !x.IsRat() {
		return nil, false
	}
	return x.Offset(), true
}

// Add returns x + y.
func (x Sqrt2) Add(y Sqrt2) Sqrt2 {
	return Sqrt2{
		coef:   new(big.Rat).Add(ratOrZero(x.coef), ratOrZero(y.coef)),
		offset: new(big.Rat).Add(ratOrZero(x.offset), ratOrZero(y.offset)),
	}
}

// AddRat returns x + r.
func (x Sqrt2) AddRat(r *big.Rat) Sqrt2 { return x.Add(FromRat(r)) }

// Sub returns x − y.
func (x Sqrt2) Sub(y Sqrt2) Sqrt2 { return x.Add(y.Neg()) }

// Neg returns −x.
func (x Sqrt2) Neg() Sqrt2 {
	return Sqrt2{
		coef:   new(big.Rat).Neg(ratOrZero(x.coef)),
		offset: new(big.Rat).Neg(ratOrZero(x.offset)),
	}
}

// Mul returns x·y, folding √2·√2 into 2.
func (x Sqrt2) Mul(y Sqrt2) Sqrt2 {
	a, b := ratOrZero(x.coef), ratOrZero(x.offset)
	c, d := ratOrZero(y.coef), ratOrZero(y.offset)

	// (a√2 + b)(c√2 + d) = (ad + bc)√2 + (2ac + bd)
	coef := new(big.Rat).Mul(a, d)
	coef.Add(coef, new(big.Rat).Mul(b, c))
	offset := new(big.Rat).Mul(a, c)
	offset.Mul(offset, two)
	offset.Add(offset, new(big.Rat).Mul(b, d))
	return Sqrt2{coef: coef, offset: offset}
}

// MulRat returns x·r.
func (x Sqrt2) MulRat(r *big.Rat) Sqrt2 {
	return Sqrt2{
		coef:   new(big.Rat).Mul(ratOrZero(x.coef), r),
		offset: new(big.Rat).Mul(ratOrZero(x.offset), r),
	}
}

// Quo returns x/y. It panics if y is zero, like big.Rat.Quo.
func (x Sqrt2) Quo(y Sqrt2) Sqrt2 {
	a, b := ratOrZero(x.coef), ratOrZero(x.offset)
	c, d := ratOrZero(y.coef), ratOrZero(y.offset)

	// Multiply through by the conjugate (c√2 − d):
	// (a√2 + b)/(c√2 + d) = ((bc − ad)√2 + (2ac − bd)) / (2c² − d²)
	// 2c² − d² vanishes only when c = d = 0 since √2 is irrational.
	div := new(big.Rat).Mul(c, c)
	div.Mul(div, two)
	div.Sub(div, new(big.Rat).Mul(d, d))
	if div.Sign() == 0 {
		panic("exact: division by zero")
	}
	coef := new(big.Rat).Mul(b, c)
	coef.Sub(coef, new(big.Rat).Mul(a, d))
	offset := new(big.Rat).Mul(a, c)
	offset.Mul(offset, two)
	offset.Sub(offset, new(big.Rat).Mul(b, d))
	return Sqrt2{coef: coef.Quo(coef, div), offset: offset.Quo(offset, div)}
}

// QuoRat returns x/r. It panics if r is zero.
func (x Sqrt2) QuoRat(r *big.Rat) Sqrt2 {
	return Sqrt2{
		coef:   new(big.Rat).Quo(ratOrZero(x.coef), r),
		offset: new(big.Rat).Quo(ratOrZero(x.offset), r),
	}
}

// Inv returns 1/x.
func (x Sqrt2) Inv() Sqrt2 { return FromInt(1).Quo(x) }

// Pow returns x raised to the integer power n by binary exponentiation.
// Pow(0) is 1 and negative powers invert the result.
func (x Sqrt2) Pow(n int) Sqrt2 {
	reciprocal := n < 0
	if reciprocal {
		n = -n
	}
	result := FromInt(1)
	base := x
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	if reciprocal {
		return result.Inv()
	}
	return result
}

// Cmp compares x and y and returns -1, 0 or +1.
//
// x ? y reduces to (a − c)·√2 ? (d − b). When both sides share a sign the
// comparison moves to their squares, 2(a − c)² ? (d − b)², flipped when
// both are negative. No irrational value is ever approximated.
func (x Sqrt2) Cmp(y Sqrt2) int {
	lhs := new(big.Rat).Sub(ratOrZero(x.coef), ratOrZero(y.coef))
	rhs := new(big.Rat).Sub(ratOrZero(y.offset), ratOrZero(x.offset))

	ls, rs := lhs.Sign(), rhs.Sign()
	if ls != rs {
		return cmpInt(ls, rs)
	}
	if ls == 0 {
		return 0
	}
	l2 := new(big.Rat).Mul(lhs, lhs)
	l2.Mul(l2, two)
	r2 := new(big.Rat).Mul(rhs, rhs)
	if ls > 0 {
		return l2.Cmp(r2)
	}
	return r2.Cmp(l2)
}

// CmpRat compares x with the rational r.
func (x Sqrt2) CmpRat(r *big.Rat) int { return x.Cmp(FromRat(r)) }

// Equal reports whether x == y.
func (x Sqrt2) Equal(y Sqrt2) bool {
	return ratOrZero(x.coef).Cmp(ratOrZero(y.coef)) == 0 &&
		ratOrZero(x.offset).Cmp(ratOrZero(y.offset)) == 0
}

// Sign returns -1, 0 or +1 depending on the sign of x.
func (x Sqrt2) Sign() int { return x.Cmp(Sqrt2{}) }

// Abs returns |x|.
func (x Sqrt2) Abs() Sqrt2 {
	if x.Sign() < 0 {
		return x.Neg()
	}
	return x
}

// Floor returns the greatest integer not greater than x.
func (x Sqrt2) Floor() *big.Int { return x.Apply(Floor) }

// Ceil returns the least integer not less than x.
func (x Sqrt2) Ceil() *big.Int { return x.Apply(Ceil) }

// Round returns the integer nearest to x. Ties can only occur for rational
// x and go to the even neighbour.
func (x Sqrt2) Round() *big.Int { return x.Apply(Round) }

// Trunc returns x rounded toward zero.
func (x Sqrt2) Trunc() *big.Int { return x.Apply(Trunc) }

// Apply evaluates round(x) exactly.
//
// For a ≠ 0 it runs Newton's iteration for √(2a²) = a√2 starting from the
// bracket [a, 2a]: r moves to the midpoint and l to 2a²/r, so a√2 always
// lies between l and r while the bracket shrinks quadratically. Because
// a√2 + b is irrational it never sits on a rounding boundary, and the loop
// stops as soon as both ends round to the same integer.
func (x Sqrt2) Apply(round RoundingFunc) *big.Int {
	a, b := ratOrZero(x.coef), ratOrZero(x.offset)
	if a.Sign() == 0 {
		return round(b)
	}
	l := new(big.Rat).Set(a)
	r := new(big.Rat).Mul(a, two)
	aa2 := new(big.Rat).Mul(r, a)
	for {
		rl := round(new(big.Rat).Add(l, b))
		if rl.Cmp(round(new(big.Rat).Add(r, b))) == 0 {
			return rl
		}
		r = new(big.Rat).Add(l, r)
		r.Quo(r, two)
		l = new(big.Rat).Quo(aa2, r)
	}
}

// Float returns x as a big.Float with the given mantissa precision.
func (x Sqrt2) Float(prec uint) *big.Float {
	root := new(big.Float).SetPrec(prec).SetInt64(2)
	root.Sqrt(root)
	v := new(big.Float).SetPrec(prec).SetRat(ratOrZero(x.coef))
	v.Mul(v, root)
	return v.Add(v, new(big.Float).SetPrec(prec).SetRat(ratOrZero(x.offset)))
}

// Float64 returns the nearest float64 to x.
func (x Sqrt2) Float64() float64 {
	f, _ := x.Float(128).Float64()
	return f
}

// String formats x as "coef*sqrt(2)+offset", dropping zero parts.
func (x Sqrt2) String() string {
	a, b := ratOrZero(x.coef), ratOrZero(x.offset)
	if a.Sign() == 0 {
		return b.RatString()
	}
	coef := a.RatString()
	if !a.IsInt() {
		coef = "(" + coef + ")"
	}
	switch b.Sign() {
	case 0:
		return coef + "*sqrt(2)"
	case -1:
		return fmt.Sprintf("%s*sqrt(2)%s", coef, b.RatString())
	}
	return fmt.Sprintf("%s*sqrt(2)+%s", coef, b.RatString())
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
