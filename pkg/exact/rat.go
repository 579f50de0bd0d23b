package exact

import "math/big"

// RoundingFunc maps a rational to an integer. Floor, Ceil, Round and Trunc
// are the four used by [Sqrt2] and by path serialization.
type RoundingFunc func(*big.Rat) *big.Int

// Floor returns the greatest integer not greater than x.
func Floor(x *big.Rat) *big.Int {
	// big.Rat keeps the denominator positive, so Euclidean division floors.
	return new(big.Int).Div(x.Num(), x.Denom())
}

// Ceil returns the least integer not less than x.
func Ceil(x *big.Rat) *big.Int {
	f := Floor(new(big.Rat).Neg(x))
	return f.Neg(f)
}

// Trunc returns x rounded toward zero.
func Trunc(x *big.Rat) *big.Int {
	return new(big.Int).Quo(x.Num(), x.Denom())
}

// Round returns the integer nearest to x, with ties going to the even
// neighbour.
func Round(x *big.Rat) *big.Int {
	f := Floor(x)
	frac := new(big.Rat).Sub(x, new(big.Rat).SetInt(f))
	switch frac.Cmp(half) {
	case -1:
		return f
	case 1:
		return f.Add(f, bigOne)
	}
	if f.Bit(0) == 1 {
		f.Add(f, bigOne)
	}
	return f
}

// Shift returns x·2^n without modifying x. Negative n divides.
func Shift(x *big.Rat, n int) *big.Rat {
	num := new(big.Int).Set(x.Num())
	den := new(big.Int).Set(x.Denom())
	if n >= 0 {
		num.Lsh(num, uint(n))
	} else {
		den.Lsh(den, uint(-n))
	}
	return new(big.Rat).SetFrac(num, den)
}

// Rat is shorthand for big.NewRat.
func Rat(a, b int64) *big.Rat { return big.NewRat(a, b) }

// ParseRat parses a decimal ("26.875"), exponent ("1e-3") or fraction
// ("215/8") literal.
func ParseRat(s string) (*big.Rat, bool) {
	return new(big.Rat).SetString(s)
}

var (
	bigOne = big.NewInt(1)
	half   = big.NewRat(1, 2)
	two    = big.NewRat(2, 1)
)

func ratOrZero(r *big.Rat) *big.Rat {
	if r == nil {
		return new(big.Rat)
	}
	return r
}
