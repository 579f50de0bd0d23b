// Package numfmt renders exact values as the minimal numerals used in
// subtitle drawing and override syntax.
//
// Every formatter here works on *big.Rat and never routes a value through
// float64: downstream consumers parse the emitted text as exact geometry and
// time values.
package numfmt

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/exact"
)

// Number returns the shortest exact decimal spelling of x: no trailing
// zeros, no exponent, and no fractional part for integers.
//
// A rational whose reduced denominator has a prime factor other than 2 or 5
// has no finite decimal expansion; Number fails with INEXACT_DECIMAL rather
// than round it. Use [Approx] when rounding is intended.
func Number(x *big.Rat) (string, error) {
	if x.IsInt() {
		return x.Num().String(), nil
	}
	digits, ok := decimalDigits(x.Denom())
	if !ok {
		return "", errors.New(errors.ErrCodeInexactDecimal, "%s has no finite decimal expansion", x.RatString())
	}
	return trimZeros(x.FloatString(digits)), nil
}

// MustNumber is like [Number] but panics on inexact input. It is meant for
// values whose denominators are known to be powers of two and five.
func MustNumber(x *big.Rat) string {
	s, err := Number(x)
	if err != nil {
		panic(err)
	}
	return s
}

// Approx rounds x to at most digits fractional digits (halves away from
// zero) and trims trailing zeros.
func Approx(x *big.Rat, digits int) string {
	s := trimZeros(x.FloatString(max(digits, 0)))
	if s == "-0" {
		return "0"
	}
	return s
}

// Timestamp formats seconds as H:MM:SS.CC. Negative times clamp to zero and
// the value is rounded to whole centiseconds (ties to even) before it is
// split into fields, so a carry never produces a three-digit fraction.
func Timestamp(seconds *big.Rat) string {
	cs := new(big.Rat).Mul(seconds, big.NewRat(100, 1))
	total := exact.Round(cs)
	if total.Sign() < 0 {
		total.SetInt64(0)
	}
	n := total.Int64()
	h, n := n/360000, n%360000
	m, n := n/6000, n%6000
	s, c := n/100, n%100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, c)
}

// Color formats a 0xRRGGBB colour in the subtitle &HBBGGRR notation.
func Color(rgb uint32) string {
	return fmt.Sprintf("&H%02X%02X%02X", rgb&0xff, rgb>>8&0xff, rgb>>16&0xff)
}

// Alpha formats an opacity in [0,1] as the &HAA transparency byte,
// round((1 − opacity)·255).
func Alpha(opacity *big.Rat) string {
	t := new(big.Rat).Sub(big.NewRat(1, 1), opacity)
	t.Mul(t, big.NewRat(255, 1))
	v := exact.Round(t).Int64()
	return fmt.Sprintf("&H%02X", min(max(v, 0), 255))
}

// decimalDigits returns how many fractional digits represent 1/den exactly,
// or false when den has a prime factor other than 2 and 5.
func decimalDigits(den *big.Int) (int, bool) {
	d := new(big.Int).Set(den)
	twos := int(d.TrailingZeroBits())
	d.Rsh(d, uint(twos))

	fives := 0
	five := big.NewInt(5)
	q, r := new(big.Int), new(big.Int)
	for {
		q.QuoRem(d, five, r)
		if r.Sign() != 0 {
			break
		}
		d.Set(q)
		fives++
	}
	if d.Cmp(big.NewInt(1)) != 0 {
		return 0, false
	}
	return max(twos, fives), true
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
