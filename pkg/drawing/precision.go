package drawing

import (
	"math/big"
	"strings"

	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/exact"
)

const (
	// MaxPrecision is the largest precision exponent a path can use.
	MaxPrecision = 31

	// coordinateBits bounds serialized coordinates to [-2^25, 2^25).
	coordinateBits = 25
)

var (
	coordMin = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), coordinateBits))
	coordMax = new(big.Int).Lsh(big.NewInt(1), coordinateBits)
)

// Precision returns the precision exponent p used to serialize the path:
// each coordinate is written as round(v·2^(p−1)).
//
// p is the smallest exponent at which every coordinate that can be written
// exactly within the 25-bit budget is written exactly. Coordinates that
// are irrational, or need more bits than the budget leaves, are rounded at
// the largest exponent the budget allows. Precision fails with
// COORDINATE_OUT_OF_RANGE when some coordinate does not fit even at p = 1.
func (p *Path) Precision() (int, error) {
	upper := MaxPrecision
	for _, c := range p.contours {
		for _, pt := range c {
			for _, v := range [2]exact.Sqrt2{pt.X, pt.Y} {
				u, err := upperBound(v)
				if err != nil {
					return 0, err
				}
				upper = min(upper, u)
			}
		}
	}

	prec := 1
	for _, c := range p.contours {
		for _, pt := range c {
			prec = max(prec, lowerBound(pt.X, upper), lowerBound(pt.Y, upper))
		}
	}
	return prec, nil
}

// upperBound counts the shifts, starting at zero, for which v·2^shift still
// rounds into the coordinate range.
func upperBound(v exact.Sqrt2) (int, error) {
	shift := 0
	for shift < MaxPrecision {
		n := scaled(v, shift)
		if n.Cmp(coordMin) < 0 || n.Cmp(coordMax) >= 0 {
			break
		}
		shift++
	}
	if shift == 0 {
		return 0, errors.New(errors.ErrCodeCoordinateOutOfRange,
			"coordinate %s does not fit in %d bits", v, coordinateBits+1)
	}
	return shift, nil
}

// lowerBound returns the smallest precision at which v's fixed-point value
// at precision p keeps all of its set bits.
func lowerBound(v exact.Sqrt2, p int) int {
	n := scaled(v, p-1)
	if n.Sign() == 0 {
		return 1
	}
	return p - int(n.TrailingZeroBits())
}

func scaled(v exact.Sqrt2, shift int) *big.Int {
	return v.MulRat(exact.Shift(big.NewRat(1, 1), shift)).Round()
}

// Serialize writes the path as drawing words at its [Path.Precision],
// emitting a mode letter only when the mode changes. It returns the words
// and the precision exponent the consumer must scale by.
func (p *Path) Serialize() (string, int, error) {
	prec, err := p.Precision()
	if err != nil {
		return "", 0, err
	}
	return p.serialize(prec - 1), prec, nil
}

func (p *Path) serialize(shift int) string {
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
			sb.WriteString(scaled(pt.X, shift).String())
			sb.WriteByte(' ')
			sb.WriteString(scaled(pt.Y, shift).String())
		}
	}
	return sb.String()
}
