package numfmt

import (
	"bytes"
	"math/big"
	"strconv"

	"github.com/matzehuels/danmaku/pkg/errors"
)

// Decimal is a rational that travels through JSON, TOML and YAML as text,
// never as float64. It accepts decimal ("26.875"), exponent ("6e-1") and
// fraction ("215/8") spellings, quoted or bare.
//
// The zero value is unset; [Decimal.IsSet] distinguishes it from an
// explicit zero.
type Decimal struct {
	r *big.Rat
}

// NewDecimal wraps a copy of r.
func NewDecimal(r *big.Rat) Decimal {
	if r == nil {
		return Decimal{}
	}
	return Decimal{r: new(big.Rat).Set(r)}
}

// ParseDecimal parses s into a Decimal.
func ParseDecimal(s string) (Decimal, error) {
	var d Decimal
	err := d.UnmarshalText([]byte(s))
	return d, err
}

// IsSet reports whether d holds a value.
func (d Decimal) IsSet() bool { return d.r != nil }

// Rat returns a copy of the value, or zero when unset.
func (d Decimal) Rat() *big.Rat {
	if d.r == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(d.r)
}

// String returns the exact decimal form when one exists and a/b otherwise.
func (d Decimal) String() string {
	if d.r == nil {
		return "0"
	}
	if s, err := Number(d.r); err == nil {
		return s
	}
	return d.r.RatString()
}

// MarshalText implements encoding.TextMarshaler.
func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decimal) UnmarshalText(text []byte) error {
	r, ok := new(big.Rat).SetString(string(bytes.TrimSpace(text)))
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid rational %q", text)
	}
	d.r = r
	return nil
}

// MarshalJSON writes exact decimals as JSON numbers and other rationals as
// quoted fractions.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if d.r == nil {
		return []byte("0"), nil
	}
	if s, err := Number(d.r); err == nil {
		return []byte(s), nil
	}
	return []byte(strconv.Quote(d.r.RatString())), nil
}

// UnmarshalJSON accepts JSON numbers and strings. The number literal is
// parsed directly, so 0.1 stays 1/10.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	if s, err := strconv.Unquote(string(data)); err == nil {
		return d.UnmarshalText([]byte(s))
	}
	return d.UnmarshalText(data)
}

// UnmarshalTOML implements toml.Unmarshaler so that TOML integers, floats
// and strings all decode. Floats are re-spelled with the shortest
// round-trip representation first, which recovers the literal as written.
func (d *Decimal) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case int64:
		d.r = new(big.Rat).SetInt64(v)
		return nil
	case float64:
		return d.UnmarshalText([]byte(strconv.FormatFloat(v, 'g', -1, 64)))
	case string:
		return d.UnmarshalText([]byte(v))
	}
	return errors.New(errors.ErrCodeInvalidInput, "cannot decode %T as a rational", v)
}
