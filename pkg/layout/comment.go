package layout

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/matzehuels/danmaku/pkg/errors"
)

// Mode is how a comment moves on screen.
type Mode int

const (
	// Scroll comments cross the screen from right to left.
	Scroll Mode = iota
	// Top comments stand still, stacked from the top edge down.
	Top
	// Bottom comments stand still, stacked from the bottom edge up.
	Bottom
)

var modeNames = [...]string{Scroll: "scroll", Top: "top", Bottom: "bottom"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Fixed reports whether m is a static mode. Scrolling and fixed comments
// never collide with each other; top and bottom comments share a class.
func (m Mode) Fixed() bool { return m != Scroll }

// ParseMode accepts the mode names plus the NicoNico command aliases
// (naka, ue, shita) and "normal".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "scroll", "normal", "naka":
		return Scroll, nil
	case "top", "ue":
		return Top, nil
	case "bottom", "shita":
		return Bottom, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown comment mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Comment is one on-screen text event. ID, Start, End, Mode, Width and
// Height are inputs; Y, Opacity and Overflow are written once by
// [Engine.Layout].
type Comment struct {
	ID     string
	Start  *big.Rat // seconds, inclusive
	End    *big.Rat // seconds, exclusive
	Mode   Mode
	Width  *big.Rat
	Height *big.Rat

	Y        *big.Rat
	Opacity  *big.Rat
	Overflow bool
}

func (c *Comment) validate() error {
	if c.Start == nil || c.End == nil || c.Width == nil || c.Height == nil {
		return errors.New(errors.ErrCodeInvalidInput, "comment %q is missing timing or size", c.ID)
	}
	if c.Start.Cmp(c.End) >= 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"comment %q has empty lifetime [%s, %s)", c.ID, c.Start.RatString(), c.End.RatString())
	}
	if c.Width.Sign() < 0 || c.Height.Sign() < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "comment %q has negative size", c.ID)
	}
	if c.Mode < Scroll || c.Mode > Bottom {
		return errors.New(errors.ErrCodeInvalidInput, "comment %q has invalid mode %d", c.ID, int(c.Mode))
	}
	return nil
}

// Bottom returns Y + Height.
func (c *Comment) Bottom() *big.Rat {
	return new(big.Rat).Add(c.Y, c.Height)
}

// X returns the left edge of the comment at time t on a screen of the given
// width. Scrolling comments enter at the right edge at Start and leave past
// the left edge at End; fixed comments are centred.
func (c *Comment) X(t, screenWidth *big.Rat) *big.Rat {
	if c.Mode.Fixed() {
		x := new(big.Rat).Sub(screenWidth, c.Width)
		return x.Mul(x, big.NewRat(1, 2))
	}
	travel := new(big.Rat).Add(screenWidth, c.Width)
	elapsed := new(big.Rat).Sub(t, c.Start)
	duration := new(big.Rat).Sub(c.End, c.Start)
	travel.Mul(travel, elapsed)
	travel.Quo(travel, duration)
	return travel.Sub(screenWidth, travel)
}
