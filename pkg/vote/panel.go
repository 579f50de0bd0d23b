package vote

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/danmaku/pkg/drawing"
	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/exact"
	"github.com/matzehuels/danmaku/pkg/observability"
)

// Shape kinds reported to the shape hooks.
const (
	KindFill    = "fill"
	KindOutline = "outline"
)

// Config describes the screen and the resolution the shapes are drawn at.
type Config struct {
	Width  *big.Rat // screen width in layout pixels
	Height *big.Rat // screen height in layout pixels
	Scale  *big.Rat // output pixels per layout pixel
}

// DefaultConfig returns the 672×378 player screen drawn 13 times larger.
func DefaultConfig() Config {
	return Config{Width: big.NewRat(672, 1), Height: big.NewRat(378, 1), Scale: big.NewRat(13, 1)}
}

// Validate rejects unset or non-positive fields.
func (c Config) Validate() error {
	if c.Width == nil || c.Height == nil || c.Scale == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "vote config has unset fields")
	}
	if c.Width.Sign() <= 0 || c.Height.Sign() <= 0 || c.Scale.Sign() <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "screen %s×%s at scale %s must be positive",
			c.Width.RatString(), c.Height.RatString(), c.Scale.RatString())
	}
	return nil
}

// Shape is a serialized vector shape.
type Shape struct {
	Kind      string        `json:"kind"`
	Path      *drawing.Path `json:"-"`
	Precision int           `json:"precision"`
	Drawing   string        `json:"drawing"`
}

// Box is one answer of a poll panel. Positions are scaled to the output
// resolution; Rect stays in layout pixels.
type Box struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Rect  Rect   `json:"-"`
	// X and Y are the centre of the box, where both shapes are anchored.
	X *big.Rat `json:"-"`
	Y *big.Rat `json:"-"`
	// PercentY is the baseline of the result label, six pixels above the
	// bottom edge.
	PercentY   *big.Rat `json:"-"`
	Percentage string   `json:"percentage,omitempty"`
	Fill       Shape    `json:"fill"`
	Outline    Shape    `json:"outline"`
}

// Panel is the full set of answer boxes of one vote event.
type Panel struct {
	Boxes []*Box `json:"boxes"`
}

// Option configures a [Builder].
type Option func(*Builder)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option { return func(b *Builder) { b.logger = l } }

// Builder draws poll panels.
type Builder struct {
	cfg    Config
	logger *log.Logger
}

// NewBuilder returns a builder for cfg.
func NewBuilder(cfg Config, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{cfg: cfg}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return b, nil
}

// Panel builds every answer box. When results is non-nil each box also
// gets its share of the total as a percentage label.
func (b *Builder) Panel(ctx context.Context, answers []string, results []int) (*Panel, error) {
	percentages := Percentages(results)
	p := &Panel{Boxes: make([]*Box, 0, len(answers))}
	for i, answer := range answers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		box, err := b.Box(ctx, i, len(answers), answer)
		if err != nil {
			return nil, err
		}
		if i < len(percentages) {
			box.Percentage = percentages[i]
		}
		p.Boxes = append(p.Boxes, box)
	}
	return p, nil
}

// Box builds the box of answer i out of n.
//
// The fill is a rounded rectangle inset by half the border thickness. The
// outline is a ring: the outer rectangle with the inner one cut out.
func (b *Builder) Box(ctx context.Context, i, n int, answer string) (*Box, error) {
	rect, err := AnswerBox(i, n, b.cfg.Width, b.cfg.Height)
	if err != nil {
		return nil, err
	}
	fill, outline, err := Shapes(rect.Width, rect.Height)
	if err != nil {
		observability.Shape().OnShapeFailed(ctx, KindOutline, err)
		return nil, fmt.Errorf("answer %d: %w", i+1, err)
	}

	box := &Box{Index: i, Label: strconv.Itoa(i+1) + ":" + answer, Rect: rect}
	cx, cy := rect.Center()
	box.X = new(big.Rat).Mul(cx, b.cfg.Scale)
	box.Y = new(big.Rat).Mul(cy, b.cfg.Scale)
	box.PercentY = new(big.Rat).Sub(rect.Bottom(), big.NewRat(Spacing, 1))
	box.PercentY.Mul(box.PercentY, b.cfg.Scale)

	if box.Fill, err = b.shape(ctx, KindFill, fill); err != nil {
		return nil, fmt.Errorf("answer %d: %w", i+1, err)
	}
	if box.Outline, err = b.shape(ctx, KindOutline, outline); err != nil {
		return nil, fmt.Errorf("answer %d: %w", i+1, err)
	}
	return box, nil
}

func (b *Builder) shape(ctx context.Context, kind string, p *drawing.Path) (Shape, error) {
	p = p.Scale(b.cfg.Scale)
	s, prec, err := p.Serialize()
	if err != nil {
		observability.Shape().OnShapeFailed(ctx, kind, err)
		return Shape{}, err
	}
	b.logger.Debug("shape built", "kind", kind, "precision", prec)
	observability.Shape().OnShapeBuilt(ctx, kind, prec)
	return Shape{Kind: kind, Path: p, Precision: prec, Drawing: s}, nil
}

// Border returns the border thickness and corner radius of a box w pixels
// wide: max(1.5% of w, 2) and 7.5% of w.
func Border(w *big.Rat) (thickness, radius *big.Rat) {
	thickness = new(big.Rat).Mul(w, big.NewRat(3, 200))
	if thickness.Cmp(big.NewRat(2, 1)) < 0 {
		thickness.SetInt64(2)
	}
	radius = new(big.Rat).Mul(w, big.NewRat(3, 40))
	return thickness, radius
}

// Shapes returns the unscaled fill and outline of a w×h answer box, both
// with their top-left corner at the origin.
func Shapes(w, h *big.Rat) (fill, outline *drawing.Path, err error) {
	t, r := Border(w)
	half := new(big.Rat).Mul(t, big.NewRat(1, 2))

	outer, err := drawing.RoundedRect(w, h, new(big.Rat).Add(r, half))
	if err != nil {
		return nil, nil, err
	}
	fill, err = drawing.RoundedRect(new(big.Rat).Sub(w, t), new(big.Rat).Sub(h, t), r)
	if err != nil {
		return nil, nil, err
	}
	t2 := new(big.Rat).Add(t, t)
	inner, err := drawing.RoundedRect(new(big.Rat).Sub(w, t2), new(big.Rat).Sub(h, t2), new(big.Rat).Sub(r, half))
	if err != nil {
		return nil, nil, err
	}
	return fill, outer.CombineWithHole(inner.TranslateRat(t, t)), nil
}

// Percentages returns each result's share of the total rounded half to even
// to one decimal, formatted like "12.5%". It returns nil when the total is
// zero.
func Percentages(results []int) []string {
	total := int64(0)
	for _, n := range results {
		total += int64(n)
	}
	if total == 0 {
		return nil
	}
	out := make([]string, len(results))
	for i, n := range results {
		k := exact.Round(big.NewRat(int64(n)*1000, total))
		sign := ""
		if k.Sign() < 0 {
			sign = "-"
			k.Neg(k)
		}
		whole, tenth := new(big.Int).QuoRem(k, big.NewInt(10), new(big.Int))
		out[i] = fmt.Sprintf("%s%s.%s%%", sign, whole, tenth)
	}
	return out
}
