package layout

import (
	"context"
	"io"
	"math/big"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/interval"
	"github.com/matzehuels/danmaku/pkg/observability"
)

// Config describes the screen the comments are laid out on.
type Config struct {
	Width        *big.Rat // screen width in layout pixels
	Height       *big.Rat // screen height in layout pixels
	Spacing      *big.Rat // gap between stacked bands
	FadedOpacity *big.Rat // opacity of overflowed comments
}

// DefaultConfig returns the 672×378 player screen with one pixel between
// lines and overflowed comments at 60% opacity.
func DefaultConfig() Config {
	return Config{
		Width:        big.NewRat(672, 1),
		Height:       big.NewRat(378, 1),
		Spacing:      big.NewRat(1, 1),
		FadedOpacity: big.NewRat(3, 5),
	}
}

// Validate checks that the screen is non-empty, the spacing non-negative
// and the faded opacity within [0, 1].
func (c Config) Validate() error {
	if c.Width == nil || c.Height == nil || c.Spacing == nil || c.FadedOpacity == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "layout config has unset fields")
	}
	if c.Width.Sign() <= 0 || c.Height.Sign() <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "screen size %s×%s must be positive",
			c.Width.RatString(), c.Height.RatString())
	}
	if c.Spacing.Sign() < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "spacing %s is negative", c.Spacing.RatString())
	}
	if c.FadedOpacity.Sign() < 0 || c.FadedOpacity.Cmp(big.NewRat(1, 1)) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "faded opacity %s is outside [0, 1]", c.FadedOpacity.RatString())
	}
	return nil
}

// Option configures an [Engine].
type Option func(*Engine)

// WithSeed seeds the generator used for overflow placement.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef)) }
}

// WithRand sets the generator used for overflow placement.
func WithRand(rng *rand.Rand) Option { return func(e *Engine) { e.rng = rng } }

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// Engine places comments so that comments of the same class never overlap
// while both are on screen.
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	logger *log.Logger
}

// NewEngine returns an engine for cfg. Without [WithSeed] or [WithRand],
// overflow placement uses seed 0.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		WithSeed(0)(e)
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return e, nil
}

// Stats summarizes a layout pass.
type Stats struct {
	Comments   int `json:"comments"`
	Scrolling  int `json:"scrolling"`
	Fixed      int `json:"fixed"`
	Overflowed int `json:"overflowed"`
	Shifts     int `json:"shifts"`
}

// Result is the outcome of [Engine.Layout].
type Result struct {
	// Order lists the comments in placement order.
	Order []*Comment
	// Index holds every placed comment under its position in Order.
	Index *interval.Index
	Stats Stats
}

// Layout assigns Y, Opacity and Overflow to every comment in one pass.
//
// Comments are visited by Start, ties in input order. Each starts at the top
// edge (Bottom comments at the bottom edge) and moves past every earlier
// comment of the same class it would touch, until it is free or leaves the
// screen. A comment that leaves the screen overflows: it gets a random Y and
// the faded opacity, and is not moved again.
//
// All comments are validated before any is modified.
func (e *Engine) Layout(ctx context.Context, comments []*Comment) (*Result, error) {
	for _, c := range comments {
		if err := c.validate(); err != nil {
			return nil, err
		}
	}
	order := slices.Clone(comments)
	slices.SortStableFunc(order, func(a, b *Comment) int { return a.Start.Cmp(b.Start) })

	res := &Result{Order: order}
	if len(order) == 0 {
		return res, nil
	}

	first := order[0].Start
	last := slices.MaxFunc(order, func(a, b *Comment) int { return a.End.Cmp(b.End) }).End
	index, err := interval.Covering(first, last)
	if err != nil {
		return nil, err
	}
	res.Index = index

	for i, c := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		shifts, err := e.place(c, order, index.Overlapping(c.Start, c.End))
		if err != nil {
			return nil, err
		}
		index.Insert(i, c.Start, c.End)

		res.Stats.Comments++
		res.Stats.Shifts += shifts
		if c.Mode.Fixed() {
			res.Stats.Fixed++
		} else {
			res.Stats.Scrolling++
		}
		if c.Overflow {
			res.Stats.Overflowed++
			e.logger.Warn("comment overflowed", "id", c.ID, "mode", c.Mode, "y", c.Y.RatString())
			observability.Layout().OnOverflow(ctx, c.ID, c.Mode.String())
			continue
		}
		e.logger.Debug("placed comment", "id", c.ID, "mode", c.Mode, "y", c.Y.RatString(), "shifts", shifts)
		observability.Layout().OnPlaced(ctx, c.ID, c.Mode.String(), shifts)
	}
	return res, nil
}

// place runs the collision loop for c against the placed comments with
// indices in candidates and returns the number of shifts.
//
// Each shift moves c strictly away from its start edge and past the
// candidate it hit, so no candidate is hit twice and the loop ends after at
// most len(candidates) shifts.
func (e *Engine) place(c *Comment, placed []*Comment, candidates []int) (int, error) {
	c.Opacity = big.NewRat(1, 1)
	c.Overflow = false
	if c.Mode == Bottom {
		c.Y = new(big.Rat).Sub(e.cfg.Height, c.Height)
	} else {
		c.Y = new(big.Rat)
	}
	if !e.fits(c) {
		e.overflow(c)
		return 0, nil
	}

	for shifts := 0; shifts <= len(candidates); shifts++ {
		hit := e.firstCollision(c, placed, candidates)
		if hit == nil {
			return shifts, nil
		}
		if c.Mode == Bottom {
			c.Y = new(big.Rat).Sub(hit.Y, c.Height)
			c.Y.Sub(c.Y, e.cfg.Spacing)
		} else {
			c.Y = hit.Bottom()
			c.Y.Add(c.Y, e.cfg.Spacing)
		}
		if !e.fits(c) {
			e.overflow(c)
			return shifts + 1, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInternal, "collision loop for comment %q did not settle", c.ID)
}

func (e *Engine) fits(c *Comment) bool {
	return c.Y.Sign() >= 0 && c.Bottom().Cmp(e.cfg.Height) <= 0
}

// overflow places c uniformly at an integer Y in [0, H−h] and fades it.
func (e *Engine) overflow(c *Comment) {
	room := new(big.Rat).Sub(e.cfg.Height, c.Height)
	c.Y = new(big.Rat)
	if room.Sign() > 0 {
		n := new(big.Int).Quo(room.Num(), room.Denom())
		c.Y.SetInt64(e.rng.Int64N(n.Int64() + 1))
	}
	c.Opacity = new(big.Rat).Set(e.cfg.FadedOpacity)
	c.Overflow = true
}

func (e *Engine) firstCollision(c *Comment, placed []*Comment, candidates []int) *Comment {
	for _, i := range candidates {
		if p := placed[i]; e.collides(c, p) {
			return p
		}
	}
	return nil
}

// collides reports whether c and p share the screen: same class,
// intersecting bands, a common time window, and horizontal spans that
// intersect at either end of that window.
func (e *Engine) collides(c, p *Comment) bool {
	if c.Mode.Fixed() != p.Mode.Fixed() {
		return false
	}
	if c.Bottom().Cmp(p.Y) <= 0 || p.Bottom().Cmp(c.Y) <= 0 {
		return false
	}
	start := maxRat(c.Start, p.Start)
	end := minRat(c.End, p.End)
	if start.Cmp(end) >= 0 {
		return false
	}
	return e.spansMeet(c, p, start) || e.spansMeet(c, p, end)
}

func (e *Engine) spansMeet(c, p *Comment, t *big.Rat) bool {
	cx, px := c.X(t, e.cfg.Width), p.X(t, e.cfg.Width)
	return new(big.Rat).Add(cx, c.Width).Cmp(px) > 0 && new(big.Rat).Add(px, p.Width).Cmp(cx) > 0
}

func maxRat(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

func minRat(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
