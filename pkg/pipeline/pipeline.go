// Package pipeline runs the complete records → lifetimes → layout → shapes
// conversion for danmaku.
//
// This package ties the library packages together so that the CLI and any
// other entry point behave the same way. By centralizing defaults and
// validation here, every caller lays out the same input identically.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Lifetimes: resolve when each record is on screen ([lifetime.Resolve])
//  2. Layout: place viewer comments without collisions ([layout.Engine])
//  3. Shapes: size owner banners and draw poll panels ([vote.Builder])
//
// # Usage
//
//	opts, err := pipeline.LoadOptions("danmaku.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, records, opts)
package pipeline

import (
	"io"
	"math/big"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/layout"
	"github.com/matzehuels/danmaku/pkg/lifetime"
	"github.com/matzehuels/danmaku/pkg/numfmt"
	"github.com/matzehuels/danmaku/pkg/vote"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI and the library
// =============================================================================

const (
	// DefaultWidth is the player screen width in layout pixels.
	DefaultWidth = 672

	// DefaultHeight is the player screen height in layout pixels.
	DefaultHeight = 378

	// DefaultScale is the number of output pixels per layout pixel.
	DefaultScale = 13

	// DefaultSeed is the default random seed for reproducible overflow.
	DefaultSeed = uint64(42)

	// BannerHeight is the height of the owner banner strip.
	BannerHeight = 56
)

var (
	defaultSpacing      = big.NewRat(1, 1)
	defaultFadedOpacity = big.NewRat(3, 5)
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. Rational fields use
// [numfmt.Decimal] so config files never pass through float64.
type Options struct {
	// Screen
	Width  numfmt.Decimal `json:"width" toml:"width" yaml:"width"`
	Height numfmt.Decimal `json:"height" toml:"height" yaml:"height"`
	Scale  numfmt.Decimal `json:"scale" toml:"scale" yaml:"scale"`

	// Layout
	Spacing      numfmt.Decimal `json:"spacing" toml:"spacing" yaml:"spacing"`
	FadedOpacity numfmt.Decimal `json:"faded_opacity" toml:"faded_opacity" yaml:"faded_opacity"`
	Seed         uint64         `json:"seed" toml:"seed" yaml:"seed"`

	// Lifetimes, in seconds
	ScrollDuration numfmt.Decimal `json:"scroll_duration" toml:"scroll_duration" yaml:"scroll_duration"`
	FixedDuration  numfmt.Decimal `json:"fixed_duration" toml:"fixed_duration" yaml:"fixed_duration"`
	OwnerExpiry    numfmt.Decimal `json:"owner_expiry" toml:"owner_expiry" yaml:"owner_expiry"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`
}

// DefaultOptions returns options with every default filled in.
func DefaultOptions() Options {
	var o Options
	o.SetDefaults()
	return o
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	setDefault(&o.Width, big.NewRat(DefaultWidth, 1))
	setDefault(&o.Height, big.NewRat(DefaultHeight, 1))
	setDefault(&o.Scale, big.NewRat(DefaultScale, 1))
	setDefault(&o.Spacing, defaultSpacing)
	setDefault(&o.FadedOpacity, defaultFadedOpacity)

	lt := lifetime.DefaultConfig()
	setDefault(&o.ScrollDuration, lt.ScrollDuration)
	setDefault(&o.FixedDuration, lt.FixedDuration)
	setDefault(&o.OwnerExpiry, lt.OwnerExpiry)

	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func setDefault(d *numfmt.Decimal, v *big.Rat) {
	if !d.IsSet() {
		*d = numfmt.NewDecimal(v)
	}
}

// Validate checks the options after defaults have been applied.
func (o *Options) Validate() error {
	positive := []struct {
		name string
		v    numfmt.Decimal
	}{
		{"width", o.Width},
		{"height", o.Height},
		{"scale", o.Scale},
		{"scroll_duration", o.ScrollDuration},
		{"fixed_duration", o.FixedDuration},
		{"owner_expiry", o.OwnerExpiry},
	}
	for _, f := range positive {
		if f.v.Rat().Sign() <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %s", f.name, f.v)
		}
	}
	if err := o.LayoutConfig().Validate(); err != nil {
		return err
	}
	return o.VoteConfig().Validate()
}

// ValidateAndSetDefaults applies defaults, then validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// LayoutConfig returns the layout engine configuration.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		Width:        o.Width.Rat(),
		Height:       o.Height.Rat(),
		Spacing:      o.Spacing.Rat(),
		FadedOpacity: o.FadedOpacity.Rat(),
	}
}

// LifetimeConfig returns the display durations.
func (o *Options) LifetimeConfig() lifetime.Config {
	return lifetime.Config{
		ScrollDuration: o.ScrollDuration.Rat(),
		FixedDuration:  o.FixedDuration.Rat(),
		OwnerExpiry:    o.OwnerExpiry.Rat(),
	}
}

// VoteConfig returns the poll panel configuration.
func (o *Options) VoteConfig() vote.Config {
	return vote.Config{Width: o.Width.Rat(), Height: o.Height.Rat(), Scale: o.Scale.Rat()}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Timeline is every record with its resolved lifetime.
	Timeline *lifetime.Timeline

	// Layout holds the placed viewer comments.
	Layout *layout.Result

	// Banners are the owner texts shown in the top strip.
	Banners []*Banner

	// Panels are the drawn poll panels.
	Panels []*Panel

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records      int           `json:"records"`
	Events       int           `json:"events"`
	Skipped      int           `json:"skipped"`
	Layout       layout.Stats  `json:"layout"`
	Banners      int           `json:"banners"`
	Panels       int           `json:"panels"`
	ShapeErrors  int           `json:"shape_errors"`
	LifetimeTime time.Duration `json:"lifetime_time"`
	LayoutTime   time.Duration `json:"layout_time"`
	ShapeTime    time.Duration `json:"shape_time"`
}
