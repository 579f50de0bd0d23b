package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/danmaku/pkg/lifetime"
	"github.com/matzehuels/danmaku/pkg/observability"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the logger: it doesn't store pipeline
// results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete lifetimes → layout → shapes pipeline.
func (r *Runner) Execute(ctx context.Context, records []lifetime.Record, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}
	result.Stats.Records = len(records)

	// Stage 1: Lifetimes
	start := time.Now()
	tl, err := r.Lifetimes(ctx, records, opts)
	if err != nil {
		return nil, fmt.Errorf("lifetimes: %w", err)
	}
	result.Timeline = tl
	result.Stats.LifetimeTime = time.Since(start)
	result.Stats.Events = len(tl.Events)
	result.Stats.Skipped = len(tl.Skipped)

	r.Logger.Info("resolved lifetimes",
		"events", len(tl.Events),
		"skipped", len(tl.Skipped),
		"duration", result.Stats.LifetimeTime)

	// Stage 2: Layout
	start = time.Now()
	lr, err := r.ComputeLayout(ctx, tl, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = lr
	result.Stats.Layout = lr.Stats
	result.Stats.LayoutTime = time.Since(start)

	r.Logger.Info("computed layout",
		"comments", lr.Stats.Comments,
		"overflowed", lr.Stats.Overflowed,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Shapes
	start = time.Now()
	shapes, err := r.BuildShapes(ctx, tl, opts)
	if err != nil {
		return nil, fmt.Errorf("shapes: %w", err)
	}
	result.Banners = shapes.Banners
	result.Panels = shapes.Panels
	result.Stats.Banners = len(shapes.Banners)
	result.Stats.Panels = len(shapes.Panels)
	result.Stats.ShapeErrors = shapes.Errors
	result.Stats.ShapeTime = time.Since(start)

	r.Logger.Info("built shapes",
		"banners", len(shapes.Banners),
		"panels", len(shapes.Panels),
		"errors", shapes.Errors,
		"duration", result.Stats.ShapeTime)

	return result, nil
}

// Lifetimes resolves record lifetimes.
func (r *Runner) Lifetimes(ctx context.Context, records []lifetime.Record, opts Options) (tl *lifetime.Timeline, err error) {
	start := time.Now()
	defer func() {
		observability.Pipeline().OnLifetimeComplete(ctx, len(records), time.Since(start), err)
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tl, err = lifetime.Resolve(records, opts.LifetimeConfig())
	if err != nil {
		return nil, err
	}
	for _, id := range tl.Skipped {
		r.Logger.Debug("skipped owner command", "id", id)
	}
	return tl, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
