package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/danmaku/pkg/layout"
	"github.com/matzehuels/danmaku/pkg/lifetime"
	"github.com/matzehuels/danmaku/pkg/observability"
)

// ComputeLayout places the timeline's viewer comments. The comments are
// updated in place and also returned in placement order.
func (r *Runner) ComputeLayout(ctx context.Context, tl *lifetime.Timeline, opts Options) (res *layout.Result, err error) {
	r.applyLogger(&opts)
	comments := tl.Comments()

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(comments))
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(ctx, len(comments), time.Since(start), err) }()

	engine, err := layout.NewEngine(opts.LayoutConfig(),
		layout.WithSeed(opts.Seed),
		layout.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	return engine.Layout(ctx, comments)
}
