package pipeline

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/matzehuels/danmaku/pkg/drawing"
	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/lifetime"
	"github.com/matzehuels/danmaku/pkg/observability"
	"github.com/matzehuels/danmaku/pkg/vote"
)

// KindBanner is the shape kind of the banner background.
const KindBanner = "banner"

// Banner is an owner text shown centred in the top strip. It is not
// collision managed.
type Banner struct {
	Event *lifetime.Event
	// Scale shrinks the text to fit the strip, keeping a 1% margin.
	Scale *big.Rat
	// X and Y anchor the text, in output pixels.
	X, Y *big.Rat
	// Background is the strip behind the text.
	Background vote.Shape
}

// Panel is a drawn poll panel together with the vote event that shows it.
type Panel struct {
	Event *lifetime.Event
	*vote.Panel
}

// Shapes is the output of [Runner.BuildShapes].
type Shapes struct {
	Banners []*Banner
	Panels  []*Panel
	// Errors counts panels abandoned because a shape failed.
	Errors int
}

// BuildShapes sizes every owner banner and draws every poll panel.
//
// A panel whose geometry fails is logged and skipped; the rest of the
// timeline is still drawn.
func (r *Runner) BuildShapes(ctx context.Context, tl *lifetime.Timeline, opts Options) (out *Shapes, err error) {
	r.applyLogger(&opts)
	events := tl.Panels()

	hooks := observability.Pipeline()
	hooks.OnShapesStart(ctx, len(events))
	start := time.Now()
	out = &Shapes{}
	defer func() {
		n := 0
		if out != nil {
			n = len(out.Banners) + len(out.Panels)
		}
		hooks.OnShapesComplete(ctx, n, time.Since(start), err)
	}()

	banners := tl.Banners()
	if len(banners) > 0 {
		bg, err := BannerBackground(ctx, opts)
		if err != nil {
			return nil, err
		}
		for _, ev := range banners {
			out.Banners = append(out.Banners, NewBanner(ev, bg, opts))
		}
	}

	builder, err := vote.NewBuilder(opts.VoteConfig(), vote.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		var results []int
		if ev.VoteMode == lifetime.VoteShowResult {
			results = ev.Results
		}
		p, err := builder.Panel(ctx, ev.Answers, results)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			if !errors.IsGeometry(err) && !errors.Is(err, errors.ErrCodeInvalidInput) {
				return nil, fmt.Errorf("panel %s: %w", ev.ID, err)
			}
			out.Errors++
			opts.Logger.Warn("skipped poll panel", "id", ev.ID, "code", errors.GetCode(err), "err", err)
			continue
		}
		out.Panels = append(out.Panels, &Panel{Event: ev, Panel: p})
	}
	return out, nil
}

// BannerScale returns min(W/w, BannerHeight/h, 1) − 1/100 for text of size
// w×h on a screen W wide. Unknown sizes do not constrain the scale.
func BannerScale(screenWidth, w, h *big.Rat) *big.Rat {
	s := big.NewRat(1, 1)
	if w != nil && w.Sign() > 0 {
		if fit := new(big.Rat).Quo(screenWidth, w); fit.Cmp(s) < 0 {
			s = fit
		}
	}
	if h != nil && h.Sign() > 0 {
		if fit := new(big.Rat).Quo(big.NewRat(BannerHeight, 1), h); fit.Cmp(s) < 0 {
			s = fit
		}
	}
	return s.Sub(s, big.NewRat(1, 100))
}

// NewBanner positions ev's text in the strip.
func NewBanner(ev *lifetime.Event, bg vote.Shape, opts Options) *Banner {
	W, k := opts.Width.Rat(), opts.Scale.Rat()
	s := BannerScale(W, ev.Width, ev.Height)

	x := new(big.Rat).Set(W)
	if ev.Width != nil {
		x.Sub(x, new(big.Rat).Mul(ev.Width, s))
	}
	x.Mul(x, k)
	x.Mul(x, big.NewRat(1, 2))
	y := new(big.Rat).Mul(big.NewRat(BannerHeight, 2), k)

	return &Banner{Event: ev, Scale: s, X: x, Y: y, Background: bg}
}

// BannerBackground draws the strip across the top of the screen.
func BannerBackground(ctx context.Context, opts Options) (vote.Shape, error) {
	W := opts.Width.Rat()
	p, err := drawing.Build(drawing.Move, 0, 0, drawing.Line, W, 0, W, BannerHeight, 0, BannerHeight)
	if err != nil {
		return vote.Shape{}, err
	}
	p = p.Scale(opts.Scale.Rat())
	s, prec, err := p.Serialize()
	if err != nil {
		observability.Shape().OnShapeFailed(ctx, KindBanner, err)
		return vote.Shape{}, err
	}
	observability.Shape().OnShapeBuilt(ctx, KindBanner, prec)
	return vote.Shape{Kind: KindBanner, Path: p, Precision: prec, Drawing: s}, nil
}
