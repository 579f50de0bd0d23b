package layout

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/danmaku/pkg/errors"
)

func r(n int64) *big.Rat { return big.NewRat(n, 1) }

func comment(id string, start, end int64, mode Mode) *Comment {
	return &Comment{ID: id, Start: r(start), End: r(end), Mode: mode, Width: r(40), Height: r(33)}
}

func newEngine(t *testing.T, cfg Config, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func layout(t *testing.T, e *Engine, cs ...*Comment) *Result {
	t.Helper()
	res, err := e.Layout(context.Background(), cs)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestLayoutScenarios(t *testing.T) {
	narrow := DefaultConfig()
	narrow.Width = r(120)

	tests := []struct {
		name     string
		cfg      Config
		comments []*Comment
		wantY    []int64
	}{
		{
			name:     "identical lifetimes stack",
			cfg:      DefaultConfig(),
			comments: []*Comment{comment("a", 0, 5, Scroll), comment("b", 0, 5, Scroll)},
			wantY:    []int64{0, 34},
		},
		{
			name:     "one second lag on a wide screen is clear",
			cfg:      DefaultConfig(),
			comments: []*Comment{comment("a", 0, 5, Scroll), comment("b", 1, 6, Scroll)},
			wantY:    []int64{0, 0},
		},
		{
			name:     "one second lag on a narrow screen collides",
			cfg:      narrow,
			comments: []*Comment{comment("a", 0, 5, Scroll), comment("b", 1, 6, Scroll)},
			wantY:    []int64{0, 34},
		},
		{
			name:     "disjoint lifetimes reuse the band",
			cfg:      DefaultConfig(),
			comments: []*Comment{comment("a", 0, 5, Scroll), comment("b", 5, 10, Scroll)},
			wantY:    []int64{0, 0},
		},
		{
			name:     "fixed comments stack from the top",
			cfg:      DefaultConfig(),
			comments: []*Comment{comment("a", 0, 3, Top), comment("b", 2, 5, Top), comment("c", 2, 5, Top)},
			wantY:    []int64{0, 34, 68},
		},
		{
			name:     "bottom comments stack upwards",
			cfg:      DefaultConfig(),
			comments: []*Comment{comment("a", 0, 3, Bottom), comment("b", 1, 4, Bottom)},
			wantY:    []int64{345, 311},
		},
		{
			name:     "scrolling and fixed never interact",
			cfg:      DefaultConfig(),
			comments: []*Comment{comment("a", 0, 5, Scroll), comment("b", 0, 3, Top), comment("c", 0, 3, Bottom)},
			wantY:    []int64{0, 0, 345},
		},
		{
			name:     "shift skips past every hit band",
			cfg:      DefaultConfig(),
			comments: []*Comment{comment("a", 0, 5, Scroll), comment("b", 0, 5, Scroll), comment("c", 0, 5, Scroll)},
			wantY:    []int64{0, 34, 68},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout(t, newEngine(t, tt.cfg), tt.comments...)
			for i, c := range tt.comments {
				if c.Overflow {
					t.Errorf("%s overflowed", c.ID)
				}
				if c.Y.Cmp(r(tt.wantY[i])) != 0 {
					t.Errorf("%s.Y = %s, want %d", c.ID, c.Y.RatString(), tt.wantY[i])
				}
				if c.Opacity.Cmp(r(1)) != 0 {
					t.Errorf("%s.Opacity = %s, want 1", c.ID, c.Opacity.RatString())
				}
			}
		})
	}
}

func TestLayoutOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Height = r(100)

	run := func(seed uint64) []*Comment {
		cs := []*Comment{comment("a", 0, 3, Top), comment("b", 0, 3, Top), comment("c", 0, 3, Top), comment("d", 0, 3, Top)}
		res := layout(t, newEngine(t, cfg, WithSeed(seed)), cs...)
		if res.Stats.Overflowed != 2 {
			t.Errorf("Overflowed = %d, want 2", res.Stats.Overflowed)
		}
		return cs
	}

	cs := run(42)
	if cs[0].Overflow || cs[1].Overflow {
		t.Fatal("first two comments fit")
	}
	for _, c := range cs[2:] {
		if !c.Overflow {
			t.Errorf("%s should overflow", c.ID)
			continue
		}
		if c.Opacity.Cmp(big.NewRat(3, 5)) != 0 {
			t.Errorf("%s.Opacity = %s, want 3/5", c.ID, c.Opacity.RatString())
		}
		if !c.Y.IsInt() || c.Y.Sign() < 0 || c.Y.Cmp(r(67)) > 0 {
			t.Errorf("%s.Y = %s, want an integer in [0, 67]", c.ID, c.Y.RatString())
		}
	}

	again := run(42)
	for i := range cs {
		if cs[i].Y.Cmp(again[i].Y) != 0 {
			t.Errorf("%s.Y differs between runs with one seed: %s vs %s", cs[i].ID, cs[i].Y.RatString(), again[i].Y.RatString())
		}
	}
}

func TestLayoutBottomOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Height = r(70)
	cs := []*Comment{comment("a", 0, 3, Bottom), comment("b", 0, 3, Bottom), comment("c", 0, 3, Bottom)}
	layout(t, newEngine(t, cfg), cs...)

	if cs[0].Y.Cmp(r(37)) != 0 || cs[1].Y.Cmp(r(3)) != 0 {
		t.Errorf("Y = %s, %s; want 37, 3", cs[0].Y.RatString(), cs[1].Y.RatString())
	}
	if !cs[2].Overflow {
		t.Errorf("third bottom comment should overflow above the screen, Y = %s", cs[2].Y.RatString())
	}
}

func TestLayoutFixedClassShared(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Height = r(60)
	bottom, top := comment("a", 0, 3, Bottom), comment("b", 1, 4, Top)
	layout(t, newEngine(t, cfg), bottom, top)

	if bottom.Y.Cmp(r(27)) != 0 || bottom.Overflow {
		t.Errorf("bottom.Y = %s, Overflow = %v", bottom.Y.RatString(), bottom.Overflow)
	}
	// The top comment starts on the bottom comment's band and is pushed
	// below it, off the screen.
	if !top.Overflow {
		t.Errorf("top comment should collide with the bottom one, Y = %s", top.Y.RatString())
	}
}

func TestLayoutTallComment(t *testing.T) {
	c := &Comment{ID: "tall", Start: r(0), End: r(5), Width: r(40), Height: r(400)}
	layout(t, newEngine(t, DefaultConfig()), c)
	if !c.Overflow || c.Y.Sign() != 0 {
		t.Errorf("Overflow = %v, Y = %s; want true, 0", c.Overflow, c.Y.RatString())
	}
}

func TestLayoutOrder(t *testing.T) {
	cs := []*Comment{comment("late", 4, 9, Scroll), comment("first", 0, 5, Scroll), comment("second", 0, 5, Scroll)}
	res := layout(t, newEngine(t, DefaultConfig()), cs...)

	var ids []string
	for _, c := range res.Order {
		ids = append(ids, c.ID)
	}
	if fmt.Sprint(ids) != "[first second late]" {
		t.Errorf("Order = %v", ids)
	}
	if cs[1].Y.Sign() != 0 || cs[2].Y.Cmp(r(34)) != 0 {
		t.Errorf("ties must keep input order: first.Y = %s, second.Y = %s", cs[1].Y.RatString(), cs[2].Y.RatString())
	}
	if res.Index.Len() != 3 {
		t.Errorf("Index.Len() = %d", res.Index.Len())
	}
	if lo, hi := res.Index.Range(); lo != 0 || hi != 9 {
		t.Errorf("Index.Range() = [%d, %d)", lo, hi)
	}
}

func TestLayoutRejectsInvalidComments(t *testing.T) {
	good := comment("good", 0, 5, Scroll)
	tests := []struct {
		name string
		c    *Comment
	}{
		{"empty lifetime", comment("bad", 5, 5, Scroll)},
		{"inverted lifetime", comment("bad", 5, 1, Scroll)},
		{"negative width", &Comment{ID: "bad", Start: r(0), End: r(1), Width: r(-1), Height: r(1)}},
		{"missing size", &Comment{ID: "bad", Start: r(0), End: r(1)}},
		{"bad mode", &Comment{ID: "bad", Start: r(0), End: r(1), Width: r(1), Height: r(1), Mode: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newEngine(t, DefaultConfig()).Layout(context.Background(), []*Comment{good, tt.c})
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Layout() error = %v, want INVALID_INPUT", err)
			}
			if good.Y != nil {
				t.Error("valid comment was placed before validation finished")
			}
		})
	}
}

func TestLayoutRejectsHugeTimeSpan(t *testing.T) {
	a := comment("a", 0, 5, Scroll)
	far := &Comment{ID: "far", Start: r(1 << 40), End: r(1<<40 + 5), Mode: Scroll, Width: r(40), Height: r(33)}
	_, err := newEngine(t, DefaultConfig()).Layout(context.Background(), []*Comment{a, far})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("Layout() error = %v, want INVALID_INPUT", err)
	}
	if a.Y != nil || far.Y != nil {
		t.Error("comments were placed despite the error")
	}
}

func TestLayoutCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newEngine(t, DefaultConfig()).Layout(ctx, []*Comment{comment("a", 0, 5, Scroll)})
	if err != context.Canceled {
		t.Errorf("Layout() error = %v, want context.Canceled", err)
	}
}

func TestLayoutEmpty(t *testing.T) {
	res := layout(t, newEngine(t, DefaultConfig()))
	if len(res.Order) != 0 || res.Index != nil {
		t.Errorf("empty layout = %+v", res)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = r(0) }},
		{"negative height", func(c *Config) { c.Height = r(-1) }},
		{"negative spacing", func(c *Config) { c.Spacing = r(-1) }},
		{"opacity above one", func(c *Config) { c.FadedOpacity = big.NewRat(3, 2) }},
		{"unset", func(c *Config) { c.Spacing = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := NewEngine(cfg); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("NewEngine() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

// TestNoOverlap lays out dense random traffic and checks that no two
// placed comments of one class share the screen.
func TestNoOverlap(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5^0xdeadbeef))
	modes := []Mode{Scroll, Scroll, Scroll, Top, Bottom}

	for round := range 5 {
		var cs []*Comment
		for i := range 300 {
			start := big.NewRat(rng.Int64N(6000), 100)
			mode := modes[rng.IntN(len(modes))]
			dur := r(5)
			if mode.Fixed() {
				dur = r(3)
			}
			cs = append(cs, &Comment{
				ID:     fmt.Sprintf("c%d", i),
				Start:  start,
				End:    new(big.Rat).Add(start, dur),
				Mode:   mode,
				Width:  big.NewRat(40+rng.Int64N(4000), 10),
				Height: []*big.Rat{r(22), r(33), r(49)}[rng.IntN(3)],
			})
		}

		e := newEngine(t, DefaultConfig(), WithSeed(uint64(round)))
		res := layout(t, e, cs...)
		if res.Stats.Comments != len(cs) || res.Stats.Scrolling+res.Stats.Fixed != len(cs) {
			t.Fatalf("Stats = %+v", res.Stats)
		}

		for i, a := range res.Order {
			if a.Overflow {
				continue
			}
			if a.Y.Sign() < 0 || a.Bottom().Cmp(e.cfg.Height) > 0 {
				t.Fatalf("round %d: %s band [%s, %s) leaves the screen", round, a.ID, a.Y.RatString(), a.Bottom().RatString())
			}
			for _, b := range res.Order[:i] {
				if !b.Overflow && e.collides(a, b) {
					t.Fatalf("round %d: %s and %s overlap", round, a.ID, b.ID)
				}
			}
		}
	}
}

func TestCommentX(t *testing.T) {
	c := comment("a", 0, 5, Scroll)
	w := r(672)
	if x := c.X(r(0), w); x.Cmp(w) != 0 {
		t.Errorf("X(start) = %s, want 672", x.RatString())
	}
	if x := c.X(r(5), w); x.Cmp(r(-40)) != 0 {
		t.Errorf("X(end) = %s, want -40", x.RatString())
	}
	if x := c.X(r(1), w); x.Cmp(big.NewRat(2648, 5)) != 0 {
		t.Errorf("X(1) = %s, want 529.6", x.RatString())
	}

	f := comment("f", 0, 3, Top)
	if x := f.X(r(2), w); x.Cmp(r(316)) != 0 {
		t.Errorf("fixed X = %s, want 316", x.RatString())
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"scroll", Scroll}, {"normal", Scroll}, {"", Scroll}, {"naka", Scroll},
		{"top", Top}, {"ue", Top}, {"Bottom", Bottom}, {"shita", Bottom},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseMode("sideways"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseMode(sideways) error = %v", err)
	}

	var v struct {
		Mode Mode `json:"mode"`
	}
	if err := json.Unmarshal([]byte(`{"mode":"shita"}`), &v); err != nil || v.Mode != Bottom {
		t.Errorf("unmarshal = %v, %v", v.Mode, err)
	}
	out, _ := json.Marshal(v)
	if string(out) != `{"mode":"bottom"}` {
		t.Errorf("marshal = %s", out)
	}
}
