package drawing

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/danmaku/pkg/errors"
	"github.com/matzehuels/danmaku/pkg/exact"
)

func mustParse(t *testing.T, s string) *Path {
	t.Helper()
	p, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return p
}

func mustSerialize(t *testing.T, p *Path) (string, int) {
	t.Helper()
	s, prec, err := p.Serialize()
	if err != nil {
		t.Fatalf("Serialize(): %v", err)
	}
	return s, prec
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		contours int
		points   int
	}{
		{"triangle", "m 0 0 l 10 0 10 10", 1, 3},
		{"closing line dropped", "m 0 0 l 100 0 100 50 l 0 50 0 0", 1, 4},
		{"two contours", "m 0 0 l 1 0 1 1 m 5 5 l 6 5 6 6", 2, 6},
		{"bezier", "m 0 0 b 1 0 2 1 2 2", 1, 4},
		{"fractions", "m 0 0 l 5/2 0 2.5 3/4", 1, 3},
		{"open move", "m 0 0 l 1 1 n 5 5 l 6 6", 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustParse(t, tt.in)
			if got := len(p.Contours()); got != tt.contours {
				t.Errorf("contours = %d, want %d", got, tt.contours)
			}
			if got := p.Len(); got != tt.points {
				t.Errorf("points = %d, want %d", got, tt.points)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"empty", "", errors.ErrCodeDegenerateContour},
		{"lone move", "m 0 0", errors.ErrCodeDegenerateContour},
		{"move after move", "m m 0 0", errors.ErrCodeDegenerateContour},
		{"two move points", "m 0 0 1 1 l 2 2", errors.ErrCodeDegenerateContour},
		{"trailing move", "m 0 0 l 1 1 m 2 2", errors.ErrCodeDegenerateContour},
		{"no initial mode", "0 0 l 1 1", errors.ErrCodeInvalidDrawing},
		{"initial line", "l 0 0 1 1", errors.ErrCodeInvalidDrawing},
		{"dangling coordinate", "m 0 0 l 1 1 2", errors.ErrCodeInvalidDrawing},
		{"empty command", "m 0 0 l b 1 1 2 2 3 3", errors.ErrCodeInvalidDrawing},
		{"unknown command", "m 0 0 q 1 1", errors.ErrCodeInvalidDrawing},
		{"garbage", "m 0 0 l one 1", errors.ErrCodeInvalidDrawing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse(%q) error = %v, want %s", tt.in, err, tt.code)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	p, err := Build(Move, 0, 0, "l", big.NewRat(5, 2), 0, exact.Root2(), 1)
	if err != nil {
		t.Fatal(err)
	}
	want := "m 0 0 l 5/2 0 1*sqrt(2) 1"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if p.IsRational() {
		t.Error("path with a √2 coordinate reported as rational")
	}

	if _, err := Build(Move, 0.5, 0); !errors.Is(err, errors.ErrCodeInvalidDrawing) {
		t.Errorf("Build with float64 error = %v", err)
	}
}

func TestNew(t *testing.T) {
	r := func(n int64) *big.Rat { return big.NewRat(n, 1) }
	p, err := New(Contour{Pt(Move, r(0), r(0)), Pt(Line, r(4), r(0)), Pt(Line, r(0), r(0))})
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 2 {
		t.Errorf("closing line not dropped: %s", p)
	}

	if _, err := New(); !errors.Is(err, errors.ErrCodeDegenerateContour) {
		t.Errorf("New() error = %v", err)
	}
	if _, err := New(Contour{Pt(Move, r(0), r(0))}); !errors.Is(err, errors.ErrCodeDegenerateContour) {
		t.Errorf("single move error = %v", err)
	}
	if _, err := New(Contour{Pt(Line, r(0), r(0)), Pt(Line, r(1), r(1))}); !errors.Is(err, errors.ErrCodeInvalidDrawing) {
		t.Errorf("missing move error = %v", err)
	}
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		prec int
	}{
		{"integers", "m 0 0 l 10 0 10 10", "m 0 0 l 10 0 10 10", 1},
		{"quarters", "m 0 0 l 2.5 0 2.5 0.75", "m 0 0 l 10 0 10 3", 3},
		{"all even", "m 8 8 l 16 8 16 16", "m 8 8 l 16 8 16 16", 1},
		{"negative", "m -1/2 0 l 0 -3 1 1", "m -1 0 l 0 -6 2 2", 2},
		{"mode changes", "m 0 0 l 1 0 b 1 1 2 2 3 3 l 0 3", "m 0 0 l 1 0 b 1 1 2 2 3 3 l 0 3", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, prec := mustSerialize(t, mustParse(t, tt.in))
			if got != tt.want || prec != tt.prec {
				t.Errorf("Serialize() = %q, %d; want %q, %d", got, prec, tt.want, tt.prec)
			}
		})
	}
}

func TestPrecisionOutOfRange(t *testing.T) {
	p := mustParse(t, "m 0 0 l 33554432 0 0 1")
	if _, err := p.Precision(); !errors.Is(err, errors.ErrCodeCoordinateOutOfRange) {
		t.Errorf("Precision() error = %v, want COORDINATE_OUT_OF_RANGE", err)
	}

	// The largest coordinate that still fits at p = 1.
	p = mustParse(t, "m 0 0 l 33554431 0 -33554432 1")
	if prec, err := p.Precision(); err != nil || prec != 1 {
		t.Errorf("Precision() = %d, %v; want 1", prec, err)
	}
}

// TestPrecisionMinimal checks on random dyadic paths that p writes every
// coordinate exactly and p−1 does not.
func TestPrecisionMinimal(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3^0xdeadbeef))

	for i := range 200 {
		coord := func() *big.Rat {
			return exact.Shift(big.NewRat(rng.Int64N(20001)-10000, 1), -rng.IntN(9))
		}
		contour := Contour{Pt(Move, coord(), coord())}
		for range 1 + rng.IntN(6) {
			contour = append(contour, Pt(Line, coord(), coord()))
		}
		p, err := New(contour)
		if err != nil {
			t.Fatal(err)
		}
		prec, err := p.Precision()
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}

		exactAt := func(prec int) bool {
			for _, c := range p.Contours() {
				for _, pt := range c {
					for _, v := range []exact.Sqrt2{pt.X, pt.Y} {
						r, _ := v.Rat()
						if !exact.Shift(r, prec-1).IsInt() {
							return false
						}
					}
				}
			}
			return true
		}
		if !exactAt(prec) {
			t.Fatalf("case %d: %s not exact at p=%d", i, p, prec)
		}
		if prec > 1 && exactAt(prec-1) {
			t.Fatalf("case %d: %s already exact at p=%d", i, p, prec-1)
		}
	}
}

func TestTransform(t *testing.T) {
	p := mustParse(t, "m 0 0 l 10 0 10 10")

	got, _ := mustSerialize(t, p.TranslateRat(big.NewRat(1, 2), big.NewRat(-1, 1)))
	if want := "m 1 -2 l 21 -2 21 18"; got != want {
		t.Errorf("Translate = %q, want %q", got, want)
	}

	got, _ = mustSerialize(t, p.Scale(big.NewRat(3, 2)))
	if want := "m 0 0 l 15 0 15 15"; got != want {
		t.Errorf("Scale = %q, want %q", got, want)
	}

	if got, _ := mustSerialize(t, p); got != "m 0 0 l 10 0 10 10" {
		t.Errorf("transform modified the receiver: %q", got)
	}
}

func TestReverse(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"m 0 0 l 10 0 10 10", "m 10 10 l 10 0 0 0"},
		{"m 0 0 l 1 0 b 2 0 3 1 3 2", "m 3 2 b 3 1 2 0 1 0 l 0 0"},
		{"m 0 0 l 1 0 1 1 m 5 5 l 6 5 6 6", "m 1 1 l 1 0 0 0 m 6 6 l 6 5 5 5"},
	}
	for _, tt := range tests {
		p := mustParse(t, tt.in)
		if got, _ := mustSerialize(t, p.Reverse()); got != tt.want {
			t.Errorf("Reverse(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if !p.Reverse().Reverse().Equal(p) {
			t.Errorf("Reverse(Reverse(%q)) = %s", tt.in, p.Reverse().Reverse())
		}
	}
}

func TestCombineWithHole(t *testing.T) {
	outer := mustParse(t, "m 0 0 l 100 0 100 50 l 0 50 0 0")
	inner := mustParse(t, "m 10 10 l 90 10 90 40 10 40")
	ring := outer.CombineWithHole(inner)

	got, _ := mustSerialize(t, ring)
	if want := "m 0 0 l 100 0 100 50 0 50 m 10 40 l 90 40 90 10 10 10"; got != want {
		t.Errorf("CombineWithHole = %q, want %q", got, want)
	}

	cs := ring.Contours()
	if len(cs) != 2 {
		t.Fatalf("contours = %d, want 2", len(cs))
	}
	first, _ := New(cs[0])
	if !first.Equal(outer) {
		t.Errorf("outer contour changed: %s", first)
	}

	// Reversing the ring restores the hole and reverses the outline.
	back := ring.Reverse().Contours()
	restoredInner, _ := New(back[1])
	if !restoredInner.Equal(inner) {
		t.Errorf("reversed hole = %s, want %s", restoredInner, inner)
	}
	restoredOuter, _ := New(back[0])
	if !restoredOuter.Reverse().Equal(outer) {
		t.Errorf("reversed outline = %s", restoredOuter)
	}
}
