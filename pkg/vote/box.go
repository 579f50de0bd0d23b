package vote

import (
	"math/big"

	"github.com/matzehuels/danmaku/pkg/errors"
)

// Spacing is the gap between answer boxes and around the grid.
const Spacing = 6

// MinAnswers and MaxAnswers bound the number of answers a poll can show.
const (
	MinAnswers = 2
	MaxAnswers = 9
)

// Rect is an axis-aligned rectangle in layout pixels.
type Rect struct {
	Left, Top, Width, Height *big.Rat
}

// Right returns Left + Width.
func (r Rect) Right() *big.Rat { return new(big.Rat).Add(r.Left, r.Width) }

// Bottom returns Top + Height.
func (r Rect) Bottom() *big.Rat { return new(big.Rat).Add(r.Top, r.Height) }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (x, y *big.Rat) {
	half := big.NewRat(1, 2)
	x = new(big.Rat).Add(r.Left, new(big.Rat).Mul(r.Width, half))
	y = new(big.Rat).Add(r.Top, new(big.Rat).Mul(r.Height, half))
	return x, y
}

// Grid returns the number of columns and rows used for n answers.
func Grid(n int) (columns, rows int) {
	columns, rows = 3, 3
	if n == 2 || n == 4 {
		columns = 2
	}
	if n < 7 {
		rows = 2
	}
	return columns, rows
}

// AnswerBox returns the box of answer i out of n on a width×height screen.
//
// Boxes fill a grid row by row. An incomplete last row is centred, and
// grids with fewer than four answers are pushed down by half a row so
// they sit in the middle of the screen.
func AnswerBox(i, n int, width, height *big.Rat) (Rect, error) {
	if n < MinAnswers || n > MaxAnswers {
		return Rect{}, errors.New(errors.ErrCodeInvalidInput,
			"a poll needs %d to %d answers, got %d", MinAnswers, MaxAnswers, n)
	}
	if i < 0 || i >= n {
		return Rect{}, errors.New(errors.ErrCodeInvalidInput, "answer %d is outside 0..%d", i, n-1)
	}
	columns, rows := Grid(n)

	w := cellSize(width, columns)
	h := cellSize(height, rows)

	gx := big.NewRat(int64(i%columns), 1)
	if rem := n % columns; i >= n-rem {
		gx.Add(gx, big.NewRat(int64(columns-rem), 2))
	}
	gy := big.NewRat(int64(i/columns), 1)
	if n < 4 {
		gy.Add(gy, big.NewRat(1, 2))
	}

	return Rect{Left: offset(gx, w), Top: offset(gy, h), Width: w, Height: h}, nil
}

// cellSize is (total − Spacing·(count+1)) / count.
func cellSize(total *big.Rat, count int) *big.Rat {
	gaps := big.NewRat(int64(Spacing*(count+1)), 1)
	s := new(big.Rat).Sub(total, gaps)
	return s.Quo(s, big.NewRat(int64(count), 1))
}

// offset is Spacing·(g+1) + size·g.
func offset(g, size *big.Rat) *big.Rat {
	lead := new(big.Rat).Add(g, big.NewRat(1, 1))
	lead.Mul(lead, big.NewRat(Spacing, 1))
	return lead.Add(lead, new(big.Rat).Mul(size, g))
}
