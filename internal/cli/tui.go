package cli

import (
	"fmt"
	"math/big"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/danmaku/pkg/exact"
	"github.com/matzehuels/danmaku/pkg/layout"
	"github.com/matzehuels/danmaku/pkg/numfmt"
	"github.com/matzehuels/danmaku/pkg/pipeline"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InspectModel - Interactive timeline inspector
// =============================================================================

// InspectModel is the bubbletea model that shows which comments are on
// screen at a moment of the video, and where.
type InspectModel struct {
	Result *pipeline.Result
	Width  *big.Rat
	At     *big.Rat
	Step   *big.Rat
	Height int
	Offset int
}

// NewInspectModel creates an inspector positioned at time at.
func NewInspectModel(res *pipeline.Result, width, at *big.Rat) InspectModel {
	return InspectModel{
		Result: res,
		Width:  width,
		At:     at,
		Step:   big.NewRat(1, 1),
		Height: 15,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			m.At = new(big.Rat).Add(m.At, m.Step)
			m.Offset = 0
		case "left", "h":
			at := new(big.Rat).Sub(m.At, m.Step)
			if at.Sign() < 0 {
				at.SetInt64(0)
			}
			m.At = at
			m.Offset = 0
		case "down", "j":
			if m.Offset+m.Height < len(m.Visible()) {
				m.Offset++
			}
		case "up", "k":
			if m.Offset > 0 {
				m.Offset--
			}
		case "home", "g":
			m.At = new(big.Rat)
			m.Offset = 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

// Visible returns the comments on screen at m.At in placement order.
func (m InspectModel) Visible() []*layout.Comment {
	lr := m.Result.Layout
	if lr == nil || lr.Index == nil {
		return nil
	}
	var out []*layout.Comment
	for _, i := range lr.Index.At(exact.Floor(m.At).Int64()) {
		c := lr.Order[i]
		if c.Start.Cmp(m.At) <= 0 && m.At.Cmp(c.End) < 0 {
			out = append(out, c)
		}
	}
	return out
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Comments at " + numfmt.Timestamp(m.At)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ seek  ↑/↓ scroll  g start  q quit"))
	b.WriteString("\n\n")

	visible := m.Visible()
	if len(visible) == 0 {
		b.WriteString(listDimStyle.Render("  nothing on screen"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(visible))
	shown := visible[m.Offset:end]
	rows := make([][]string, 0, len(shown))
	for _, c := range shown {
		rows = append(rows, []string{
			c.ID,
			c.Mode.String(),
			numfmt.Approx(c.Y, 2),
			numfmt.Approx(c.X(m.At, m.Width), 2),
			numfmt.Approx(c.Opacity, 2),
			overflowMark(c.Overflow),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Mode", "Y", "X", "Opacity", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if row < 0 || row >= len(shown) {
				return lipgloss.NewStyle()
			}
			if shown[row].Overflow {
				return styleOverflow
			}
			if col == 0 {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d-%d/%d]", m.Offset+1, end, len(visible))))

	return b.String()
}

func overflowMark(overflow bool) string {
	if overflow {
		return "overflow"
	}
	return ""
}
