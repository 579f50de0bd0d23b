package cli

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/danmaku/pkg/drawing"
	"github.com/matzehuels/danmaku/pkg/numfmt"
	"github.com/matzehuels/danmaku/pkg/vote"
)

// shapeFlags are the transforms applied before a shape is serialized.
type shapeFlags struct {
	scale   string
	reverse bool
}

func (f *shapeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scale, "scale", "1", "scale factor applied before serialization")
	cmd.Flags().BoolVar(&f.reverse, "reverse", false, "reverse the direction of every contour")
}

func (f *shapeFlags) apply(p *drawing.Path) (*drawing.Path, error) {
	k, err := parseRat("scale", f.scale)
	if err != nil {
		return nil, err
	}
	p = p.Scale(k)
	if f.reverse {
		p = p.Reverse()
	}
	return p, nil
}

// boxCommand creates the box command that draws a rounded rectangle.
func (c *CLI) boxCommand() *cobra.Command {
	var (
		width, height, radius string
		shape                 shapeFlags
	)

	cmd := &cobra.Command{
		Use:   "box",
		Short: "Draw a rounded rectangle",
		Long: `Draw a rounded rectangle as an exact vector drawing.

The corners are cubic approximations of quarter circles whose control points
involve √2; the drawing is serialized at the smallest fixed-point precision
that fits every coordinate in 25 bits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseRat("width", width)
			if err != nil {
				return err
			}
			h, err := parseRat("height", height)
			if err != nil {
				return err
			}
			r, err := parseRat("radius", radius)
			if err != nil {
				return err
			}
			p, err := drawing.RoundedRect(w, h, r)
			if err != nil {
				return err
			}
			if p, err = shape.apply(p); err != nil {
				return err
			}
			return printDrawing(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&width, "width", "100", "rectangle width")
	cmd.Flags().StringVar(&height, "height", "50", "rectangle height")
	cmd.Flags().StringVar(&radius, "radius", "10", "corner radius")
	shape.register(cmd)

	return cmd
}

// drawingCommand creates the drawing command that normalizes drawing words.
func (c *CLI) drawingCommand() *cobra.Command {
	var shape shapeFlags

	cmd := &cobra.Command{
		Use:   "drawing [words]",
		Short: "Parse a vector drawing and serialize it at minimal precision",
		Example: `  danmaku drawing "m 0 0 l 2.5 0 2.5 1.25"
  danmaku drawing --reverse "m 0 0 l 10 0 10 10 0 10"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := drawing.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if p, err = shape.apply(p); err != nil {
				return err
			}
			return printDrawing(cmd.OutOrStdout(), p)
		},
	}
	shape.register(cmd)

	return cmd
}

// panelCommand creates the panel command that draws a poll panel.
func (c *CLI) panelCommand() *cobra.Command {
	var (
		answers int
		results string
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "panel [answers...]",
		Short: "Draw the answer boxes of a poll",
		Long: `Draw the answer boxes of a poll.

Answers are given as arguments, or generated as A, B, C... with --answers.
With --results, every box also gets its share of the votes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(c.Logger)
			if err != nil {
				return err
			}
			labels := args
			if len(labels) == 0 {
				for i := range answers {
					labels = append(labels, string(rune('A'+i)))
				}
			}
			var counts []int
			if results != "" {
				for _, s := range strings.Split(results, ",") {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("invalid result %q: %w", s, err)
					}
					counts = append(counts, n)
				}
			}

			b, err := vote.NewBuilder(opts.VoteConfig(), vote.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			p, err := b.Panel(cmd.Context(), labels, counts)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, box := range p.Boxes {
				title := box.Label
				if box.Percentage != "" {
					title += "  " + box.Percentage
				}
				fmt.Fprintln(w, StyleTitle.Render(title))
				printKeyValue(w, "center", numfmt.MustNumber(box.X)+", "+numfmt.MustNumber(box.Y))
				printKeyValue(w, "fill", fmt.Sprintf("p%d %s", box.Fill.Precision, box.Fill.Drawing))
				printKeyValue(w, "outline", fmt.Sprintf("p%d %s", box.Outline.Precision, box.Outline.Drawing))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&answers, "answers", "n", 3, "number of generated answers when none are given")
	cmd.Flags().StringVar(&results, "results", "", "comma-separated vote counts")
	flags.register(cmd)

	return cmd
}

// printDrawing writes the precision exponent and the serialized drawing.
func printDrawing(w io.Writer, p *drawing.Path) error {
	s, prec, err := p.Serialize()
	if err != nil {
		return err
	}
	printKeyValue(w, "precision", strconv.Itoa(prec))
	printKeyValue(w, "anchors", strconv.Itoa(p.Anchors()))
	fmt.Fprintln(w, s)
	return nil
}

func parseRat(name, s string) (*big.Rat, error) {
	d, err := numfmt.ParseDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return d.Rat(), nil
}
