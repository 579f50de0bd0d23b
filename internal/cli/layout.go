package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	danmakuio "github.com/matzehuels/danmaku/pkg/io"
	"github.com/matzehuels/danmaku/pkg/pipeline"
)

// layoutCommand creates the layout command that runs the full pipeline.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  optionFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [records.json]",
		Short: "Place comments and draw banners and poll panels",
		Long: `Place comments and draw banners and poll panels.

The layout command reads comment records, resolves when each one is on
screen, assigns every viewer comment a vertical position so that comments
visible at the same time never overlap, and draws the owner banners and poll
panels. The result is written as JSON with exact coordinates.

Comments that find no free line overflow: they are placed at a random
position (reproducible with --seed) and faded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(c.Logger)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the records, runs the pipeline, and writes output.
func (c *CLI) runLayout(ctx context.Context, w io.Writer, input, output string, opts pipeline.Options) error {
	records, err := danmakuio.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load records %s: %w", input, err)
	}

	logger := loggerFromContext(ctx)
	opts.Logger = logger
	prog := newProgress(logger)
	res, err := c.newRunner(ctx).Execute(ctx, records, opts)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	prog.done("Placed %d comments", res.Stats.Layout.Comments)

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}
	if err := danmakuio.ExportJSON(res, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess(w, "Layout complete")
	printFile(w, outputPath)
	fmt.Fprintln(w, statsTable(res.Stats))
	if n := res.Stats.Layout.Overflowed; n > 0 {
		printWarning(w, "%d comments overflowed and were faded", n)
	}
	if n := res.Stats.ShapeErrors; n > 0 {
		printWarning(w, "%d poll panels could not be drawn", n)
	}
	printNextStep(w, "Inspect", appName+" inspect "+input)

	return nil
}

// statsTable renders the pipeline counters.
func statsTable(s pipeline.Stats) string {
	row := func(name string, n int) []string { return []string{name, strconv.Itoa(n)} }
	return renderTable([]string{"", "count"}, [][]string{
		row("records", s.Records),
		row("skipped", s.Skipped),
		row("scrolling", s.Layout.Scrolling),
		row("fixed", s.Layout.Fixed),
		row("overflowed", s.Layout.Overflowed),
		row("shifts", s.Layout.Shifts),
		row("banners", s.Banners),
		row("panels", s.Panels),
	})
}
