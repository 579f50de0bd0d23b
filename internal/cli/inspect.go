package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	danmakuio "github.com/matzehuels/danmaku/pkg/io"
)

// inspectCommand creates the inspect command that browses a layout by time.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		at     string
		static bool
		flags  optionFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [records.json]",
		Short: "Browse which comments are on screen over time",
		Long: `Browse which comments are on screen over time.

The inspect command lays out the records the same way the layout command
does and opens an interactive view of the comments visible at a moment, with
their positions. Use --static to print a single moment and exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			opts, err := flags.options(logger)
			if err != nil {
				return err
			}
			t, err := parseRat("time", at)
			if err != nil {
				return err
			}
			if t.Sign() < 0 {
				return fmt.Errorf("invalid time %q: must not be negative", at)
			}

			records, err := danmakuio.ImportJSON(args[0])
			if err != nil {
				return fmt.Errorf("load records %s: %w", args[0], err)
			}
			res, err := c.newRunner(ctx).Execute(ctx, records, opts)
			if err != nil {
				return fmt.Errorf("layout: %w", err)
			}

			model := NewInspectModel(res, opts.Width.Rat(), t)
			if static {
				fmt.Fprintln(cmd.OutOrStdout(), model.View())
				return nil
			}

			logger.Debug("starting inspector", "comments", len(res.Layout.Order))
			_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout())).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&at, "at", "0", "time in seconds to start at")
	cmd.Flags().BoolVar(&static, "static", false, "print the comments at --at and exit")
	flags.register(cmd)

	return cmd
}
