// Package cli implements the danmaku command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/danmaku/pkg/buildinfo"
	"github.com/matzehuels/danmaku/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "danmaku"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Danmaku lays out scrolling video comments without collisions",
		Long: `Danmaku places NicoNico-style scrolling and fixed comments on screen so that
comments visible at the same time never cover each other, and draws the owner
banners and poll panels as exact vector shapes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.boxCommand())
	root.AddCommand(c.drawingCommand())
	root.AddCommand(c.panelCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner logging to the command's logger.
func (c *CLI) newRunner(ctx context.Context) *pipeline.Runner {
	return pipeline.NewRunner(loggerFromContext(ctx))
}

// =============================================================================
// Options Helpers
// =============================================================================

// optionFlags are the overrides shared by commands that run the pipeline.
type optionFlags struct {
	config string
	seed   uint64
	width  string
	height string
}

func (f *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "options file (.toml, .yaml, .yml or .json)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "overflow placement seed (default from config, else 42)")
	cmd.Flags().StringVar(&f.width, "width", "", "screen width in layout pixels")
	cmd.Flags().StringVar(&f.height, "height", "", "screen height in layout pixels")
}

// options loads the config file, if any, and applies flag overrides.
func (f *optionFlags) options(logger *log.Logger) (pipeline.Options, error) {
	opts := pipeline.Options{}
	if f.config != "" {
		var err error
		if opts, err = pipeline.LoadOptions(f.config); err != nil {
			return pipeline.Options{}, err
		}
	}
	if f.seed != 0 {
		opts.Seed = f.seed
	}
	if f.width != "" {
		if err := opts.Width.UnmarshalText([]byte(f.width)); err != nil {
			return pipeline.Options{}, err
		}
	}
	if f.height != "" {
		if err := opts.Height.UnmarshalText([]byte(f.height)); err != nil {
			return pipeline.Options{}, err
		}
	}
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}
