package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/danmaku/pkg/pipeline"
)

// configCommand creates the config command that prints effective options.
func (c *CLI) configCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective options as TOML",
		Long: `Print the effective options as TOML.

Without a config file this prints every default, which is a good starting
point for a danmaku.toml. Flags override values from the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(c.Logger)
			if err != nil {
				return err
			}
			data, err := pipeline.EncodeTOML(opts)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	flags.register(cmd)

	return cmd
}
