package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"seltext/internal/config"
)

func configCmd(flags *Flags) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration, optionally saving it",
		Long: `Show the configuration after the config file, the environment and the
--backend/--keystroke flags were applied.

With --save it is written to --config, or to ~/.config/seltext/config.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cfg.String())

			if !save {
				return nil
			}
			path := flags.ConfigPath
			if path == "" {
				path = config.DefaultFilePath()
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "write the configuration to the config file")
	return cmd
}
