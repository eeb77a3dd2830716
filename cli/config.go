package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"music-controls/config"
)

func configCmd() *cobra.Command {
	var save bool

	c := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if save {
				if err := cfg.Save(); err != nil {
					return fmt.Errorf("save config: %w", err)
				}
				path, _ := config.ConfigPath()
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}

	c.Flags().BoolVar(&save, "save", false, "Write the effective configuration to the config file")
	return c
}
