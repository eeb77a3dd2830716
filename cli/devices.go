package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"music-controls/config"
	"music-controls/midi"
)

func devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List MIDI input and output ports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			registry := newRegistry(cfg)
			defer registry.Close()

			if err := registry.Update(); err != nil {
				return err
			}
			printDevices(cmd.OutOrStdout(), registry)
			return nil
		},
	}
}

func printDevices(w io.Writer, r midi.Registry) {
	section := func(title string, devices []midi.Device) {
		fmt.Fprintf(w, "%s:\n", title)
		if len(devices) == 0 {
			fmt.Fprintln(w, "  (none)")
			return
		}
		for _, d := range devices {
			fmt.Fprintf(w, "  %d  %s\n", d.Index, d.Name)
		}
	}
	section("Inputs", r.Inputs())
	section("Outputs", r.Outputs())
}
