package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"music-controls/bus"
	"music-controls/config"
	"music-controls/controls"
	"music-controls/debug"
	"music-controls/exercise"
	"music-controls/instruments"
	"music-controls/midi"
	"music-controls/theme"
	"music-controls/tui"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debugLog bool

	cmd := &cobra.Command{
		Use:          "music-controls",
		Short:        "Settings panel for the harmony lab piano and staff",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !debugLog {
				return nil
			}
			if err := debug.Enable(); err != nil {
				return fmt.Errorf("enable debug log: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			debug.Disable()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "write a debug log to "+debug.DefaultPath())
	cmd.AddCommand(devicesCmd(), exportCmd(), configCmd())
	return cmd
}

func newRegistry(cfg *config.Config) *midi.PortRegistry {
	return midi.NewPortRegistry(midi.GomidiSource{}, cfg.PollInterval(), cfg.ScanTimeout())
}

func newPipeline(cfg *config.Config) *exercise.Pipeline {
	return &exercise.Pipeline{
		State:    exercise.FileState{Path: cfg.Export.StatePath},
		Uploader: exercise.NewHTTPUploader(cfg.Export.UploadURL),
		Saver:    exercise.DirSaver{Dir: cfg.Export.DownloadDir},
	}
}

func runTUI(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	registry := newRegistry(cfg)
	go registry.Run(ctx)

	palette := theme.Default()
	if cfg.General.Palette != "" {
		p, err := theme.LoadGPL(cfg.General.Palette)
		if err != nil {
			return fmt.Errorf("load palette: %w", err)
		}
		palette = p
	}

	b := bus.New()
	panel := controls.NewPanel(b, cfg, instruments.Enabled())

	m := tui.NewModel(tui.Deps{
		Bus:      b,
		Panel:    panel,
		Registry: registry,
		Notes:    registry.Notes(),
		Pipeline: newPipeline(cfg),
		Theme:    theme.New(palette),
		Help:     cfg.Help,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
