package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"music-controls/config"
	"music-controls/exercise"
)

func exportCmd() *cobra.Command {
	var upload bool
	var typeChoice string
	var intro string
	var statePath string
	var outDir string
	var uploadURL string

	c := &cobra.Command{
		Use:   "export",
		Short: "Export the current exercise as JSON (download by default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if statePath != "" {
				cfg.Export.StatePath = statePath
			}
			if outDir != "" {
				cfg.Export.DownloadDir = outDir
			}
			if uploadURL != "" {
				cfg.Export.UploadURL = uploadURL
			}

			dest := exercise.Download
			if upload {
				dest = exercise.Upload
			}

			res, err := newPipeline(cfg).Export(cmd.Context(), dest, exercise.Answers{
				TypeChoice: typeChoice,
				IntroText:  intro,
			})
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	c.Flags().BoolVar(&upload, "upload", false, "Upload to the exercise server instead of saving a file")
	c.Flags().StringVarP(&typeChoice, "type", "t", "", "Exercise type: 1 matching, 2 analytical, 3 analytical_pcs, 4 figured_bass, 5 figured_bass_pcs")
	c.Flags().StringVarP(&intro, "intro", "i", "", "Intro text (sanitized before export)")
	c.Flags().StringVar(&statePath, "state", "", "Current state JSON file (defaults to the configured path)")
	c.Flags().StringVarP(&outDir, "out", "o", "", "Download directory")
	c.Flags().StringVar(&uploadURL, "url", "", "Exercise server base URL")
	return c
}

func printResult(w io.Writer, res exercise.Result) {
	if res.Destination == exercise.Upload {
		fmt.Fprintf(w, "Exercise uploaded! Exercise ID: %s\n", res.ExerciseID)
		return
	}
	fmt.Fprintf(w, "Saved %s (%d bytes)\n", res.Path, len(res.Data))
}
