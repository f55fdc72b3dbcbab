package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/skillspace-mcp/internal/config"
	"github.com/dshills/skillspace-mcp/internal/snapshot"
)

func newImportCmd(cfg *config.Config) *cobra.Command {
	var (
		src       snapshot.Sources
		batchSize int
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import exported snapshot artifacts into the database",
		Example: `  skillspace import --projects Proj_info.json.gz --embeddings embeddings.json.gz
  skillspace import --activity tz_activity.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("batch-size") {
				batchSize = cfg.Database.ImportBatchSize
			}
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := snapshot.NewImporter(a.storage, batchSize).Import(cmd.Context(), src)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Anchors:   %d\n", stats.AnchorsImported)
			fmt.Fprintf(out, "Tokens:    %d\n", stats.TokensImported)
			fmt.Fprintf(out, "Projects:  %d\n", stats.ProjectsImported)
			fmt.Fprintf(out, "Timezones: %d\n", stats.TimezonesLoaded)
			if stats.Dimension > 0 {
				fmt.Fprintf(out, "Dimension: %d\n", stats.Dimension)
			}
			if stats.EntriesSkipped > 0 {
				fmt.Fprintf(out, "Skipped:   %d malformed entries\n", stats.EntriesSkipped)
			}
			fmt.Fprintf(out, "Duration:  %s\n", stats.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVar(&src.Projects, "projects", "", "project metadata export (.json or .json.gz)")
	cmd.Flags().StringVar(&src.Embeddings, "embeddings", "", "embedding export (.json or .json.gz)")
	cmd.Flags().StringVar(&src.Activity, "activity", "", "timezone activity export (.json or .json.gz)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "records per transaction (defaults to database.import_batch_size)")
	return cmd
}
