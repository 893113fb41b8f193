package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakegen/lakegen/internal/bronze"
	"github.com/lakegen/lakegen/internal/db"
	"github.com/lakegen/lakegen/internal/logging"
)

var (
	loadRaw     string
	loadWorkers int
	loadThreads int
	loadForce   bool
	loadOnly    []string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load raw files into bronze warehouse tables",
	Long: `Load every registered dataset's raw files into bronze_* tables in
the DuckDB warehouse. Files already recorded in the processing manifest
are skipped, so repeated runs only pick up new partitions; --force
clears the manifest and rebuilds every table.

Example:
  lakegen load --raw data_raw --workers 4`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadRaw, "raw", "",
		"directory raw files are read from (default: data_raw)")
	loadCmd.Flags().IntVar(&loadWorkers, "workers", 0,
		"number of tables loaded concurrently")
	loadCmd.Flags().IntVar(&loadThreads, "threads", 0,
		"DuckDB threads setting")
	loadCmd.Flags().BoolVar(&loadForce, "force", false,
		"reload files already recorded in the manifest")
	loadCmd.Flags().StringSliceVar(&loadOnly, "only", nil,
		"load only the named datasets (repeatable)")
}

func runLoad(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if loadRaw != "" {
		cfg.Load.Raw = loadRaw
	}
	if loadWorkers > 0 {
		cfg.Load.Workers = loadWorkers
	}
	if loadThreads > 0 {
		cfg.Load.Threads = loadThreads
	}
	if loadForce {
		cfg.Load.Force = true
	}

	// Validate configuration
	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	selected, err := selectDatasets(loadOnly)
	if err != nil {
		return err
	}

	logging.Info().
		Str("warehouse", cfg.Warehouse).
		Str("raw", cfg.Load.Raw).
		Int("workers", cfg.Load.Workers).
		Bool("force", cfg.Load.Force).
		Msg("Loading bronze tables")

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.Warehouse, cfg.Load.Threads)
	if err != nil {
		return fmt.Errorf("failed to open warehouse: %w", err)
	}
	defer conn.Close()

	if err := db.CreateSchemas(ctx, conn, db.MedallionSchemas); err != nil {
		return fmt.Errorf("failed to create schemas: %w", err)
	}

	loader := bronze.New(conn, bronze.Config{
		RawDir:  cfg.Load.Raw,
		Workers: cfg.Load.Workers,
		Force:   cfg.Load.Force,
	})

	report, err := loader.Run(ctx, selected)
	if err != nil {
		return err
	}

	cmd.Println()
	report.PrintSummary(cmd.OutOrStdout())

	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d of %d tables failed to load", n, len(report.Results))
	}
	return nil
}
