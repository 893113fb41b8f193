// Package cli implements the command-line interface for lakegen.
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lakegen/lakegen/internal/config"
	"github.com/lakegen/lakegen/internal/datasets"
	"github.com/lakegen/lakegen/internal/logging"
	"github.com/lakegen/lakegen/pkg/version"
)

var (
	// Global flags
	cfgFile   string
	warehouse string
	logLevel  string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "lakegen",
		Short: "Synthetic data lake generator backed by DuckDB",
		Long: `lakegen generates synthetic e-commerce raw datasets (CSV, Parquet,
JSONL, XLSX) and loads them into a local DuckDB warehouse following the
medallion layout: bronze tables mirror the raw files, while the stg,
silver and gold schemas are left for downstream transformation work.

Generation is seeded and reproducible, and loading is incremental: files
already recorded in the processing manifest are skipped unless --force
is given.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./lakegen.yaml)")
	rootCmd.PersistentFlags().StringVar(&warehouse, "warehouse", "",
		"path to the DuckDB database file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(schemasCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(datasetsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if warehouse != "" {
		cfg.Warehouse = warehouse
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List registered datasets",
	Long: `List every registered dataset together with the bronze tables it
feeds. Datasets register themselves at startup; the generate and load
commands operate on all of them unless --only narrows the set.`,
	Run: func(cmd *cobra.Command, args []string) {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DATASET\tBRONZE TABLES\tDESCRIPTION")
		for _, ds := range datasets.All() {
			fmt.Fprintf(tw, "%s\t%d\t%s\n",
				ds.Name(), len(ds.BronzeTables()), ds.Description())
		}
		tw.Flush()
	},
}
