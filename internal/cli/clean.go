package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakegen/lakegen/internal/db"
	"github.com/lakegen/lakegen/internal/logging"
)

var (
	cleanTable  string
	cleanSchema string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop warehouse tables",
	Long: `Drop all tables and views in every user schema, one schema's tables
via --schema, or a single table via --table schema.name. System schemas
are never touched.

Example:
  lakegen clean --table stg.stg_customers`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVar(&cleanTable, "table", "",
		"drop only this table (schema.name, or a bare name in main)")
	cleanCmd.Flags().StringVar(&cleanSchema, "schema", "",
		"drop all tables in this schema only")
}

func runClean(cmd *cobra.Command, args []string) error {
	if cleanTable != "" && cleanSchema != "" {
		return fmt.Errorf("--table and --schema are mutually exclusive")
	}

	ctx := context.Background()
	conn, err := openWarehouse(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	switch {
	case cleanTable != "":
		schema, table, err := db.SplitQualifiedName(cleanTable)
		if err != nil {
			return err
		}
		if err := db.DropTable(ctx, conn, schema, table); err != nil {
			return err
		}
		logging.Info().
			Str("schema", schema).
			Str("table", table).
			Msg("Table dropped")

	case cleanSchema != "":
		n, err := db.DropSchemaTables(ctx, conn, cleanSchema)
		if err != nil {
			return err
		}
		logging.Info().
			Str("schema", cleanSchema).
			Int("tables", n).
			Msg("Schema tables dropped")

	default:
		n, err := db.DropAllTables(ctx, conn)
		if err != nil {
			return err
		}
		logging.Info().
			Int("tables", n).
			Msg("All warehouse tables dropped")
	}

	return nil
}
