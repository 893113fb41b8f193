package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lakegen/lakegen/internal/db"
	"github.com/lakegen/lakegen/internal/logging"
	"github.com/lakegen/lakegen/internal/sink"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Create the medallion schemas",
	Long: `Create the stg, silver and gold schemas in the warehouse if they do
not exist yet. Bronze tables live in the main schema and need no setup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		conn, err := openWarehouse(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.CreateSchemas(ctx, conn, db.MedallionSchemas); err != nil {
			return err
		}
		logging.Info().
			Strs("schemas", db.MedallionSchemas).
			Msg("Medallion schemas ready")
		return nil
	},
}

var tablesSchema string

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Summarize warehouse tables",
	Long: `Print every user table with its row and column counts. System
schemas are excluded; --schema narrows the listing to one schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		conn, err := openWarehouse(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		summaries, err := db.Summarize(ctx, conn, tablesSchema)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			cmd.Println("No tables found.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SCHEMA\tTABLE\tROWS\tCOLS")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", s.Schema, s.Name, s.RowCount, s.ColumnCount)
		}
		return tw.Flush()
	},
}

var describeLimit int

var describeCmd = &cobra.Command{
	Use:   "describe <schema.table>",
	Short: "Show a table's columns and a row preview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, table, err := db.SplitQualifiedName(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		conn, err := openWarehouse(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		cols, err := db.Describe(ctx, conn, schema, table)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "COLUMN\tTYPE\tNULLABLE")
		for _, c := range cols {
			fmt.Fprintf(tw, "%s\t%s\t%t\n", c.Name, c.Type, c.Nullable)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		header, rows, err := db.Preview(ctx, conn, schema, table, describeLimit)
		if err != nil {
			return err
		}
		cmd.Println()
		tw = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(header, "\t"))
		for _, row := range rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	},
}

var (
	columnsSchema string
	columnsPrefix string
	columnsOut    string
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Inventory columns across tables",
	Long: `Print one row per column for every table in a schema, optionally
filtered by table-name prefix and exported to CSV for spreadsheet work.

Example:
  lakegen columns --schema stg --prefix stg_ --out columns.csv`,
	RunE: runColumns,
}

func runColumns(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	conn, err := openWarehouse(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	tables, err := db.ListTables(ctx, conn, columnsSchema)
	if err != nil {
		return err
	}

	type columnRow struct {
		schema, table, column, typ string
	}
	var inventory []columnRow
	for _, t := range tables {
		if columnsPrefix != "" && !strings.HasPrefix(t.Name, columnsPrefix) {
			continue
		}
		cols, err := db.Describe(ctx, conn, t.Schema, t.Name)
		if err != nil {
			return err
		}
		for _, c := range cols {
			inventory = append(inventory, columnRow{t.Schema, t.Name, c.Name, c.Type})
		}
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCHEMA\tTABLE\tCOLUMN\tTYPE")
	for _, r := range inventory {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.schema, r.table, r.column, r.typ)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if columnsOut == "" {
		return nil
	}
	out, err := sink.CreateCSV(columnsOut, []string{"schema", "table", "column", "type"})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", columnsOut, err)
	}
	for _, r := range inventory {
		if err := out.Write([]string{r.schema, r.table, r.column, r.typ}); err != nil {
			return err
		}
	}
	if err := out.Close(); err != nil {
		return err
	}
	logging.Info().
		Str("path", columnsOut).
		Int("columns", len(inventory)).
		Msg("Column inventory exported")
	return nil
}

func init() {
	tablesCmd.Flags().StringVar(&tablesSchema, "schema", "",
		"limit the summary to one schema")
	describeCmd.Flags().IntVar(&describeLimit, "limit", 5,
		"number of preview rows")
	columnsCmd.Flags().StringVar(&columnsSchema, "schema", "stg",
		"schema to inventory")
	columnsCmd.Flags().StringVar(&columnsPrefix, "prefix", "",
		"only include tables whose name starts with this prefix")
	columnsCmd.Flags().StringVar(&columnsOut, "out", "",
		"write the inventory to this CSV file")
}

// openWarehouse opens the configured warehouse database.
func openWarehouse(ctx context.Context) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	conn, err := db.Open(ctx, cfg.Warehouse, cfg.Load.Threads)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}
	return conn, nil
}
