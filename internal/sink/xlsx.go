package sink

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes a single-sheet workbook with a header row.
func WriteXLSX(path, sheet string, header []string, rows [][]any) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := setRow(f, sheet, 1, headerRow); err != nil {
		return err
	}

	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// ReadXLSX returns every populated row of one sheet as strings, header
// included. The bronze loader uses this because DuckDB has no native
// XLSX reader.
func ReadXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheet, path, err)
	}
	return rows, nil
}
