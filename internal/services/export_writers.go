package services

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	exportMealsSheet = "Meals"
	exportItemsSheet = "Items"
)

// WriteCSV writes the bare table: header, one line per meal, totals.
func WriteCSV(w io.Writer, table ExportTable) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportColumns); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := writer.Write(row.Columns()); err != nil {
			return err
		}
	}
	if err := writer.Write(table.TotalsColumns()); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes a workbook whose first sheet opens with a metadata block
// (range, timezone, record count) followed by the meal table. A second sheet
// lists the items of every exported meal.
func WriteXLSX(w io.Writer, table ExportTable) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), exportMealsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	metadata := [][]any{
		{"Range", table.Description},
		{"Timezone", table.Timezone},
		{"Records", len(table.Rows)},
		{},
	}
	rows := make([][]any, 0, len(metadata)+len(table.Rows)+2)
	rows = append(rows, metadata...)
	rows = append(rows, stringsToValues(ExportColumns))
	for _, row := range table.Rows {
		rows = append(rows, row.Values())
	}
	rows = append(rows, table.TotalsValues())
	if err := writeSheetRows(file, exportMealsSheet, rows); err != nil {
		return err
	}

	if _, err := file.NewSheet(exportItemsSheet); err != nil {
		return fmt.Errorf("create items sheet: %w", err)
	}
	itemRows := make([][]any, 0, len(table.Items)+1)
	itemRows = append(itemRows, stringsToValues(ExportItemColumns))
	for _, item := range table.Items {
		itemRows = append(itemRows, item.Values())
	}
	if err := writeSheetRows(file, exportItemsSheet, itemRows); err != nil {
		return err
	}

	return file.Write(w)
}

func writeSheetRows(file *excelize.File, sheet string, rows [][]any) error {
	for index, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, index+1)
		if err != nil {
			return err
		}
		values := row
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, index+1, err)
		}
	}
	return nil
}

func stringsToValues(values []string) []any {
	converted := make([]any, 0, len(values))
	for _, value := range values {
		converted = append(converted, value)
	}
	return converted
}
