package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/nutriapp/internal/models"
)

const exportTimeLayout = "15:04:05"

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

var ExportColumns = []string{
	"Date",
	"Time",
	"Meal ID",
	"Calories (kcal)",
	"Protein (g)",
	"Carbs (g)",
	"Fat (g)",
}

var ExportItemColumns = []string{
	"Meal ID",
	"Food",
	"Weight (g)",
	"Calories (kcal)",
	"Protein (g)",
	"Carbs (g)",
	"Fat (g)",
}

const exportTotalsLabel = "TOTAL"

type ExportRow struct {
	Date     string
	Time     string
	MealID   string
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
}

type ExportItemRow struct {
	MealID      string
	Name        string
	WeightGrams int
	Calories    float64
	ProteinG    float64
	CarbsG      float64
	FatG        float64
}

// ExportTable is a meal history ready to be serialized: one row per meal in
// local time, then a totals row.
type ExportTable struct {
	Description string
	Timezone    string
	Rows        []ExportRow
	Items       []ExportItemRow
	Totals      MealTotals
	Interval    *MealInterval
}

func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatXLSX:
		return ExportFormatXLSX, nil
	case ExportFormatCSV:
		return ExportFormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidExportFormat, raw)
	}
}

func (format ExportFormat) ContentType() string {
	if format == ExportFormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func ExportFilename(interval *MealInterval, format ExportFormat) string {
	scope := "all"
	if interval != nil {
		scope = "range"
	}
	return fmt.Sprintf("nutriapp_meals_%s.%s", scope, format)
}

func (service *ReportService) BuildExport(ctx context.Context, userID string, rawFrom string, rawTo string, location *time.Location) (ExportTable, error) {
	if location == nil {
		location = time.UTC
	}
	interval, err := RangeUTC(rawFrom, rawTo, location)
	if err != nil {
		return ExportTable{}, err
	}

	start, end := interval.Bounds()
	meals, err := service.meals.ListByUserRange(ctx, userID, start, end)
	if err != nil {
		return ExportTable{}, storageUnavailable("list meals for export", err)
	}

	mealIDs := make([]string, 0, len(meals))
	for _, meal := range meals {
		mealIDs = append(mealIDs, meal.ID)
	}
	items, err := service.meals.ListItemsForMeals(ctx, mealIDs)
	if err != nil {
		return ExportTable{}, storageUnavailable("list meal items for export", err)
	}

	return ExportTable{
		Description: describeInterval(interval, location),
		Timezone:    location.String(),
		Rows:        buildExportRows(meals, location),
		Items:       buildExportItemRows(items),
		Totals:      SumMeals(meals),
		Interval:    interval,
	}, nil
}

func buildExportRows(meals []models.Meal, location *time.Location) []ExportRow {
	rows := make([]ExportRow, 0, len(meals))
	for _, meal := range meals {
		local := meal.CreatedAt.In(location)
		rows = append(rows, ExportRow{
			Date:     local.Format(dayLayout),
			Time:     local.Format(exportTimeLayout),
			MealID:   meal.ID,
			Calories: roundGrams(safeFloat(meal.TotalCalories)),
			ProteinG: roundGrams(safeFloat(meal.TotalProteinG)),
			CarbsG:   roundGrams(safeFloat(meal.TotalCarbsG)),
			FatG:     roundGrams(safeFloat(meal.TotalFatG)),
		})
	}
	return rows
}

func buildExportItemRows(items []models.MealItem) []ExportItemRow {
	rows := make([]ExportItemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, ExportItemRow{
			MealID:      item.MealID,
			Name:        item.Name,
			WeightGrams: item.WeightGrams,
			Calories:    roundGrams(safeFloat(item.CaloriesKcal)),
			ProteinG:    roundGrams(safeFloat(item.ProteinG)),
			CarbsG:      roundGrams(safeFloat(item.CarbsG)),
			FatG:        roundGrams(safeFloat(item.FatG)),
		})
	}
	return rows
}

func describeInterval(interval *MealInterval, location *time.Location) string {
	if interval == nil {
		return "All history"
	}
	from := interval.Start.In(location).Format(dayLayout)
	to := interval.End.Add(-time.Nanosecond).In(location).Format(dayLayout)
	if from == to {
		return from
	}
	return from + " to " + to
}

func (row ExportRow) Columns() []string {
	return []string{
		row.Date,
		row.Time,
		row.MealID,
		formatExportNumber(row.Calories),
		formatExportNumber(row.ProteinG),
		formatExportNumber(row.CarbsG),
		formatExportNumber(row.FatG),
	}
}

func (row ExportRow) Values() []any {
	return []any{row.Date, row.Time, row.MealID, row.Calories, row.ProteinG, row.CarbsG, row.FatG}
}

func (row ExportItemRow) Values() []any {
	return []any{row.MealID, row.Name, row.WeightGrams, row.Calories, row.ProteinG, row.CarbsG, row.FatG}
}

func (table ExportTable) TotalsColumns() []string {
	return []string{
		exportTotalsLabel,
		"",
		"",
		formatExportNumber(table.Totals.Calories),
		formatExportNumber(table.Totals.ProteinG),
		formatExportNumber(table.Totals.CarbsG),
		formatExportNumber(table.Totals.FatG),
	}
}

func (table ExportTable) TotalsValues() []any {
	return []any{exportTotalsLabel, "", "", table.Totals.Calories, table.Totals.ProteinG, table.Totals.CarbsG, table.Totals.FatG}
}

func formatExportNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
