package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/healthyfood/calorie-hub/internal/catalog"
	"github.com/healthyfood/calorie-hub/internal/storage"
)

// Generator строит PDF/CSV отчёты по дневнику калорий.
type Generator struct {
	logsStorage storage.CalorieLogsStorage
	catalog     catalog.Lookup
}

// NewGenerator creates a new report generator
func NewGenerator(logsStorage storage.CalorieLogsStorage, catalog catalog.Lookup) *Generator {
	return &Generator{
		logsStorage: logsStorage,
		catalog:     catalog,
	}
}

// reportRow is one diary entry resolved against the food catalog.
type reportRow struct {
	Date     string
	FoodName string
	Quantity float64
	Calories float64
}

// GenerateReport generates a report for the owner's diary and returns the data
func (g *Generator) GenerateReport(ctx context.Context, ownerID uuid.UUID, req CreateReportRequest) ([]byte, error) {
	entries, err := g.logsStorage.ListCalorieLogsInRange(ctx, ownerID, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calorie logs: %w", err)
	}

	rows, err := g.resolveRows(ctx, entries)
	if err != nil {
		return nil, err
	}

	switch req.Format {
	case FormatPDF:
		return g.generatePDF(req, rows)
	case FormatCSV:
		return g.generateCSV(rows)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

// resolveRows подставляет имена продуктов из каталога.
// Продукты, удалённые после записи, отмечаются как "(deleted)".
func (g *Generator) resolveRows(ctx context.Context, entries []storage.CalorieLog) ([]reportRow, error) {
	names := make(map[uuid.UUID]string)
	rows := make([]reportRow, 0, len(entries))

	for i := range entries {
		entry := &entries[i]

		name, ok := names[entry.FoodItemID]
		if !ok {
			item, err := g.catalog.Lookup(ctx, entry.FoodItemID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve food item: %w", err)
			}
			if item != nil {
				name = item.Name
			} else {
				name = "(deleted)"
			}
			names[entry.FoodItemID] = name
		}

		rows = append(rows, reportRow{
			Date:     entry.LogDate,
			FoodName: name,
			Quantity: entry.Quantity,
			Calories: entry.CaloriesConsumed,
		})
	}

	return rows, nil
}

// generateCSV generates a CSV report, one row per diary entry
func (g *Generator) generateCSV(rows []reportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "food_item", "quantity", "calories_consumed"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.Date,
			row.FoodName,
			strconv.FormatFloat(row.Quantity, 'f', -1, 64),
			fmt.Sprintf("%.2f", row.Calories),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// generatePDF generates a PDF report with a summary and a per-day table
func (g *Generator) generatePDF(req CreateReportRequest, rows []reportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")

	pdf.SetFont("Arial", "", 16)
	pdf.AddPage()

	pdf.Cell(0, 10, "Calorie Report")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", req.From, req.To))
	pdf.Ln(12)

	summary := calculateSummary(rows)

	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Days with entries: %d", summary.DaysTracked))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Entries: %d", summary.Entries))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total calories: %.0f", summary.TotalCalories))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average per day: %s", formatAvg(summary.AvgPerDay)))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Daily totals")
	pdf.Ln(8)

	drawDailyTable(pdf, rows)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// Summary holds calculated summary statistics
type Summary struct {
	DaysTracked   int
	Entries       int
	TotalCalories float64
	AvgPerDay     *float64
}

func calculateSummary(rows []reportRow) Summary {
	days := make(map[string]struct{})
	summary := Summary{Entries: len(rows)}

	for _, row := range rows {
		days[row.Date] = struct{}{}
		summary.TotalCalories += row.Calories
	}

	summary.DaysTracked = len(days)
	if summary.DaysTracked > 0 {
		avg := summary.TotalCalories / float64(summary.DaysTracked)
		summary.AvgPerDay = &avg
	}

	return summary
}

// drawDailyTable draws per-day totals, most recent days last
func drawDailyTable(pdf *gofpdf.Fpdf, rows []reportRow) {
	type dayTotal struct {
		entries  int
		calories float64
	}

	totals := make(map[string]*dayTotal)
	for _, row := range rows {
		dt := totals[row.Date]
		if dt == nil {
			dt = &dayTotal{}
			totals[row.Date] = dt
		}
		dt.entries++
		dt.calories += row.Calories
	}

	dates := make([]string, 0, len(totals))
	for date := range totals {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	// Limit to last 14 days
	if len(dates) > 14 {
		dates = dates[len(dates)-14:]
	}

	pdf.SetFont("Arial", "", 8)

	pdf.CellFormat(30, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Entries", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Calories", "1", 1, "C", false, 0, "")

	for _, date := range dates {
		dt := totals[date]
		pdf.CellFormat(30, 6, date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, strconv.Itoa(dt.entries), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.0f", dt.calories), "1", 1, "C", false, 0, "")
	}
}

func formatAvg(val *float64) string {
	if val == nil {
		return "no data"
	}
	return fmt.Sprintf("%.0f", *val)
}
