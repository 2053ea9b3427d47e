package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"evpulse/internal/dataprocessing"
	"evpulse/pkg/contracts/domain"
)

// Report bundles the derived views written to the Excel workbook.
type Report struct {
	Summary  dataprocessing.Summary
	Yearly   []dataprocessing.YearlyCount
	Insights dataprocessing.GrowthInsights
	Trend    []dataprocessing.RangePoint
	TopMakes []dataprocessing.CategoryCount
}

// ReportExporter writes cleaned data and derived reports
type ReportExporter struct {
	csv    *CSVWriter
	logger *slog.Logger
}

// NewReportExporter creates a new report exporter
func NewReportExporter(csv *CSVWriter, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{csv: csv, logger: logger}
}

// vehicleHeaders is the column order of the cleaned-record export.
var vehicleHeaders = []string{
	"Make", "Model", "Model Year", "Electric Range", "Electric Vehicle Type",
	"CAFV Eligibility", "County", "City", "State", "Postal Code", "Location",
}

// ExportVehicles writes the cleaned vehicle table as CSV. Large datasets go
// through the stream writer rather than being materialized as rows first.
func (e *ReportExporter) ExportVehicles(vehicles []domain.Vehicle, outputPath string) error {
	stream, err := e.csv.CreateStreamWriter(outputPath, vehicleHeaders)
	if err != nil {
		return fmt.Errorf("creating vehicle export: %w", err)
	}

	for _, v := range vehicles {
		if err := stream.WriteRecord(vehicleToCSVRow(v)); err != nil {
			stream.Close()
			return fmt.Errorf("writing vehicle record: %w", err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("closing vehicle export: %w", err)
	}

	e.logger.Info("exported cleaned vehicles",
		slog.String("path", outputPath),
		slog.Int("records", len(vehicles)))
	return nil
}

func vehicleToCSVRow(v domain.Vehicle) []string {
	return []string{
		v.Make,
		v.Model,
		formatInt(v.ModelYear),
		formatFloat(v.ElectricRange),
		v.EVType,
		v.CAFVEligibility,
		v.County,
		v.City,
		v.State,
		v.PostalCode,
		v.Location,
	}
}

// ExportSummaryJSON writes the summary statistics as indented JSON.
func (e *ReportExporter) ExportSummaryJSON(summary dataprocessing.Summary, outputPath string) error {
	fullPath := e.csv.resolvePath(outputPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	e.logger.Info("exported summary", slog.String("path", fullPath))
	return nil
}

// ExportYearlyCounts writes the adoption-over-time table as CSV.
func (e *ReportExporter) ExportYearlyCounts(yearly []dataprocessing.YearlyCount, outputPath string) error {
	records := make([][]string, len(yearly))
	for i, y := range yearly {
		growth := ""
		if y.YoYGrowth != nil {
			growth = formatFloat(*y.YoYGrowth)
		}
		records[i] = []string{formatInt(y.Year), formatInt(y.Count), growth}
	}
	return e.csv.WriteSimpleCSV(outputPath, []string{"Year", "Count", "YoY Growth %"}, records)
}

// ExportWorkbook writes a multi-sheet Excel report with the summary, the
// yearly series, the range trend, and the top makes.
func (e *ReportExporter) ExportWorkbook(report Report, outputPath string) error {
	fullPath := e.csv.resolvePath(outputPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeSummarySheet(f, report.Summary); err != nil {
		return err
	}
	if err := e.writeYearlySheet(f, report.Yearly, report.Insights); err != nil {
		return err
	}
	if err := e.writeTrendSheet(f, report.Trend); err != nil {
		return err
	}
	if err := e.writeTopMakesSheet(f, report.TopMakes); err != nil {
		return err
	}

	// Drop the default sheet created by excelize.
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	e.logger.Info("exported workbook", slog.String("path", fullPath))
	return nil
}

func (e *ReportExporter) writeSummarySheet(f *excelize.File, summary dataprocessing.Summary) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total EVs", summary.TotalEVs},
		{"Unique Makes", summary.UniqueMakes},
		{"Unique Models", summary.UniqueModels},
	}
	if summary.AvgElectricRange != nil {
		rows = append(rows, []interface{}{"Avg Electric Range", *summary.AvgElectricRange})
	}
	if summary.MostCommonMake != "" {
		rows = append(rows, []interface{}{"Most Common Make", summary.MostCommonMake})
	}
	if summary.MinYear != nil && summary.MaxYear != nil {
		rows = append(rows, []interface{}{"Year Span", fmt.Sprintf("%d-%d", *summary.MinYear, *summary.MaxYear)})
	}

	return writeRows(f, sheet, rows)
}

func (e *ReportExporter) writeYearlySheet(f *excelize.File, yearly []dataprocessing.YearlyCount, insights dataprocessing.GrowthInsights) error {
	const sheet = "Yearly Growth"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Year", "Count", "YoY Growth %"}}
	for _, y := range yearly {
		row := []interface{}{y.Year, y.Count, nil}
		if y.YoYGrowth != nil {
			row[2] = *y.YoYGrowth
		}
		rows = append(rows, row)
	}
	if insights.CAGR != nil {
		rows = append(rows, []interface{}{})
		rows = append(rows, []interface{}{
			fmt.Sprintf("CAGR %d-%d", insights.WindowStart, insights.WindowEnd), *insights.CAGR,
		})
	}

	return writeRows(f, sheet, rows)
}

func (e *ReportExporter) writeTrendSheet(f *excelize.File, trend []dataprocessing.RangePoint) error {
	const sheet = "Range Trend"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Year", "Avg Range"}}
	for _, p := range trend {
		rows = append(rows, []interface{}{p.Year, p.AvgRange})
	}

	return writeRows(f, sheet, rows)
}

func (e *ReportExporter) writeTopMakesSheet(f *excelize.File, makes []dataprocessing.CategoryCount) error {
	const sheet = "Top Makes"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Make", "Count"}}
	for _, m := range makes {
		rows = append(rows, []interface{}{m.Value, m.Count})
	}

	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
