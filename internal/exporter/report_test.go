package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"evpulse/internal/dataprocessing"
	"evpulse/pkg/contracts/domain"
)

func testVehicles() []domain.Vehicle {
	return []domain.Vehicle{
		{
			Make: "Tesla", Model: "Model 3", ModelYear: 2020, ElectricRange: 266,
			EVType: domain.EVTypeBEV, CAFVEligibility: "Eligible",
			County: "King", City: "Seattle", State: "WA", PostalCode: "98101",
			Location: "POINT (-122.33 47.6)",
		},
		{
			Make: "Nissan", Model: "Leaf", ModelYear: 2019, ElectricRange: 150,
			EVType: domain.EVTypeBEV, CAFVEligibility: "Eligible",
			County: "Snohomish", City: "Everett", State: "WA", PostalCode: "98201",
			Location: domain.UnknownValue,
		},
	}
}

func TestExportVehicles(t *testing.T) {
	dir := t.TempDir()
	exp := NewReportExporter(NewCSVWriter(dir), nil)

	require.NoError(t, exp.ExportVehicles(testVehicles(), "cleaned.csv"))

	content, err := os.ReadFile(filepath.Join(dir, "cleaned.csv"))
	require.NoError(t, err)

	text := string(content)
	assert.True(t, strings.HasPrefix(text, "\xEF\xBB\xBF"), "expected UTF-8 BOM")
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(text, "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Make,Model,Model Year")
	assert.Contains(t, lines[1], "Tesla,Model 3,2020,266")
	assert.Contains(t, lines[2], "Nissan,Leaf,2019,150")
}

func TestExportSummaryJSON(t *testing.T) {
	dir := t.TempDir()
	exp := NewReportExporter(NewCSVWriter(dir), nil)

	avg := 208.0
	summary := dataprocessing.Summary{
		TotalEVs:         2,
		UniqueMakes:      2,
		UniqueModels:     2,
		AvgElectricRange: &avg,
		MostCommonMake:   "Tesla",
	}

	require.NoError(t, exp.ExportSummaryJSON(summary, "summary.json"))

	content, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(t, err)

	var decoded dataprocessing.Summary
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, 2, decoded.TotalEVs)
	require.NotNil(t, decoded.AvgElectricRange)
	assert.InDelta(t, 208.0, *decoded.AvgElectricRange, 1e-9)
}

func TestExportYearlyCounts(t *testing.T) {
	dir := t.TempDir()
	exp := NewReportExporter(NewCSVWriter(dir), nil)

	growth := 50.0
	yearly := []dataprocessing.YearlyCount{
		{Year: 2019, Count: 2},
		{Year: 2020, Count: 3, YoYGrowth: &growth},
	}

	require.NoError(t, exp.ExportYearlyCounts(yearly, "yearly.csv"))

	content, err := os.ReadFile(filepath.Join(dir, "yearly.csv"))
	require.NoError(t, err)

	text := strings.TrimPrefix(string(content), "\xEF\xBB\xBF")
	assert.Contains(t, text, "Year,Count,YoY Growth %")
	assert.Contains(t, text, "2019,2,")
	assert.Contains(t, text, "2020,3,50")
}

func TestExportWorkbook(t *testing.T) {
	dir := t.TempDir()
	exp := NewReportExporter(NewCSVWriter(dir), nil)

	cagr := 22.5
	report := Report{
		Summary: dataprocessing.Summary{
			TotalEVs:     2,
			UniqueMakes:  2,
			UniqueModels: 2,
		},
		Yearly: []dataprocessing.YearlyCount{
			{Year: 2019, Count: 1},
			{Year: 2020, Count: 1},
		},
		Insights: dataprocessing.GrowthInsights{CAGR: &cagr, WindowStart: 2019, WindowEnd: 2020},
		Trend: []dataprocessing.RangePoint{
			{Year: 2019, AvgRange: 150},
			{Year: 2020, AvgRange: 266},
		},
		TopMakes: []dataprocessing.CategoryCount{
			{Value: "Tesla", Count: 1},
			{Value: "Nissan", Count: 1},
		},
	}

	path := filepath.Join(dir, "report.xlsx")
	require.NoError(t, exp.ExportWorkbook(report, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "Yearly Growth")
	assert.Contains(t, sheets, "Range Trend")
	assert.Contains(t, sheets, "Top Makes")
	assert.NotContains(t, sheets, "Sheet1")

	value, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", value)

	value, err = f.GetCellValue("Top Makes", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Tesla", value)
}
