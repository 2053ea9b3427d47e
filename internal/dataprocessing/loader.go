package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Loader reads raw tabular input from CSV or Excel files. It performs no
// cleaning beyond BOM stripping; all reconciliation happens in the
// Normalizer.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadFile reads a tabular file, dispatching on extension. ".xlsx" and
// ".xls" are read through excelize; everything else is treated as
// delimited text.
func (l *Loader) LoadFile(path string) (*RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return l.LoadExcelFile(path)
	default:
		return l.LoadCSVFile(path)
	}
}

// Load reads tabular input from r, dispatching on the extension of name.
// This is the entry point for uploaded files, where only a stream and the
// original filename are available.
func (l *Loader) Load(r io.Reader, name string) (*RawTable, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return l.LoadExcel(r)
	default:
		return l.LoadCSV(r)
	}
}

// LoadCSVFile reads a delimited text file into a RawTable.
func (l *Loader) LoadCSVFile(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	table, err := l.LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return table, nil
}

// LoadCSV reads delimited text from r into a RawTable. The first row is the
// header; rows may have fewer fields than the header. A UTF-8 BOM is
// stripped if present so Excel-exported files parse cleanly.
func (l *Loader) LoadCSV(r io.Reader) (*RawTable, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed CSV input: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("input contains no rows")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	table := &RawTable{Header: header, Rows: records[1:]}
	l.logger.Info("loaded delimited input",
		slog.Int("columns", len(table.Header)),
		slog.Int("rows", len(table.Rows)))
	return table, nil
}

// LoadExcelFile reads the first worksheet that looks like a vehicle
// registration table. The header row is located by scanning the first few
// rows of each sheet for the Make and Model columns, so exports with title
// rows above the data still parse.
func (l *Loader) LoadExcelFile(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	table, err := l.excelTable(f)
	if err != nil {
		return nil, fmt.Errorf("%w in %s", err, filepath.Base(path))
	}
	return table, nil
}

// LoadExcel reads an Excel workbook from a stream, locating the data sheet
// the same way LoadExcelFile does.
func (l *Loader) LoadExcel(r io.Reader) (*RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()

	return l.excelTable(f)
}

func (l *Loader) excelTable(f *excelize.File) (*RawTable, error) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}

		headerRow := findHeaderRow(rows)
		if headerRow == -1 {
			continue
		}

		header := make([]string, len(rows[headerRow]))
		for i, h := range rows[headerRow] {
			header[i] = strings.TrimSpace(h)
		}

		table := &RawTable{Header: header, Rows: rows[headerRow+1:]}
		l.logger.Info("loaded Excel input",
			slog.String("sheet", sheet),
			slog.Int("header_row", headerRow),
			slog.Int("rows", len(table.Rows)))
		return table, nil
	}

	return nil, fmt.Errorf("could not find a vehicle data sheet")
}

// findHeaderRow scans the first rows of a sheet for one naming both a make
// and a model column. Returns -1 when no such row exists.
func findHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		rowText := strings.ToLower(strings.Join(rows[i], " "))
		if strings.Contains(rowText, "make") && strings.Contains(rowText, "model") {
			return i
		}
	}
	return -1
}
