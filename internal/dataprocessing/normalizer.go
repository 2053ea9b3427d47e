package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"evpulse/pkg/contracts/domain"
)

// Canonical column names the pipeline normalizes toward.
const (
	colMake          = "Make"
	colModel         = "Model"
	colModelYear     = "Model Year"
	colElectricRange = "Electric Range"
	colEVType        = "Electric Vehicle Type"
	colCAFV          = "CAFV Eligibility"
	colLocation      = "Location"
	colCounty        = "County"
	colCity          = "City"
	colState         = "State"
	colPostalCode    = "Postal Code"
	colVIN           = "VIN (1-10)"
)

// columnAlias maps a known alternate column name to its canonical name. The
// rename applies only when the canonical column is absent from the source.
type columnAlias struct {
	alt       string
	canonical string
}

// Alternate names observed across dataset variants. The list is fixed and
// enumerable, not inferred.
var columnAliases = []columnAlias{
	{"Vehicle Make", colMake},
	{"Vehicle Model", colModel},
	{"Vehicle Year", colModelYear},
	{"Electric Vehicle Range", colElectricRange},
	{"Clean Alternative Fuel Vehicle Eligibility", colCAFV},
	{"Vehicle Location", colLocation},
	{"Vehicle VIN", colVIN},
}

// requiredColumns must be present after reconciliation; their absence is a
// hard failure, never imputed.
var requiredColumns = []string{colMake, colModel, colModelYear}

// locationColumns are synthesized with "Unknown" when absent, silently.
var locationColumns = []string{colCounty, colCity, colState, colPostalCode}

// MissingColumnsError reports the required columns absent from the source
// after alternate-name reconciliation.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Normalizer converts a RawTable into a canonical Dataset. It reconciles
// column-name variants, coerces numeric columns with median imputation, and
// synthesizes absent optional columns so downstream consumers never need
// ad-hoc presence checks.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a new normalizer.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize produces a Dataset from raw tabular input. It returns
// *MissingColumnsError when any required column is absent; all other
// anomalies degrade gracefully and are recorded as warnings on the Dataset.
func (n *Normalizer) Normalize(table *RawTable, source string) (*domain.Dataset, error) {
	var warnings []string

	// Alternate-name reconciliation: rename only when the canonical
	// counterpart is absent.
	for _, alias := range columnAliases {
		if table.HasColumn(alias.alt) && !table.HasColumn(alias.canonical) {
			table.Rename(alias.alt, alias.canonical)
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	warnings = append(warnings, n.ensureRangeColumn(table)...)
	warnings = append(warnings, n.ensureTypeColumn(table)...)
	warnings = append(warnings, n.ensureEligibilityColumn(table)...)
	for _, col := range locationColumns {
		if !table.HasColumn(col) {
			table.AddColumn(col, domain.UnknownValue)
		}
	}

	years := coerceNumeric(table.Column(table.ColumnIndex(colModelYear)))
	ranges := coerceNumeric(table.Column(table.ColumnIndex(colElectricRange)))

	// Medians are computed over the non-missing cells of the whole table,
	// after coercion and before any filtering.
	yearMedian, _ := median(years)
	rangeMedian, _ := median(ranges)
	imputeMissing(years, yearMedian)
	imputeMissing(ranges, rangeMedian)

	makeIdx := table.ColumnIndex(colMake)
	modelIdx := table.ColumnIndex(colModel)
	typeIdx := table.ColumnIndex(colEVType)
	cafvIdx := table.ColumnIndex(colCAFV)
	countyIdx := table.ColumnIndex(colCounty)
	cityIdx := table.ColumnIndex(colCity)
	stateIdx := table.ColumnIndex(colState)
	postalIdx := table.ColumnIndex(colPostalCode)
	locationIdx := table.ColumnIndex(colLocation)

	vehicles := make([]domain.Vehicle, len(table.Rows))
	for i := range table.Rows {
		vehicles[i] = domain.Vehicle{
			Make:            table.Cell(i, makeIdx),
			Model:           table.Cell(i, modelIdx),
			ModelYear:       int(math.Round(years[i])),
			ElectricRange:   ranges[i],
			EVType:          cellOrUnknown(table, i, typeIdx),
			CAFVEligibility: cellOrUnknown(table, i, cafvIdx),
			County:          cellOrUnknown(table, i, countyIdx),
			City:            cellOrUnknown(table, i, cityIdx),
			State:           cellOrUnknown(table, i, stateIdx),
			PostalCode:      cellOrUnknown(table, i, postalIdx),
			Location:        table.Cell(i, locationIdx),
		}
	}

	for _, w := range warnings {
		n.logger.Warn(w, slog.String("source", source))
	}
	n.logger.Info("normalized dataset",
		slog.String("source", source),
		slog.Int("records", len(vehicles)),
		slog.Int("warnings", len(warnings)))

	return &domain.Dataset{
		Source:   source,
		LoadedAt: time.Now(),
		Vehicles: vehicles,
		Warnings: warnings,
	}, nil
}

// ensureRangeColumn guarantees an Electric Range column exists. When no
// canonical column is present it falls back to the first column whose name
// contains "range" (case-insensitive), then to an all-missing placeholder.
func (n *Normalizer) ensureRangeColumn(table *RawTable) []string {
	if table.HasColumn(colElectricRange) {
		return nil
	}
	for _, h := range table.Header {
		if strings.Contains(strings.ToLower(h), "range") {
			table.Rename(h, colElectricRange)
			return nil
		}
	}
	table.AddColumn(colElectricRange, "")
	return []string{"Electric Range column not found, created a placeholder column"}
}

// ensureTypeColumn guarantees an Electric Vehicle Type column exists, falling
// back to any column containing "type" or "category", then to "Unknown".
func (n *Normalizer) ensureTypeColumn(table *RawTable) []string {
	if table.HasColumn(colEVType) {
		return nil
	}
	for _, h := range table.Header {
		lower := strings.ToLower(h)
		if strings.Contains(lower, "type") || strings.Contains(lower, "category") {
			table.Rename(h, colEVType)
			return nil
		}
	}
	table.AddColumn(colEVType, domain.UnknownValue)
	return []string{"Electric Vehicle Type column not found, created a placeholder column"}
}

// ensureEligibilityColumn guarantees a CAFV Eligibility column exists. There
// is no substring fallback for eligibility; absence synthesizes "Unknown".
func (n *Normalizer) ensureEligibilityColumn(table *RawTable) []string {
	if table.HasColumn(colCAFV) {
		return nil
	}
	table.AddColumn(colCAFV, domain.UnknownValue)
	return []string{"CAFV Eligibility column not found, created a placeholder column"}
}

// coerceNumeric parses each cell as a float, marking unparseable or empty
// cells as NaN so they can be imputed afterwards. Thousands separators are
// tolerated.
func coerceNumeric(cells []string) []float64 {
	values := make([]float64, len(cells))
	for i, cell := range cells {
		cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
		if cell == "" {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			values[i] = math.NaN()
			continue
		}
		values[i] = v
	}
	return values
}

// imputeMissing replaces NaN entries with the given fill value in place.
func imputeMissing(values []float64, fill float64) {
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = fill
		}
	}
}

func cellOrUnknown(table *RawTable, row, col int) string {
	if v := strings.TrimSpace(table.Cell(row, col)); v != "" {
		return v
	}
	return domain.UnknownValue
}
