package domain

import (
	"time"
)

// Vehicle represents a single electric-vehicle registration record after
// normalization. Make, Model and ModelYear are always populated; the
// remaining fields carry "Unknown" or imputed values when the source
// dataset omitted them.
type Vehicle struct {
	Make           string  `json:"make" csv:"Make" validate:"required"`
	Model          string  `json:"model" csv:"Model" validate:"required"`
	ModelYear      int     `json:"model_year" csv:"Model Year" validate:"required"`
	ElectricRange  float64 `json:"electric_range" csv:"Electric Range" validate:"min=0"`
	EVType         string  `json:"ev_type" csv:"Electric Vehicle Type"`
	CAFVEligibility string `json:"cafv_eligibility" csv:"CAFV Eligibility"`
	County         string  `json:"county" csv:"County"`
	City           string  `json:"city" csv:"City"`
	State          string  `json:"state" csv:"State"`
	PostalCode     string  `json:"postal_code" csv:"Postal Code"`
	Location       string  `json:"location,omitempty" csv:"Location"`
}

// UnknownValue is the placeholder substituted for absent categorical and
// location fields during normalization.
const UnknownValue = "Unknown"

// EVType values observed in the Washington State registry. The set is open;
// normalization never rejects other labels.
const (
	EVTypeBEV  = "Battery Electric Vehicle (BEV)"
	EVTypePHEV = "Plug-in Hybrid Electric Vehicle (PHEV)"
)

// Dataset is an immutable normalized table of vehicle registrations plus
// provenance. It is owned by the load that produced it; derived views
// (summaries, coordinate sets) are recomputed from it, never stored on it.
type Dataset struct {
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Vehicles []Vehicle `json:"vehicles"`
	Warnings []string  `json:"warnings,omitempty"`
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Vehicles)
}

// Coordinate is a (longitude, latitude) pair extracted from a vehicle's
// point-geometry string. Coordinates are ephemeral: records without a
// parseable location are excluded from the coordinate set, not from the
// dataset.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}
