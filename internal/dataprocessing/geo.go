package dataprocessing

import (
	"regexp"
	"strconv"

	"evpulse/pkg/contracts/domain"
)

// pointPattern matches the WKT-style point geometry used by the registry's
// location column: "POINT (<longitude> <latitude>)" with optional sign and
// decimals.
var pointPattern = regexp.MustCompile(`POINT \((-?\d+\.?\d*) (-?\d+\.?\d*)`)

// ExtractCoordinates parses each vehicle's raw location string into a
// (lon, lat) pair. Records whose location is absent or does not match the
// point pattern are skipped silently; they remain in the dataset, only the
// coordinate set excludes them. An empty result signals the caller to fall
// back to a non-coordinate geographic view.
func ExtractCoordinates(vehicles []domain.Vehicle) []domain.Coordinate {
	coords := make([]domain.Coordinate, 0, len(vehicles))
	for _, v := range vehicles {
		if v.Location == "" {
			continue
		}
		m := pointPattern.FindStringSubmatch(v.Location)
		if m == nil {
			continue
		}
		lon, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		lat, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		coords = append(coords, domain.Coordinate{Lon: lon, Lat: lat})
	}
	return coords
}
