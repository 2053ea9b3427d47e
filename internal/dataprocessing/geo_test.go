package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evpulse/pkg/contracts/domain"
)

func TestExtractCoordinates(t *testing.T) {
	vehicles := []domain.Vehicle{
		{Make: "Tesla", Location: "POINT (-122.33 47.60)"},
		{Make: "Nissan", Location: "not a point"},
		{Make: "Ford", Location: ""},
	}

	coords := ExtractCoordinates(vehicles)

	require.Len(t, coords, 1)
	assert.Equal(t, domain.Coordinate{Lon: -122.33, Lat: 47.60}, coords[0])
}

func TestExtractCoordinates_Formats(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     *domain.Coordinate
	}{
		{
			name:     "signed decimals",
			location: "POINT (-122.330 47.606)",
			want:     &domain.Coordinate{Lon: -122.330, Lat: 47.606},
		},
		{
			name:     "positive longitude",
			location: "POINT (13.4 52.5)",
			want:     &domain.Coordinate{Lon: 13.4, Lat: 52.5},
		},
		{
			name:     "integers without decimals",
			location: "POINT (-122 47)",
			want:     &domain.Coordinate{Lon: -122, Lat: 47},
		},
		{
			name:     "missing closing paren still matches",
			location: "POINT (-122.33 47.60",
			want:     &domain.Coordinate{Lon: -122.33, Lat: 47.60},
		},
		{
			name:     "lowercase keyword does not match",
			location: "point (-122.33 47.60)",
			want:     nil,
		},
		{
			name:     "empty string",
			location: "",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coords := ExtractCoordinates([]domain.Vehicle{{Location: tt.location}})
			if tt.want == nil {
				assert.Empty(t, coords)
				return
			}
			require.Len(t, coords, 1)
			assert.Equal(t, *tt.want, coords[0])
		})
	}
}

func TestExtractCoordinates_EmptySetForFallback(t *testing.T) {
	vehicles := []domain.Vehicle{
		{Make: "Tesla", Location: "Seattle, WA"},
		{Make: "Nissan"},
	}

	coords := ExtractCoordinates(vehicles)
	assert.Empty(t, coords)
}
