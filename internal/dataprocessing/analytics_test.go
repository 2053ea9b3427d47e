package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evpulse/pkg/contracts/domain"
)

func vehiclesForYears(yearCounts map[int]int) []domain.Vehicle {
	var vehicles []domain.Vehicle
	years := make([]int, 0, len(yearCounts))
	for year := range yearCounts {
		years = append(years, year)
	}
	// Deterministic construction order keeps failures readable.
	for i := 0; i < len(years); i++ {
		for j := i + 1; j < len(years); j++ {
			if years[j] < years[i] {
				years[i], years[j] = years[j], years[i]
			}
		}
	}
	for _, year := range years {
		for i := 0; i < yearCounts[year]; i++ {
			vehicles = append(vehicles, domain.Vehicle{Make: "Tesla", Model: "Model 3", ModelYear: year})
		}
	}
	return vehicles
}

func TestYearlyCounts(t *testing.T) {
	vehicles := vehiclesForYears(map[int]int{2019: 10, 2020: 15, 2022: 30})

	yearly := YearlyCounts(vehicles)

	require.Len(t, yearly, 3)
	assert.Equal(t, 2019, yearly[0].Year)
	assert.Equal(t, 10, yearly[0].Count)
	assert.Nil(t, yearly[0].YoYGrowth)

	require.NotNil(t, yearly[1].YoYGrowth)
	assert.InDelta(t, 50.0, *yearly[1].YoYGrowth, 0.001)

	// 2021 is absent; 2022 compares against 2020, the previous year present
	// in the series.
	require.NotNil(t, yearly[2].YoYGrowth)
	assert.InDelta(t, 100.0, *yearly[2].YoYGrowth, 0.001)
}

func TestGrowth_CAGR(t *testing.T) {
	vehicles := vehiclesForYears(map[int]int{2019: 100, 2020: 150, 2021: 200, 2022: 300, 2023: 400})

	insights := Growth(YearlyCounts(vehicles))

	require.NotNil(t, insights.CAGR)
	wantCAGR := (math.Pow(400.0/100.0, 1.0/4.0) - 1) * 100
	assert.InDelta(t, wantCAGR, *insights.CAGR, 0.001)
	assert.Equal(t, 2019, insights.WindowStart)
	assert.Equal(t, 2023, insights.WindowEnd)

	// Latest YoY refers to the last complete year, 2022.
	require.NotNil(t, insights.LatestYoY)
	assert.Equal(t, 2022, insights.LatestYear)
	assert.InDelta(t, 50.0, *insights.LatestYoY, 0.001)
}

func TestGrowth_CAGROmittedForSingleYear(t *testing.T) {
	vehicles := vehiclesForYears(map[int]int{2021: 50})

	insights := Growth(YearlyCounts(vehicles))

	assert.Nil(t, insights.CAGR)
	assert.Nil(t, insights.LatestYoY)
}

func TestGrowth_CAGRWindowTrailsMaxYear(t *testing.T) {
	// Years 2010 and 2012 fall outside the trailing window of 2023; only
	// 2019..2023 participate.
	vehicles := vehiclesForYears(map[int]int{2010: 1, 2012: 2, 2019: 100, 2023: 200})

	insights := Growth(YearlyCounts(vehicles))

	require.NotNil(t, insights.CAGR)
	assert.Equal(t, 2019, insights.WindowStart)
	assert.Equal(t, 2023, insights.WindowEnd)
	wantCAGR := (math.Pow(2.0, 1.0/4.0) - 1) * 100
	assert.InDelta(t, wantCAGR, *insights.CAGR, 0.001)
}

func TestGrowth_CAGROmittedForZeroStart(t *testing.T) {
	yearly := []YearlyCount{
		{Year: 2022, Count: 0},
		{Year: 2023, Count: 10},
	}

	insights := Growth(yearly)
	assert.Nil(t, insights.CAGR)
}

func TestGrowth_EmptySeries(t *testing.T) {
	insights := Growth(nil)
	assert.Nil(t, insights.CAGR)
	assert.Nil(t, insights.LatestYoY)
}

func TestRangeByYear(t *testing.T) {
	vehicles := []domain.Vehicle{
		{Make: "Tesla", Model: "Model 3", ModelYear: 2020, ElectricRange: 250},
		{Make: "Tesla", Model: "Model Y", ModelYear: 2020, ElectricRange: 300},
		{Make: "Fiat", Model: "500e", ModelYear: 2019, ElectricRange: 0},
	}

	points := RangeByYear(vehicles)

	// 2019 has only a zero mean and is dropped.
	require.Len(t, points, 1)
	assert.Equal(t, 2020, points[0].Year)
	assert.InDelta(t, 275.0, points[0].AvgRange, 0.001)
}

func TestRangeByTypeYear(t *testing.T) {
	vehicles := []domain.Vehicle{
		{ModelYear: 2020, EVType: domain.EVTypeBEV, ElectricRange: 250},
		{ModelYear: 2020, EVType: domain.EVTypeBEV, ElectricRange: 350},
		{ModelYear: 2020, EVType: domain.EVTypePHEV, ElectricRange: 30},
		{ModelYear: 2021, EVType: domain.EVTypeBEV, ElectricRange: 280},
		{ModelYear: 2021, EVType: domain.EVTypePHEV, ElectricRange: 0}, // excluded
	}

	points := RangeByTypeYear(vehicles)

	require.Len(t, points, 3)
	assert.Equal(t, RangePoint{Year: 2020, EVType: domain.EVTypeBEV, AvgRange: 300}, points[0])
	assert.Equal(t, RangePoint{Year: 2020, EVType: domain.EVTypePHEV, AvgRange: 30}, points[1])
	assert.Equal(t, RangePoint{Year: 2021, EVType: domain.EVTypeBEV, AvgRange: 280}, points[2])
}

func TestTopCounts(t *testing.T) {
	vehicles := []domain.Vehicle{
		{County: "King"}, {County: "King"}, {County: "King"},
		{County: "Pierce"}, {County: "Pierce"},
		{County: "Snohomish"},
	}

	top := TopCounts(vehicles, func(v domain.Vehicle) string { return v.County }, 2)

	require.Len(t, top, 2)
	assert.Equal(t, CategoryCount{Value: "King", Count: 3}, top[0])
	assert.Equal(t, CategoryCount{Value: "Pierce", Count: 2}, top[1])
}

func TestCitiesPerCounty(t *testing.T) {
	vehicles := []domain.Vehicle{
		{County: "King", City: "Seattle"},
		{County: "King", City: "Seattle"},
		{County: "King", City: "Bellevue"},
		{County: "Pierce", City: "Tacoma"},
		{County: "Snohomish", City: "Everett"},
	}

	rows := CitiesPerCounty(vehicles, 2, 3)

	// King (3) and Pierce (1)... Snohomish ties Pierce at 1 and loses the
	// lexicographic tie-break.
	require.Len(t, rows, 3)
	assert.Equal(t, CountyCityCount{County: "King", City: "Seattle", Count: 2}, rows[0])
	assert.Equal(t, CountyCityCount{County: "King", City: "Bellevue", Count: 1}, rows[1])
	assert.Equal(t, CountyCityCount{County: "Pierce", City: "Tacoma", Count: 1}, rows[2])
}
