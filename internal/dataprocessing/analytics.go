package dataprocessing

import (
	"math"
	"sort"

	"evpulse/pkg/contracts/domain"
)

// YearlyCount is one row of the adoption-over-time table: the number of
// registrations for a model year plus the percentage change against the
// immediately preceding year present in the series. Growth is nil for the
// earliest year.
type YearlyCount struct {
	Year      int      `json:"year"`
	Count     int      `json:"count"`
	YoYGrowth *float64 `json:"yoy_growth,omitempty"`
}

// GrowthInsights summarizes adoption momentum: the year-over-year change of
// the last complete year and the compound annual growth rate over the
// trailing five-year window. Either metric is absent (nil) when the series
// is too short to support it.
type GrowthInsights struct {
	LatestYoY   *float64 `json:"latest_yoy,omitempty"`
	LatestYear  int      `json:"latest_year,omitempty"`
	CAGR        *float64 `json:"cagr,omitempty"`
	WindowStart int      `json:"window_start,omitempty"`
	WindowEnd   int      `json:"window_end,omitempty"`
}

// RangePoint is one row of a range-trend table: the mean electric range for
// a model year, optionally split by vehicle type.
type RangePoint struct {
	Year     int     `json:"year"`
	EVType   string  `json:"ev_type,omitempty"`
	AvgRange float64 `json:"avg_range"`
}

// CountyCityCount is one row of the regional drill-down: registrations per
// city within a top county.
type CountyCityCount struct {
	County string `json:"county"`
	City   string `json:"city"`
	Count  int    `json:"count"`
}

// YearlyCounts groups registrations by model year in ascending order and
// attaches year-over-year growth. When a calendar year is absent from the
// data, the comparison skips to the next year present in the series.
func YearlyCounts(vehicles []domain.Vehicle) []YearlyCount {
	counts := make(map[int]int)
	for _, v := range vehicles {
		counts[v.ModelYear]++
	}

	years := make([]int, 0, len(counts))
	for year := range counts {
		years = append(years, year)
	}
	sort.Ints(years)

	yearly := make([]YearlyCount, len(years))
	for i, year := range years {
		yearly[i] = YearlyCount{Year: year, Count: counts[year]}
		if i > 0 && yearly[i-1].Count != 0 {
			growth := (float64(yearly[i].Count) - float64(yearly[i-1].Count)) / float64(yearly[i-1].Count) * 100
			yearly[i].YoYGrowth = &growth
		}
	}
	return yearly
}

// Growth derives adoption momentum from a yearly-count series.
//
// The latest year-over-year figure refers to the last complete year (the one
// before the maximum year present), since the newest model year is usually
// still accumulating registrations. The compound annual growth rate covers
// the trailing window of years no more than five before the maximum, and is
// only computed when the window holds at least two distinct years with a
// nonzero starting count; otherwise it is absent.
func Growth(yearly []YearlyCount) GrowthInsights {
	var insights GrowthInsights
	if len(yearly) == 0 {
		return insights
	}

	maxYear := yearly[len(yearly)-1].Year

	for _, y := range yearly {
		if y.Year == maxYear-1 && y.YoYGrowth != nil {
			growth := *y.YoYGrowth
			insights.LatestYoY = &growth
			insights.LatestYear = y.Year
		}
	}

	var window []YearlyCount
	for _, y := range yearly {
		if y.Year >= maxYear-5 {
			window = append(window, y)
		}
	}
	if len(window) < 2 {
		return insights
	}

	first, last := window[0], window[len(window)-1]
	span := last.Year - first.Year
	if span > 0 && first.Count > 0 {
		cagr := (math.Pow(float64(last.Count)/float64(first.Count), 1/float64(span)) - 1) * 100
		insights.CAGR = &cagr
		insights.WindowStart = first.Year
		insights.WindowEnd = last.Year
	}
	return insights
}

// RangeByYear computes the mean electric range per model year, ascending.
// Years whose mean is not positive are dropped: they carry no usable range
// data, only imputed zeros.
func RangeByYear(vehicles []domain.Vehicle) []RangePoint {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, v := range vehicles {
		sums[v.ModelYear] += v.ElectricRange
		counts[v.ModelYear]++
	}

	years := make([]int, 0, len(sums))
	for year := range sums {
		years = append(years, year)
	}
	sort.Ints(years)

	points := make([]RangePoint, 0, len(years))
	for _, year := range years {
		avg := sums[year] / float64(counts[year])
		if avg > 0 {
			points = append(points, RangePoint{Year: year, AvgRange: avg})
		}
	}
	return points
}

// RangeByTypeYear computes the mean electric range per (vehicle type, model
// year) pair, considering only records with a positive range. The result is
// ordered by year then type, suitable for a BEV-versus-PHEV trend
// comparison.
func RangeByTypeYear(vehicles []domain.Vehicle) []RangePoint {
	type key struct {
		year   int
		evType string
	}
	sums := make(map[key]float64)
	counts := make(map[key]int)
	for _, v := range vehicles {
		if v.ElectricRange <= 0 {
			continue
		}
		k := key{year: v.ModelYear, evType: v.EVType}
		sums[k] += v.ElectricRange
		counts[k]++
	}

	keys := make([]key, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].evType < keys[j].evType
	})

	points := make([]RangePoint, len(keys))
	for i, k := range keys {
		points[i] = RangePoint{Year: k.year, EVType: k.evType, AvgRange: sums[k] / float64(counts[k])}
	}
	return points
}

// TopCounts builds a frequency table over the given categorical key,
// truncated to n entries. Ranking order matches the summarizer: descending
// count, ties broken by ascending label.
func TopCounts(vehicles []domain.Vehicle, key func(domain.Vehicle) string, n int) []CategoryCount {
	return truncate(countValues(vehicles, key), n)
}

// CitiesPerCounty returns the top cities within each of the most-registered
// counties, for the regional drill-down view.
func CitiesPerCounty(vehicles []domain.Vehicle, topCounties, citiesPer int) []CountyCityCount {
	counties := truncate(countValues(vehicles, func(v domain.Vehicle) string { return v.County }), topCounties)

	var rows []CountyCityCount
	for _, county := range counties {
		inCounty := make([]domain.Vehicle, 0)
		for _, v := range vehicles {
			if v.County == county.Value {
				inCounty = append(inCounty, v)
			}
		}
		cities := truncate(countValues(inCounty, func(v domain.Vehicle) string { return v.City }), citiesPer)
		for _, city := range cities {
			rows = append(rows, CountyCityCount{County: county.Value, City: city.Value, Count: city.Count})
		}
	}
	return rows
}
