package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"evpulse/pkg/contracts/domain"
)

// Summarizer computes descriptive summary statistics over a normalized
// vehicle table. It is deterministic and idempotent: summarizing the same
// table twice yields identical output, and degenerate tables (empty, single
// record, single year) omit inapplicable metrics instead of failing.
type Summarizer struct {
	logger *slog.Logger
	topN   int
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	TopN int // Number of entries kept in geographic breakdowns
}

// DefaultSummarizerConfig returns the configuration used by the dashboard.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{TopN: 5}
}

// NewSummarizer creates a new summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopN <= 0 {
		config.TopN = 5
	}
	return &Summarizer{logger: logger, topN: config.TopN}
}

// CategoryCount is one entry of a frequency-ranked breakdown.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary holds the derived statistics for a vehicle table. Metrics that do
// not apply to the table at hand (an empty table has no mean range, a
// single-state table has no state breakdown) are omitted from the JSON
// encoding rather than zeroed.
type Summary struct {
	TotalEVs            int             `json:"total_evs"`
	UniqueMakes         int             `json:"unique_makes"`
	UniqueModels        int             `json:"unique_models"`
	AvgElectricRange    *float64        `json:"avg_electric_range,omitempty"`
	MostCommonMake      string          `json:"most_common_make,omitempty"`
	MostCommonMakeCount int             `json:"most_common_make_count,omitempty"`
	MinYear             *int            `json:"min_year,omitempty"`
	MaxYear             *int            `json:"max_year,omitempty"`
	MedianYear          *float64        `json:"median_year,omitempty"`
	EVTypeDistribution  []CategoryCount `json:"ev_type_distribution,omitempty"`
	CAFVDistribution    []CategoryCount `json:"cafv_eligibility_distribution,omitempty"`
	TopCounties         []CategoryCount `json:"top_counties,omitempty"`
	TopCities           []CategoryCount `json:"top_cities,omitempty"`
	TopStates           []CategoryCount `json:"top_states,omitempty"`
}

// Summarize computes the summary statistics for the given table. The input
// is never mutated.
func (s *Summarizer) Summarize(ctx context.Context, vehicles []domain.Vehicle) Summary {
	summary := Summary{TotalEVs: len(vehicles)}
	if len(vehicles) == 0 {
		return summary
	}

	summary.UniqueMakes = countDistinct(vehicles, func(v domain.Vehicle) string { return v.Make })
	summary.UniqueModels = countDistinct(vehicles, func(v domain.Vehicle) string { return v.Model })

	ranges := make([]float64, len(vehicles))
	years := make([]float64, len(vehicles))
	for i, v := range vehicles {
		ranges[i] = v.ElectricRange
		years[i] = float64(v.ModelYear)
	}
	if avg, ok := mean(ranges); ok {
		summary.AvgElectricRange = &avg
	}

	makes := countValues(vehicles, func(v domain.Vehicle) string { return v.Make })
	summary.MostCommonMake = makes[0].Value
	summary.MostCommonMakeCount = makes[0].Count

	minYear, maxYear := vehicles[0].ModelYear, vehicles[0].ModelYear
	for _, v := range vehicles[1:] {
		if v.ModelYear < minYear {
			minYear = v.ModelYear
		}
		if v.ModelYear > maxYear {
			maxYear = v.ModelYear
		}
	}
	summary.MinYear = &minYear
	summary.MaxYear = &maxYear
	if med, ok := median(years); ok {
		summary.MedianYear = &med
	}

	summary.EVTypeDistribution = countValues(vehicles, func(v domain.Vehicle) string { return v.EVType })
	summary.CAFVDistribution = countValues(vehicles, func(v domain.Vehicle) string { return v.CAFVEligibility })
	summary.TopCounties = truncate(countValues(vehicles, func(v domain.Vehicle) string { return v.County }), s.topN)
	summary.TopCities = truncate(countValues(vehicles, func(v domain.Vehicle) string { return v.City }), s.topN)

	// A single-state dataset carries no information in a state breakdown.
	states := countValues(vehicles, func(v domain.Vehicle) string { return v.State })
	if len(states) > 1 {
		summary.TopStates = truncate(states, s.topN)
	}

	s.logger.DebugContext(ctx, "computed summary statistics",
		slog.Int("total_evs", summary.TotalEVs),
		slog.Int("unique_makes", summary.UniqueMakes))

	return summary
}

// countValues builds a frequency table ordered by descending count, with
// ties broken by ascending label so rankings are deterministic regardless of
// source row order.
func countValues(vehicles []domain.Vehicle, key func(domain.Vehicle) string) []CategoryCount {
	counts := make(map[string]int)
	for _, v := range vehicles {
		counts[key(v)]++
	}

	ranked := make([]CategoryCount, 0, len(counts))
	for value, count := range counts {
		ranked = append(ranked, CategoryCount{Value: value, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Value < ranked[j].Value
	})
	return ranked
}

func countDistinct(vehicles []domain.Vehicle, key func(domain.Vehicle) string) int {
	seen := make(map[string]struct{})
	for _, v := range vehicles {
		seen[key(v)] = struct{}{}
	}
	return len(seen)
}

func truncate(counts []CategoryCount, n int) []CategoryCount {
	if len(counts) > n {
		return counts[:n]
	}
	return counts
}
