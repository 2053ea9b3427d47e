package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"evpulse/internal/dataprocessing"
	"evpulse/internal/infrastructure"
	"evpulse/pkg/contracts/domain"
)

// Filter narrows the dataset before a view is computed. The zero value
// applies no filtering.
type Filter struct {
	YearMin  int      `json:"year_min" validate:"omitempty,gte=1900,lte=2100"`
	YearMax  int      `json:"year_max" validate:"omitempty,gte=1900,lte=2100,gtefield=YearMin"`
	Makes    []string `json:"makes" validate:"omitempty,dive,required"`
	RangeMin float64  `json:"range_min" validate:"omitempty,gte=0"`
	RangeMax float64  `json:"range_max" validate:"omitempty,gte=0,gtefield=RangeMin"`
}

// YearlyGrowthResult pairs the per-year count series with the derived
// momentum metrics.
type YearlyGrowthResult struct {
	Yearly   []dataprocessing.YearlyCount  `json:"yearly"`
	Insights dataprocessing.GrowthInsights `json:"insights"`
}

// RangeTrendResult holds the overall and per-type range trends.
type RangeTrendResult struct {
	Overall []dataprocessing.RangePoint `json:"overall"`
	ByType  []dataprocessing.RangePoint `json:"by_type"`
}

// HeatmapResult holds the geographic views: raw registration coordinates
// for the density map and the city counts within the busiest counties.
type HeatmapResult struct {
	Points []domain.Coordinate              `json:"points"`
	Cities []dataprocessing.CountyCityCount `json:"cities"`
}

// FilterOptions describes the value ranges available for filtering, for
// populating the dashboard's control surface.
type FilterOptions struct {
	YearMin  int      `json:"year_min"`
	YearMax  int      `json:"year_max"`
	Makes    []string `json:"makes"`
	EVTypes  []string `json:"ev_types"`
	RangeMin float64  `json:"range_min"`
	RangeMax float64  `json:"range_max"`
}

// DatasetStatus is a snapshot of the currently loaded dataset for health
// reporting.
type DatasetStatus struct {
	Loaded   bool      `json:"loaded"`
	Source   string    `json:"source,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
	Vehicles int       `json:"vehicles"`
	Warnings []string  `json:"warnings,omitempty"`
}

// DataService owns the loaded dataset and computes all dashboard views
// from it. The dataset is guarded by an RWMutex so concurrent requests can
// read while an upload swaps in a replacement. Every view is recomputed
// per request from the vehicle slice; nothing is cached.
type DataService struct {
	loader     *dataprocessing.Loader
	normalizer *dataprocessing.Normalizer
	summarizer *dataprocessing.Summarizer
	validate   *validator.Validate
	metrics    *infrastructure.Metrics
	logger     *slog.Logger

	mu      sync.RWMutex
	dataset *domain.Dataset
}

// NewDataService creates a data service. Metrics may be nil, in which case
// dataset gauges are not recorded.
func NewDataService(logger *slog.Logger, metrics *infrastructure.Metrics) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		loader:     dataprocessing.NewLoader(logger),
		normalizer: dataprocessing.NewNormalizer(logger),
		summarizer: dataprocessing.NewSummarizer(logger, dataprocessing.DefaultSummarizerConfig()),
		validate:   validator.New(),
		metrics:    metrics,
		logger:     logger,
	}
}

// LoadFromFile loads and normalizes the dataset at path, replacing any
// previously loaded dataset.
func (s *DataService) LoadFromFile(ctx context.Context, path string) error {
	table, err := s.loader.LoadFile(path)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	dataset, err := s.normalizer.Normalize(table, path)
	if err != nil {
		return fmt.Errorf("normalizing dataset: %w", err)
	}

	s.install(ctx, dataset)
	return nil
}

// ReplaceFromUpload normalizes an uploaded file and swaps it in as the
// active dataset. The previous dataset is discarded only after the new one
// normalized successfully.
func (s *DataService) ReplaceFromUpload(ctx context.Context, r io.Reader, filename string) (*domain.Dataset, error) {
	table, err := s.loader.Load(r, filename)
	if err != nil {
		return nil, fmt.Errorf("loading upload: %w", err)
	}

	dataset, err := s.normalizer.Normalize(table, filename)
	if err != nil {
		return nil, fmt.Errorf("normalizing upload: %w", err)
	}

	s.install(ctx, dataset)
	return dataset, nil
}

func (s *DataService) install(ctx context.Context, dataset *domain.Dataset) {
	s.mu.Lock()
	s.dataset = dataset
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveDataset(dataset.Len(), len(dataset.Warnings))
	}
	s.logger.InfoContext(ctx, "dataset installed",
		slog.String("source", dataset.Source),
		slog.Int("vehicles", dataset.Len()),
		slog.Int("warnings", len(dataset.Warnings)))
}

// Status returns a snapshot of the loaded dataset for health reporting.
func (s *DataService) Status() DatasetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return DatasetStatus{}
	}
	return DatasetStatus{
		Loaded:   true,
		Source:   s.dataset.Source,
		LoadedAt: s.dataset.LoadedAt,
		Vehicles: s.dataset.Len(),
		Warnings: s.dataset.Warnings,
	}
}

// Summary computes the dataset summary over the filtered records.
func (s *DataService) Summary(ctx context.Context, f Filter) (dataprocessing.Summary, error) {
	vehicles, err := s.filtered(f)
	if err != nil {
		return dataprocessing.Summary{}, err
	}
	return s.summarizer.Summarize(ctx, vehicles), nil
}

// Records returns the filtered records, capped at limit when limit is
// positive.
func (s *DataService) Records(ctx context.Context, f Filter, limit int) ([]domain.Vehicle, error) {
	vehicles, err := s.filtered(f)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return nil, ErrNoRecords
	}
	if limit > 0 && len(vehicles) > limit {
		vehicles = vehicles[:limit]
	}
	return vehicles, nil
}

// YearlyGrowth computes the adoption-over-time series and its derived
// momentum metrics.
func (s *DataService) YearlyGrowth(ctx context.Context, f Filter) (YearlyGrowthResult, error) {
	vehicles, err := s.filtered(f)
	if err != nil {
		return YearlyGrowthResult{}, err
	}

	yearly := dataprocessing.YearlyCounts(vehicles)
	return YearlyGrowthResult{
		Yearly:   yearly,
		Insights: dataprocessing.Growth(yearly),
	}, nil
}

// TopBreakdown returns the n most frequent values of the named dimension.
func (s *DataService) TopBreakdown(ctx context.Context, dimension string, n int, f Filter) ([]dataprocessing.CategoryCount, error) {
	key, ok := dimensionKey(dimension)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, dimension)
	}

	vehicles, err := s.filtered(f)
	if err != nil {
		return nil, err
	}
	return dataprocessing.TopCounts(vehicles, key, n), nil
}

// Dimensions supported by TopBreakdown.
func dimensionKey(dimension string) (func(domain.Vehicle) string, bool) {
	switch dimension {
	case "make":
		return func(v domain.Vehicle) string { return v.Make }, true
	case "model":
		return func(v domain.Vehicle) string { return v.Model }, true
	case "county":
		return func(v domain.Vehicle) string { return v.County }, true
	case "city":
		return func(v domain.Vehicle) string { return v.City }, true
	case "state":
		return func(v domain.Vehicle) string { return v.State }, true
	case "ev-type", "ev_type":
		return func(v domain.Vehicle) string { return v.EVType }, true
	case "cafv":
		return func(v domain.Vehicle) string { return v.CAFVEligibility }, true
	default:
		return nil, false
	}
}

// RangeTrend computes the electric-range trend by model year, overall and
// split by vehicle type.
func (s *DataService) RangeTrend(ctx context.Context, f Filter) (RangeTrendResult, error) {
	vehicles, err := s.filtered(f)
	if err != nil {
		return RangeTrendResult{}, err
	}
	return RangeTrendResult{
		Overall: dataprocessing.RangeByYear(vehicles),
		ByType:  dataprocessing.RangeByTypeYear(vehicles),
	}, nil
}

// Heatmap extracts registration coordinates and the city counts within the
// busiest counties. Returns ErrNoCoordinates when no record carries a
// parseable location.
func (s *DataService) Heatmap(ctx context.Context, f Filter) (HeatmapResult, error) {
	vehicles, err := s.filtered(f)
	if err != nil {
		return HeatmapResult{}, err
	}

	points := dataprocessing.ExtractCoordinates(vehicles)
	if len(points) == 0 {
		return HeatmapResult{}, ErrNoCoordinates
	}
	return HeatmapResult{
		Points: points,
		Cities: dataprocessing.CitiesPerCounty(vehicles, 5, 5),
	}, nil
}

// FilterOptions reports the value ranges present in the dataset, for the
// dashboard's filter controls.
func (s *DataService) FilterOptions(ctx context.Context) (FilterOptions, error) {
	vehicles, err := s.snapshot()
	if err != nil {
		return FilterOptions{}, err
	}

	opts := FilterOptions{}
	makes := make(map[string]struct{})
	evTypes := make(map[string]struct{})
	for i, v := range vehicles {
		if i == 0 {
			opts.YearMin, opts.YearMax = v.ModelYear, v.ModelYear
			opts.RangeMin, opts.RangeMax = v.ElectricRange, v.ElectricRange
		}
		if v.ModelYear < opts.YearMin {
			opts.YearMin = v.ModelYear
		}
		if v.ModelYear > opts.YearMax {
			opts.YearMax = v.ModelYear
		}
		if v.ElectricRange < opts.RangeMin {
			opts.RangeMin = v.ElectricRange
		}
		if v.ElectricRange > opts.RangeMax {
			opts.RangeMax = v.ElectricRange
		}
		makes[v.Make] = struct{}{}
		evTypes[v.EVType] = struct{}{}
	}

	opts.Makes = sortedKeys(makes)
	opts.EVTypes = sortedKeys(evTypes)
	return opts, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// snapshot returns the current vehicle slice under the read lock.
func (s *DataService) snapshot() ([]domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	return s.dataset.Vehicles, nil
}

// filtered validates the filter and applies it to the current dataset.
func (s *DataService) filtered(f Filter) ([]domain.Vehicle, error) {
	if err := s.validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	vehicles, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	makeSet := make(map[string]struct{}, len(f.Makes))
	for _, m := range f.Makes {
		makeSet[m] = struct{}{}
	}

	out := make([]domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if f.YearMin != 0 && v.ModelYear < f.YearMin {
			continue
		}
		if f.YearMax != 0 && v.ModelYear > f.YearMax {
			continue
		}
		if len(makeSet) > 0 {
			if _, ok := makeSet[v.Make]; !ok {
				continue
			}
		}
		if f.RangeMin != 0 && v.ElectricRange < f.RangeMin {
			continue
		}
		if f.RangeMax != 0 && v.ElectricRange > f.RangeMax {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
