package http

import (
	"context"
	"io"

	"evpulse/internal/dataprocessing"
	"evpulse/internal/services"
	"evpulse/pkg/contracts/domain"
)

// DataServiceInterface defines the interface for dashboard data operations
type DataServiceInterface interface {
	Summary(ctx context.Context, f services.Filter) (dataprocessing.Summary, error)
	Records(ctx context.Context, f services.Filter, limit int) ([]domain.Vehicle, error)
	YearlyGrowth(ctx context.Context, f services.Filter) (services.YearlyGrowthResult, error)
	TopBreakdown(ctx context.Context, dimension string, n int, f services.Filter) ([]dataprocessing.CategoryCount, error)
	RangeTrend(ctx context.Context, f services.Filter) (services.RangeTrendResult, error)
	Heatmap(ctx context.Context, f services.Filter) (services.HeatmapResult, error)
	FilterOptions(ctx context.Context) (services.FilterOptions, error)
	ReplaceFromUpload(ctx context.Context, r io.Reader, filename string) (*domain.Dataset, error)
}
