package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "evpulse/internal/errors"
	"evpulse/internal/services"
)

const (
	defaultRecordLimit = 100
	maxRecordLimit     = 10000
	defaultTopN        = 5
	maxTopN            = 50
)

// DataHandler handles the dashboard data endpoints
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxUpload    int64
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUpload int64) *DataHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
		maxUpload:    maxUpload,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/records", h.GetRecords)
	r.Get("/yearly-growth", h.GetYearlyGrowth)
	r.Get("/range-trend", h.GetRangeTrend)
	r.Get("/heatmap", h.GetHeatmap)
	r.Get("/filters", h.GetFilterOptions)

	r.Route("/top/{dimension}", func(r chi.Router) {
		r.Use(h.DimensionCtx)
		r.Get("/", h.GetTopBreakdown)
	})

	r.Post("/dataset", h.UploadDataset)

	return r
}

// DimensionCtx middleware validates the dimension parameter
func (h *DataHandler) DimensionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "dimension") == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("dimension", "Breakdown dimension is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSummary handles GET /api/data/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
		"count":  summary.TotalEVs,
	})
}

// GetRecords handles GET /api/data/records
func (h *DataHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, err := filterFromQuery(query)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	limit, err := intParam(query, "limit", defaultRecordLimit, maxRecordLimit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records, err := h.service.Records(r.Context(), filter, limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   records,
		"count":  len(records),
	})
}

// GetYearlyGrowth handles GET /api/data/yearly-growth
func (h *DataHandler) GetYearlyGrowth(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.YearlyGrowth(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
		"count":  len(result.Yearly),
	})
}

// GetTopBreakdown handles GET /api/data/top/{dimension}
func (h *DataHandler) GetTopBreakdown(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	dimension := chi.URLParam(r, "dimension")

	filter, err := filterFromQuery(query)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	n, err := intParam(query, "n", defaultTopN, maxTopN)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	counts, err := h.service.TopBreakdown(r.Context(), dimension, n, filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   counts,
		"count":  len(counts),
	})
}

// GetRangeTrend handles GET /api/data/range-trend
func (h *DataHandler) GetRangeTrend(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.RangeTrend(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
		"count":  len(result.Overall),
	})
}

// GetHeatmap handles GET /api/data/heatmap
func (h *DataHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Heatmap(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
		"count":  len(result.Points),
	})
}

// GetFilterOptions handles GET /api/data/filters
func (h *DataHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.FilterOptions(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   opts,
	})
}

// UploadDataset handles POST /api/data/dataset. The request is a multipart
// form with the dataset under the "file" field.
func (h *DataHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "A dataset file is required"))
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "dataset upload received",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
	)

	dataset, err := h.service.ReplaceFromUpload(r.Context(), file, header.Filename)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dataset upload failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, apierrors.DatasetLoadError(err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"source":   dataset.Source,
			"vehicles": dataset.Len(),
			"warnings": dataset.Warnings,
		},
		"count": dataset.Len(),
	})
}

// handleServiceError maps service sentinel errors to API errors
func (h *DataHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "data request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
	)

	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotLoaded)
	case errors.Is(err, services.ErrNoRecords):
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusNotFound,
			"NO_RECORDS_FOUND",
			"No records match the requested filter",
		))
	case errors.Is(err, services.ErrNoCoordinates):
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusNotFound,
			"NO_COORDINATES_FOUND",
			"No records carry a parseable location",
		))
	case errors.Is(err, services.ErrUnknownDimension):
		h.errorHandler.HandleError(w, r, apierrors.ErrDimensionNotFound)
	case errors.Is(err, services.ErrInvalidFilter):
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// filterFromQuery parses the shared filter query parameters
func filterFromQuery(query url.Values) (services.Filter, error) {
	var filter services.Filter

	var err error
	if filter.YearMin, err = intParam(query, "year_min", 0, 0); err != nil {
		return filter, err
	}
	if filter.YearMax, err = intParam(query, "year_max", 0, 0); err != nil {
		return filter, err
	}
	if filter.RangeMin, err = floatParam(query, "range_min"); err != nil {
		return filter, err
	}
	if filter.RangeMax, err = floatParam(query, "range_max"); err != nil {
		return filter, err
	}

	if raw := query.Get("makes"); raw != "" {
		for _, m := range strings.Split(raw, ",") {
			if m = strings.TrimSpace(m); m != "" {
				filter.Makes = append(filter.Makes, m)
			}
		}
	}

	return filter, nil
}

// intParam parses an integer query parameter, returning fallback when the
// parameter is absent. A positive max caps the value.
func intParam(query url.Values, name string, fallback, max int) (int, error) {
	raw := query.Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.ErrValidation(name, fmt.Sprintf("must be an integer, got %q", raw))
	}
	if value < 0 {
		return 0, apierrors.ErrValidation(name, "must not be negative")
	}
	if max > 0 && value > max {
		value = max
	}
	return value, nil
}

// floatParam parses a float query parameter, zero when absent.
func floatParam(query url.Values, name string) (float64, error) {
	raw := query.Get(name)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apierrors.ErrValidation(name, fmt.Sprintf("must be a number, got %q", raw))
	}
	return value, nil
}
