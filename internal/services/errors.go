package services

import "errors"

// Data service errors
var (
	// Dataset errors
	ErrDatasetNotLoaded = errors.New("no dataset loaded")
	ErrNoRecords        = errors.New("no records match the filter")
	ErrNoCoordinates    = errors.New("no coordinates available")

	// Query errors
	ErrUnknownDimension = errors.New("unknown breakdown dimension")
	ErrInvalidFilter    = errors.New("invalid filter")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
