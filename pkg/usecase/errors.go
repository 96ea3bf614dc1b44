package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrPairNotFound = errors.New("duplicate pair not found")
	ErrCaseNotFound = errors.New("case not found")

	// Validation errors
	ErrInvalidThreshold  = errors.New("invalid detection threshold")
	ErrInvalidResolution = errors.New("invalid resolution request")

	// Dependency errors
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// Context keys for error values
const (
	ThresholdKey  = "threshold"
	ResolvedByKey = "resolved_by"
	DetectedByKey = "detected_by"
)
