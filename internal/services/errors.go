package services

import "errors"

// Dashboard service errors
var (
	// Data availability errors
	ErrNoDataAvailable = errors.New("no dashboard data available")

	// Parameter errors
	ErrInvalidYear          = errors.New("invalid year parameter")
	ErrInvalidLimit         = errors.New("invalid limit parameter")
	ErrUnknownOperatingUnit = errors.New("operating unit not found")

	// Rebuild errors
	ErrRebuildFailed = errors.New("cache rebuild failed")
)
