package analytics

import "errors"

var (
	// ErrUnknownPeriod is returned together with the full-history fallback range.
	ErrUnknownPeriod = errors.New("unknown period")
	ErrInvalidRange  = errors.New("end_date must not be before start_date")
	ErrMissingRange  = errors.New("custom period requires start_date and end_date")
)
