package processor

import "errors"

var (
	// ErrDataUnavailable means the upstream source returned nothing or a
	// referenced column is absent. Fatal: the run cannot continue.
	ErrDataUnavailable = errors.New("indicator data unavailable")

	// ErrInsufficientData means there are no observations to summarize.
	// Individual undefined cells are reported as NaN instead.
	ErrInsufficientData = errors.New("insufficient data")
)
