package scoring

import "errors"

var (
	// ErrDataUnavailable means a required input (price history) is missing.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInvalidInput means a score or confidence outside [0,100] reached the engine.
	ErrInvalidInput = errors.New("invalid input")
)
