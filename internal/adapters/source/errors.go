package source

import "errors"

// Sentinel kinds for load failures. Loaders wrap the underlying cause.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrMalformedSource   = errors.New("malformed source")
	ErrUnknownFormat     = errors.New("unknown source format")
)
