package service

import (
	"errors"

	"github.com/okian/techrank/internal/adapters/source"
	"github.com/okian/techrank/internal/domain/ranking"
)

// Sentinel kinds for service errors.
var (
	ErrNoLoader = errors.New("no data source configured")
)

// Error codes shared with the HTTP layer.
const (
	CodeSourceUnavailable = "source_unavailable"
	CodeMalformedSource   = "malformed_source"
	CodeInternal          = "internal_error"
)

// ErrorCode classifies a load or normalize failure.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, source.ErrSourceUnavailable), errors.Is(err, ErrNoLoader):
		return CodeSourceUnavailable
	case errors.Is(err, source.ErrMalformedSource), errors.Is(err, source.ErrUnknownFormat), errors.Is(err, ranking.ErrShape),
		errors.Is(err, ranking.ErrDuplicateEntity):
		return CodeMalformedSource
	default:
		return CodeInternal
	}
}
