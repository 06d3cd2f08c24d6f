package api

import "github.com/okian/techrank/pkg/logger"

const (
	defaultMaxUploadBytes = 10 << 20
	defaultMaxJSONBytes   = 32 << 20
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxUploadBytes caps POST /api/normalize bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithRateLimit limits /api/ requests to rps with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = NewRateLimiter(rps, burst)
		}
	}
}

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
