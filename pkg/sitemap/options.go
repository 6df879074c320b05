package sitemap

import (
	"fmt"

	"github.com/boterai/recipecrawl/internal/logger"
	"github.com/boterai/recipecrawl/internal/metrics"
	"github.com/boterai/recipecrawl/internal/ratelimit"
)

// Option is a functional option for configuring the Scanner.
type Option func(*Scanner) error

// WithMaxDepth sets the maximum recursion depth into nested sitemap
// indexes.
func WithMaxDepth(depth int) Option {
	return func(s *Scanner) error {
		if depth < 1 {
			return fmt.Errorf("max depth must be at least 1, got %d", depth)
		}
		s.maxDepth = depth
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Scanner) error {
		if log == nil {
			return fmt.Errorf("logger must not be nil")
		}
		s.log = log
		return nil
	}
}

// WithLimiter sets a politeness limiter applied before every sitemap fetch.
func WithLimiter(limiter *ratelimit.Limiter) Option {
	return func(s *Scanner) error {
		s.limiter = limiter
		return nil
	}
}

// WithMetrics sets a collector that counts fetches, documents, and
// discovered URLs during scans.
func WithMetrics(collector *metrics.Collector) Option {
	return func(s *Scanner) error {
		s.metrics = collector
		return nil
	}
}
