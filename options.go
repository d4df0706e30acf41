package duprank

import (
	"go.uber.org/zap"

	"github.com/garagon/duprank/internal/pipeline"
)

// rankConfig holds the resolved configuration for a ranking run.
type rankConfig struct {
	prefixMarker string
	workers      int
	cacheSize    int
	logger       *zap.Logger
	view         pipeline.View
}

// Option configures a ranking run.
type Option func(*rankConfig)

// WithPrefixMarker overrides DefaultPrefixMarker.
func WithPrefixMarker(marker string) Option {
	return func(c *rankConfig) {
		c.prefixMarker = marker
	}
}

// WithWorkers counts lines with n goroutines. 0 or 1 counts sequentially,
// a negative value uses NumCPU. Output order is the same either way.
func WithWorkers(n int) Option {
	return func(c *rankConfig) {
		c.workers = n
	}
}

// WithCacheSize bounds the number of line counts remembered within a run.
func WithCacheSize(n int) Option {
	return func(c *rankConfig) {
		c.cacheSize = n
	}
}

// WithLogger receives stage diagnostics. The default discards them.
func WithLogger(l *zap.Logger) Option {
	return func(c *rankConfig) {
		c.logger = l
	}
}

// WithOrder sets the order of the returned ratios (default OrderAsc).
func WithOrder(o Order) Option {
	return func(c *rankConfig) {
		c.view.Order = o
	}
}

// WithMinRatio drops pairs whose larger ratio is below threshold.
func WithMinRatio(threshold float64) Option {
	return func(c *rankConfig) {
		c.view.MinRatio = threshold
	}
}

// WithIgnorePatterns drops pairs where either path matches one of the
// doublestar patterns. Malformed patterns never match.
func WithIgnorePatterns(patterns []string) Option {
	return func(c *rankConfig) {
		c.view.Ignore = patterns
	}
}

func applyOpts(opts []Option) *rankConfig {
	cfg := &rankConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}
