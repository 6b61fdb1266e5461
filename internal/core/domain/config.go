package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// Render formats understood by the renderer adapter.
const (
	FormatText = "text"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

const (
	// DefaultServiceHost is the public AT Protocol entryway.
	DefaultServiceHost = "https://bsky.social"
	// ConfigFileName is the config file picked up from the working directory.
	ConfigFileName = "mutuals.yaml"
)

// Config is the resolved configuration of one crawl run.
type Config struct {
	Service ServiceConfig
	Auth    AuthConfig
	Crawl   CrawlConfig
	Render  RenderConfig
}

// ServiceConfig configures the remote relationship service transport.
type ServiceConfig struct {
	Host              string
	Timeout           time.Duration
	PageSize          int
	RequestsPerSecond float64
	Burst             int
	Breaker           BreakerConfig
}

// BreakerConfig configures when the remote service is considered unavailable.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// Cooldown is how long the breaker stays open before probing again.
	Cooldown time.Duration
}

// AuthConfig holds the session credentials.
type AuthConfig struct {
	Identifier string
	Password   string
}

// CrawlConfig tunes the crawler engine.
type CrawlConfig struct {
	// Workers bounds the number of concurrent enrichment and prefetch tasks.
	// More workers raise throughput until the service rate limit is reached.
	Workers int
	// Prefetch loads every mutual's following list before pairwise detection.
	Prefetch bool
	// DetectWorkers bounds concurrent pair evaluation. 1 evaluates sequentially.
	DetectWorkers int
}

// RenderConfig controls how the finished graph is written.
type RenderConfig struct {
	Format       string
	MinIntensity float64
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Host:              DefaultServiceHost,
			Timeout:           30 * time.Second,
			PageSize:          100,
			RequestsPerSecond: 10,
			Burst:             10,
			Breaker: BreakerConfig{
				MaxFailures: 5,
				Cooldown:    30 * time.Second,
			},
		},
		Crawl: CrawlConfig{
			Workers:       8,
			Prefetch:      true,
			DetectWorkers: 1,
		},
		Render: RenderConfig{
			Format:       FormatText,
			MinIntensity: 0.3,
		},
	}
}

// Validate checks that every value is in range.
func (c *Config) Validate() error {
	switch {
	case c.Service.Host == "":
		return zerr.With(ErrInvalidConfig, "key", "service.host")
	case c.Service.PageSize < 1 || c.Service.PageSize > 100:
		return zerr.With(ErrInvalidConfig, "key", "service.page_size")
	case c.Service.Timeout <= 0:
		return zerr.With(ErrInvalidConfig, "key", "service.timeout")
	case c.Service.RequestsPerSecond <= 0:
		return zerr.With(ErrInvalidConfig, "key", "service.requests_per_second")
	case c.Service.Burst < 1:
		return zerr.With(ErrInvalidConfig, "key", "service.burst")
	case c.Service.Breaker.MaxFailures < 1:
		return zerr.With(ErrInvalidConfig, "key", "service.breaker.max_failures")
	case c.Crawl.Workers < 1:
		return zerr.With(ErrInvalidConfig, "key", "crawl.workers")
	case c.Crawl.DetectWorkers < 1:
		return zerr.With(ErrInvalidConfig, "key", "crawl.detect_workers")
	case c.Render.MinIntensity < 0 || c.Render.MinIntensity > 1:
		return zerr.With(ErrInvalidConfig, "key", "render.min_intensity")
	}

	switch c.Render.Format {
	case FormatText, FormatDOT, FormatJSON:
		return nil
	default:
		return zerr.With(ErrUnsupportedFormat, "format", c.Render.Format)
	}
}
