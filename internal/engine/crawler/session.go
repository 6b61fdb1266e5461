package crawler

import (
	"go.trai.ch/mutuals/internal/core/ports"
)

// Session is the state shared by every phase of one crawl: the remote source
// and the relationship cache in front of it. It lives for exactly one run.
type Session struct {
	Source ports.RelationshipSource
	Cache  *Cache

	Tracer   ports.Tracer
	Progress ports.Progress
	Logger   ports.Logger
	Metrics  ports.Metrics
}

// NewSession creates a new Session with an empty cache over source.
func NewSession(
	source ports.RelationshipSource,
	tracer ports.Tracer,
	progress ports.Progress,
	logger ports.Logger,
	metrics ports.Metrics,
) *Session {
	fetcher := NewFetcher(source, tracer, progress, logger)
	return &Session{
		Source:   source,
		Cache:    NewCache(fetcher, metrics, progress),
		Tracer:   tracer,
		Progress: progress,
		Logger:   logger,
		Metrics:  metrics,
	}
}
