package crawler

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/zerr"
)

// CrawlResult is the outcome of one crawl.
type CrawlResult struct {
	Graph      *domain.SocialGraph
	Root       domain.AccountID
	Mutuals    []domain.AccountID
	Enrich     EnrichReport
	Detect     DetectReport
	CacheStats CacheStats
}

// Crawler drives the full crawl of one account's mutual neighborhood.
type Crawler struct {
	session  *Session
	resolver *Resolver
	enricher *Enricher
	detector *Detector
}

// NewCrawler creates a new Crawler over session.
func NewCrawler(session *Session, cfg domain.CrawlConfig) *Crawler {
	return &Crawler{
		session:  session,
		resolver: NewResolver(session),
		enricher: NewEnricher(session, cfg.Workers),
		detector: NewDetector(session, DetectOptions{
			Prefetch:        cfg.Prefetch,
			PrefetchWorkers: cfg.Workers,
			Workers:         cfg.DetectWorkers,
		}),
	}
}

// Crawl resolves handle, builds the mutual graph around it and returns it.
//
// Resolution failures, a failed root relationship fetch and an unavailable
// service abort the crawl with a nil result. Enrichment and detection
// failures are local: the graph is still returned alongside a joined error.
func (c *Crawler) Crawl(ctx context.Context, handle string) (*CrawlResult, error) {
	if handle == "" {
		return nil, domain.ErrNoHandleSpecified
	}

	ctx, span := c.session.Tracer.Start(ctx, "crawl")
	defer span.End()

	root, err := c.session.Source.ResolveHandle(ctx, handle)
	if err != nil {
		err = errors.Join(domain.ErrHandleResolutionFailed, zerr.With(err, "handle", handle))
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("root", root.String())

	graph := domain.NewSocialGraph()
	if err := graph.SetRoot(root, c.rootLabel(ctx, root)); err != nil {
		return nil, err
	}

	mutuals, err := c.resolver.ResolveMutuals(ctx, root)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	c.session.Logger.Info(fmt.Sprintf("found %d mutuals for %s.", len(mutuals), handle))

	result := &CrawlResult{
		Graph:   graph,
		Root:    root,
		Mutuals: mutuals,
	}

	result.Enrich = c.enricher.Enrich(ctx, graph, root, mutuals)
	if err := fatal(result.Enrich.Err()); err != nil {
		span.RecordError(err)
		return nil, err
	}

	report, detectErr := c.detector.Detect(ctx, graph, mutuals)
	result.Detect = report
	if err := fatal(detectErr); err != nil {
		span.RecordError(err)
		return nil, err
	}

	result.CacheStats = c.session.Cache.Stats()
	span.SetAttribute("nodes", graph.NodeCount())
	span.SetAttribute("edges", graph.EdgeCount())

	if err := errors.Join(result.Enrich.Err(), detectErr); err != nil {
		span.RecordError(err)
		return result, err
	}
	return result, nil
}

// rootLabel returns the root's display name. Failing to get it is not fatal.
func (c *Crawler) rootLabel(ctx context.Context, root domain.AccountID) string {
	profile, err := c.session.Source.GetProfile(ctx, root)
	if err != nil {
		c.session.Logger.Warn(fmt.Sprintf("could not fetch profile of %s, using identifier as label: %v", root, err))
		return root.String()
	}
	return profile.Label()
}

// fatal returns err if it reports the remote service as unavailable or the
// crawl as canceled; per-account failures return nil.
func fatal(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrServiceUnavailable):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return nil
	}
}
