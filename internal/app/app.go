// Package app implements the application layer for mutuals.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	progress "go.trai.ch/mutuals/internal/adapters/telemetry/progrock"
	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/core/ports"
	"go.trai.ch/mutuals/internal/engine/crawler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	metrics      ports.Metrics
	tracer       ports.Tracer
	progress     ports.Progress
	services     ports.RemoteServiceFactory
	renderers    ports.RendererFactory
	prompter     Prompter
	stdout       io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	metrics ports.Metrics,
	tracer ports.Tracer,
	prog ports.Progress,
	services ports.RemoteServiceFactory,
	renderers ports.RendererFactory,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		metrics:      metrics,
		tracer:       tracer,
		progress:     prog,
		services:     services,
		renderers:    renderers,
		prompter:     NewTermPrompter(os.Stdin, os.Stderr),
		stdout:       os.Stdout,
	}
}

// WithPrompter replaces the interactive credential prompt.
func (a *App) WithPrompter(p Prompter) *App {
	a.prompter = p
	return a
}

// WithStdout redirects the rendered graph when no output file is set.
func (a *App) WithStdout(w io.Writer) *App {
	a.stdout = w
	return a
}

// RunOptions carries the command-line overrides of one crawl.
type RunOptions struct {
	ConfigPath  string
	Workers     int
	Format      string
	NoPrefetch  bool
	JSON        bool
	MetricsFile string
	Output      string
}

func (o RunOptions) apply(cfg *domain.Config) {
	if o.Workers > 0 {
		cfg.Crawl.Workers = o.Workers
	}
	if o.Format != "" {
		cfg.Render.Format = o.Format
	}
	if o.NoPrefetch {
		cfg.Crawl.Prefetch = false
	}
}

// Crawl builds and renders the mutual graph around handle.
//
// A graph is rendered whenever the crawl produced one, even when some
// enrichment or detection lookups failed; those failures are returned
// afterwards so the process still exits non-zero.
//
//nolint:cyclop // orchestration function
func (a *App) Crawl(ctx context.Context, handle string, opts RunOptions) error {
	if opts.JSON {
		if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
			l.SetJSON(true)
		}
	}

	// 1. Load and validate the configuration
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if handle == "" {
		return domain.ErrNoHandleSpecified
	}

	renderer, err := a.renderers(cfg.Render)
	if err != nil {
		return err
	}

	// 2. Authenticate
	if err := a.ensureCredentials(&cfg.Auth); err != nil {
		return err
	}
	service := a.services(cfg.Service)
	if err := service.Login(ctx, cfg.Auth.Identifier, cfg.Auth.Password); err != nil {
		return err
	}

	// 3. Crawl
	if t, ok := a.tracer.(interface{ Shutdown(context.Context) error }); ok {
		defer func() {
			_ = t.Shutdown(context.WithoutCancel(ctx))
		}()
	}
	defer func() {
		_ = a.progress.Close()
	}()

	session := crawler.NewSession(service, a.tracer, a.progress, a.logger, a.metrics)
	result, crawlErr := crawler.NewCrawler(session, cfg.Crawl).Crawl(ctx, handle)
	if result == nil {
		return crawlErr
	}

	// 4. Render whatever was built
	errs := []error{crawlErr}
	if err := a.render(renderer, result.Graph, opts.Output); err != nil {
		errs = append(errs, err)
	}
	if opts.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(opts.MetricsFile); err != nil {
			errs = append(errs, err)
		}
	}
	a.summarize(result)

	if err := errors.Join(errs...); err != nil {
		return errors.Join(domain.ErrCrawlFailed, err)
	}
	return nil
}

func (a *App) render(renderer ports.GraphRenderer, g *domain.SocialGraph, path string) error {
	if path == "" {
		return renderer.Render(a.stdout, g)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Join(domain.ErrRenderFailed, zerr.With(zerr.Wrap(err, "failed to create output file"), "path", path))
	}
	if err := renderer.Render(f, g); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Join(domain.ErrRenderFailed, zerr.With(zerr.Wrap(err, "failed to close output file"), "path", path))
	}
	a.logger.Info(fmt.Sprintf("graph written to %s", path))
	return nil
}

func (a *App) summarize(result *crawler.CrawlResult) {
	msg := fmt.Sprintf("graph has %d nodes and %d edges (%d lists fetched, %d served from cache)",
		result.Graph.NodeCount(), result.Graph.EdgeCount(),
		result.CacheStats.Misses, result.CacheStats.Hits)

	if p, ok := a.progress.(interface{ Summary() progress.Summary }); ok {
		if s := p.Summary(); s.Failed > 0 {
			msg += fmt.Sprintf(", %d fetches failed", s.Failed)
		}
	}
	a.logger.Info(msg)

	if n := len(result.Enrich.Failures); n > 0 {
		a.logger.Warn(fmt.Sprintf("%d mutuals are labeled by identifier only", n))
	}
	if n := len(result.Detect.Unresolved); n > 0 {
		a.logger.Warn(fmt.Sprintf("%d mutuals have unknown cross edges", n))
	}
}
