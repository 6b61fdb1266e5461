package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// EnrichReport summarizes one enrichment phase.
type EnrichReport struct {
	// Added is the number of root edges created.
	Added int
	// Failures maps each mutual whose profile could not be fetched to the cause.
	// Those mutuals are still in the graph, labeled with their identifier.
	Failures map[domain.AccountID]error
}

// Err returns the failures joined under ErrEnrichmentIncomplete, or nil.
func (r EnrichReport) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := []error{domain.ErrEnrichmentIncomplete}
	for _, id := range sortedKeys(r.Failures) {
		errs = append(errs, r.Failures[id])
	}
	return errors.Join(errs...)
}

// Enricher turns mutuals into labeled graph nodes attached to the root.
type Enricher struct {
	session *Session
	workers int
}

// NewEnricher creates a new Enricher running at most workers profile fetches at once.
func NewEnricher(session *Session, workers int) *Enricher {
	return &Enricher{session: session, workers: max(workers, 1)}
}

// Enrich fetches each mutual's profile in parallel and attaches it to root.
// A failed profile fetch never aborts sibling tasks: the node is still added,
// labeled with its identifier, and the failure is reported.
func (e *Enricher) Enrich(
	ctx context.Context,
	graph *domain.SocialGraph,
	root domain.AccountID,
	mutuals []domain.AccountID,
) EnrichReport {
	ctx, span := e.session.Tracer.Start(ctx, "enrich")
	defer span.End()

	report := EnrichReport{Failures: make(map[domain.AccountID]error)}
	var mu sync.Mutex

	// Plain Group: one task's failure must not cancel the others.
	var g errgroup.Group
	g.SetLimit(e.workers)

	for _, m := range mutuals {
		g.Go(func() error {
			added, err := e.enrichOne(ctx, graph, root, m)

			mu.Lock()
			defer mu.Unlock()
			if added {
				report.Added++
			}
			if err != nil {
				report.Failures[m] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	span.SetAttribute("added", report.Added)
	span.SetAttribute("failures", len(report.Failures))
	return report
}

func (e *Enricher) enrichOne(
	ctx context.Context,
	graph *domain.SocialGraph,
	root domain.AccountID,
	id domain.AccountID,
) (bool, error) {
	var fetchErr error

	label := id.String()
	profile, err := e.session.Source.GetProfile(ctx, id)
	if err != nil {
		fetchErr = zerr.With(zerr.Wrap(err, domain.ErrProfileFetchFailed.Error()), "account", id.String())
		e.session.Logger.Warn(fmt.Sprintf("could not fetch profile of %s, using identifier as label: %v", id, err))
	} else {
		label = profile.Label()
	}

	added, err := graph.Attach(id, label, root)
	if err != nil {
		return false, errors.Join(fetchErr, err)
	}
	if added {
		e.session.Metrics.EdgeAdded("root")
	}
	return added, fetchErr
}
