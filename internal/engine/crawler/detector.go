package crawler

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"go.trai.ch/mutuals/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// DetectOptions tunes the pairwise detection phase.
type DetectOptions struct {
	// Prefetch loads every mutual's following list before evaluating pairs.
	Prefetch bool
	// PrefetchWorkers bounds concurrent prefetches.
	PrefetchWorkers int
	// Workers bounds concurrent pair-row evaluation.
	Workers int
}

// DetectReport summarizes one detection phase.
type DetectReport struct {
	// Pairs is the number of unordered pairs considered.
	Pairs int
	// EdgesAdded is the number of cross edges created.
	EdgesAdded int
	// SkippedPairs is the number of pairs treated as "no edge" because a
	// following list was unavailable.
	SkippedPairs int
	// Unresolved maps each account whose following list could not be fetched to the cause.
	Unresolved map[domain.AccountID]error
}

// Detector adds an edge between every two mutuals that follow each other.
type Detector struct {
	session *Session
	opts    DetectOptions
}

// NewDetector creates a new Detector.
func NewDetector(session *Session, opts DetectOptions) *Detector {
	opts.PrefetchWorkers = max(opts.PrefetchWorkers, 1)
	opts.Workers = max(opts.Workers, 1)
	return &Detector{session: session, opts: opts}
}

// Detect evaluates each unordered pair of mutuals exactly once, enumerated in
// identifier order, and connects A and B iff A follows B and B follows A.
// Every mutual must already be a node of graph.
//
// A failed following-list fetch marks that account unresolved: it is not
// retried, its pairs count as "no edge", and the failure is returned joined
// under ErrEdgeDetectionIncomplete once all other pairs are done.
func (d *Detector) Detect(
	ctx context.Context,
	graph *domain.SocialGraph,
	mutuals []domain.AccountID,
) (DetectReport, error) {
	ctx, span := d.session.Tracer.Start(ctx, "detect")
	defer span.End()

	ordered := slices.Clone(mutuals)
	slices.SortFunc(ordered, domain.AccountID.Compare)
	ordered = slices.Compact(ordered)

	lookup := &followingLookup{
		cache:  d.session.Cache,
		failed: make(map[domain.AccountID]error),
	}

	if d.opts.Prefetch {
		d.prefetch(ctx, lookup, ordered)
	}

	var (
		added   atomic.Int64
		skipped atomic.Int64
		edgeMu  sync.Mutex
		edgeErr error
	)

	var g errgroup.Group
	g.SetLimit(d.opts.Workers)

	for i, a := range ordered {
		g.Go(func() error {
			fa, okA := lookup.get(ctx, a)
			for _, b := range ordered[i+1:] {
				fb, okB := lookup.get(ctx, b)
				if !okA || !okB {
					skipped.Add(1)
					continue
				}
				if !fa.Contains(b) || !fb.Contains(a) {
					continue
				}

				created, err := graph.AddEdge(a, b)
				if err != nil {
					edgeMu.Lock()
					edgeErr = errors.Join(edgeErr, err)
					edgeMu.Unlock()
					continue
				}
				if created {
					added.Add(1)
					d.session.Metrics.EdgeAdded("mutual")
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	n := len(ordered)
	report := DetectReport{
		Pairs:        n * (n - 1) / 2,
		EdgesAdded:   int(added.Load()),
		SkippedPairs: int(skipped.Load()),
		Unresolved:   lookup.snapshot(),
	}
	span.SetAttribute("pairs", report.Pairs)
	span.SetAttribute("edges", report.EdgesAdded)

	if len(report.Unresolved) == 0 && edgeErr == nil {
		return report, nil
	}

	errs := []error{domain.ErrEdgeDetectionIncomplete}
	for _, id := range sortedKeys(report.Unresolved) {
		errs = append(errs, report.Unresolved[id])
	}
	if edgeErr != nil {
		errs = append(errs, edgeErr)
	}
	err := errors.Join(errs...)
	span.RecordError(err)
	return report, err
}

func (d *Detector) prefetch(ctx context.Context, lookup *followingLookup, ids []domain.AccountID) {
	var g errgroup.Group
	g.SetLimit(d.opts.PrefetchWorkers)
	for _, id := range ids {
		g.Go(func() error {
			lookup.get(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
}

// followingLookup reads following lists through the cache and remembers
// accounts whose fetch failed, so each one is attempted once per phase.
type followingLookup struct {
	cache *Cache

	mu     sync.Mutex
	failed map[domain.AccountID]error
}

func (l *followingLookup) get(ctx context.Context, id domain.AccountID) (domain.RelationshipList, bool) {
	l.mu.Lock()
	_, bad := l.failed[id]
	l.mu.Unlock()
	if bad {
		return domain.RelationshipList{}, false
	}

	list, err := l.cache.GetOrFetch(ctx, id, domain.Following)
	if err != nil {
		l.mu.Lock()
		if _, ok := l.failed[id]; !ok {
			l.failed[id] = err
		}
		l.mu.Unlock()
		return domain.RelationshipList{}, false
	}
	return list, true
}

func (l *followingLookup) snapshot() map[domain.AccountID]error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.failed)
}

func sortedKeys[V any](m map[domain.AccountID]V) []domain.AccountID {
	keys := make([]domain.AccountID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, domain.AccountID.Compare)
	return keys
}
