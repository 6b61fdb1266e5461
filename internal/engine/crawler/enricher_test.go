package crawler_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/engine/crawler"
)

func newRootedGraph(t *testing.T, root string) *domain.SocialGraph {
	t.Helper()
	g := domain.NewSocialGraph()
	require.NoError(t, g.SetRoot(acct(root), "Root"))
	return g
}

func TestEnricher_AttachesEveryMutualToRoot(t *testing.T) {
	src := newFakeSource()
	src.setName("did:a", "Alice")
	src.setName("did:b", "Bob")
	g := newRootedGraph(t, "did:root")

	report := crawler.NewEnricher(newTestSession(t, src), 4).
		Enrich(context.Background(), g, acct("did:root"), accts("did:a", "did:b", "did:c"))

	require.NoError(t, report.Err())
	assert.Equal(t, 3, report.Added)
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, 3, g.Degree(acct("did:root")))

	label, _ := g.Label(acct("did:a"))
	assert.Equal(t, "Alice", label)
	label, _ = g.Label(acct("did:c"))
	assert.Equal(t, "did:c", label, "empty display name falls back to identifier")
}

func TestEnricher_CompletionOrderDoesNotMatter(t *testing.T) {
	mutuals := make([]string, 0, 20)
	for i := range 20 {
		mutuals = append(mutuals, fmt.Sprintf("did:m%02d", i))
	}

	build := func(t *testing.T, seed uint64) uint64 {
		t.Helper()
		var fingerprint uint64
		synctest.Test(t, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed))
			delays := make(map[domain.AccountID]time.Duration, len(mutuals))
			src := newFakeSource()
			for _, m := range mutuals {
				src.setName(m, "name of "+m)
				delays[acct(m)] = time.Duration(rng.IntN(1000)) * time.Millisecond
			}
			src.delay = func(id domain.AccountID) time.Duration { return delays[id] }

			g := newRootedGraph(t, "did:root")
			report := crawler.NewEnricher(newTestSession(t, src), 8).
				Enrich(context.Background(), g, acct("did:root"), accts(mutuals...))
			require.NoError(t, report.Err())

			for _, m := range mutuals {
				assert.True(t, g.HasEdge(acct(m), acct("did:root")), m)
				assert.Equal(t, 1, g.Degree(acct(m)), m)
			}
			fingerprint = g.Fingerprint()
		})
		return fingerprint
	}

	want := build(t, 1)
	for seed := uint64(2); seed <= 6; seed++ {
		assert.Equal(t, want, build(t, seed), "seed %d", seed)
	}
}

func TestEnricher_ProfileFailureFallsBackToIdentifier(t *testing.T) {
	src := newFakeSource()
	src.setName("did:a", "Alice")
	src.setName("did:b", "Bob")
	src.failNext("profile", "did:b", errRemote)
	g := newRootedGraph(t, "did:root")

	report := crawler.NewEnricher(newTestSession(t, src), 2).
		Enrich(context.Background(), g, acct("did:root"), accts("did:a", "did:b"))

	assert.Equal(t, 2, report.Added)
	require.Contains(t, report.Failures, acct("did:b"))
	assert.ErrorIs(t, report.Failures[acct("did:b")], errRemote)

	err := report.Err()
	require.ErrorIs(t, err, domain.ErrEnrichmentIncomplete)
	assert.ErrorContains(t, err, "failed to fetch profile")

	label, ok := g.Label(acct("did:b"))
	require.True(t, ok)
	assert.Equal(t, "did:b", label)
	assert.True(t, g.HasEdge(acct("did:b"), acct("did:root")))
}

func TestEnricher_RetryKeepsSingleNode(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.failNext("profile", "did:a", errRemote)
	g := newRootedGraph(t, "did:root")
	e := crawler.NewEnricher(newTestSession(t, src), 1)

	first := e.Enrich(ctx, g, acct("did:root"), accts("did:a"))
	assert.Equal(t, 1, first.Added)
	require.Error(t, first.Err())

	src.setName("did:a", "Alice")
	second := e.Enrich(ctx, g, acct("did:root"), accts("did:a"))
	assert.Zero(t, second.Added)
	require.NoError(t, second.Err())

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	label, _ := g.Label(acct("did:a"))
	assert.Equal(t, "Alice", label)
}

func TestEnricher_RespectsWorkerBound(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		src := &concurrencyProbe{fakeSource: newFakeSource()}
		g := newRootedGraph(t, "did:root")

		mutuals := make([]string, 0, 12)
		for i := range 12 {
			mutuals = append(mutuals, fmt.Sprintf("did:m%02d", i))
		}

		report := crawler.NewEnricher(newTestSession(t, src), 3).
			Enrich(context.Background(), g, acct("did:root"), accts(mutuals...))
		require.NoError(t, report.Err())
		assert.Equal(t, 12, report.Added)
		assert.LessOrEqual(t, src.peak, 3)
		assert.Positive(t, src.peak)
	})
}

// concurrencyProbe tracks the peak number of in-flight profile requests.
type concurrencyProbe struct {
	*fakeSource
	inFlight int
	peak     int
}

func (p *concurrencyProbe) GetProfile(ctx context.Context, id domain.AccountID) (domain.Profile, error) {
	p.mu.Lock()
	p.inFlight++
	p.peak = max(p.peak, p.inFlight)
	p.mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	p.mu.Lock()
	p.inFlight--
	p.mu.Unlock()
	return p.fakeSource.GetProfile(ctx, id)
}
