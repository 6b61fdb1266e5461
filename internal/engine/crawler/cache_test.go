package crawler_test

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/engine/crawler"
)

func TestCache_FetchesOnce(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.setFollowers("did:root", "did:a", "did:b")
	cache := newTestSession(t, src).Cache

	first, err := cache.GetOrFetch(ctx, acct("did:root"), domain.Followers)
	require.NoError(t, err)
	second, err := cache.GetOrFetch(ctx, acct("did:root"), domain.Followers)
	require.NoError(t, err)

	assert.Equal(t, first.IDs(), second.IDs())
	assert.Equal(t, 1, src.count("followers", "did:root"))
	assert.Equal(t, crawler.CacheStats{Hits: 1, Misses: 1}, cache.Stats())
}

func TestCache_DirectionsAreSeparateKeys(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.setFollowers("did:root", "did:a")
	src.setFollowing("did:root", "did:b")
	cache := newTestSession(t, src).Cache

	followers, err := cache.GetOrFetch(ctx, acct("did:root"), domain.Followers)
	require.NoError(t, err)
	following, err := cache.GetOrFetch(ctx, acct("did:root"), domain.Following)
	require.NoError(t, err)

	assert.True(t, followers.Contains(acct("did:a")))
	assert.True(t, following.Contains(acct("did:b")))
	assert.Equal(t, 2, cache.Len())
}

func TestCache_FailedFetchIsNotStored(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.setFollowerPages("did:root", []string{"did:a"}, []string{"did:b"})
	// The second page fails on the first walk only.
	src.failures["followers/did:root"] = []error{nil, errRemote}
	cache := newTestSession(t, src).Cache

	_, err := cache.GetOrFetch(ctx, acct("did:root"), domain.Followers)
	require.ErrorIs(t, err, errRemote)

	_, ok := cache.Peek(acct("did:root"), domain.Followers)
	assert.False(t, ok, "partial list must not be cached")

	list, err := cache.GetOrFetch(ctx, acct("did:root"), domain.Followers)
	require.NoError(t, err)
	assert.Equal(t, accts("did:a", "did:b"), list.IDs())
	assert.Equal(t, 4, src.count("followers", "did:root"))
	assert.Equal(t, 1, cache.Stats().Failures)
}

func TestCache_ConcurrentSameKeyFetchesOnce(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		src := newFakeSource()
		src.setFollowing("did:hub", "did:a", "did:b")
		src.gate = make(chan struct{})
		cache := newTestSession(t, src).Cache

		const callers = 16
		results := make([]domain.RelationshipList, callers)
		errs := make([]error, callers)

		var wg sync.WaitGroup
		for i := range callers {
			wg.Go(func() {
				results[i], errs[i] = cache.GetOrFetch(context.Background(), acct("did:hub"), domain.Following)
			})
		}

		// Every caller is now parked on the single in-flight fetch.
		synctest.Wait()
		close(src.gate)
		wg.Wait()

		for i := range callers {
			require.NoError(t, errs[i])
			assert.Equal(t, 2, results[i].Len())
		}
		assert.Equal(t, 1, src.count("following", "did:hub"))
	})
}

func TestCache_ConcurrentDistinctKeys(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		src := newFakeSource()
		names := []string{"did:a", "did:b", "did:c", "did:d", "did:e"}
		for _, n := range names {
			src.setFollowing(n, "did:x")
		}
		cache := newTestSession(t, src).Cache

		var wg sync.WaitGroup
		for range 4 {
			for _, n := range names {
				wg.Go(func() {
					_, err := cache.GetOrFetch(context.Background(), acct(n), domain.Following)
					assert.NoError(t, err)
				})
			}
		}
		wg.Wait()

		for _, n := range names {
			assert.Equal(t, 1, src.count("following", n), n)
		}
		assert.Equal(t, len(names), cache.Len())
	})
}
