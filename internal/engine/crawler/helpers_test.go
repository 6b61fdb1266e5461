package crawler_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/core/ports"
	"go.trai.ch/mutuals/internal/core/ports/mocks"
	"go.trai.ch/mutuals/internal/engine/crawler"
	"go.uber.org/mock/gomock"
)

var errRemote = errors.New("remote failure")

// fakeSource is an in-memory paginated relationship service that counts calls.
type fakeSource struct {
	mu sync.Mutex

	handles   map[string]domain.AccountID
	followers map[domain.AccountID][][]domain.AccountID
	following map[domain.AccountID][][]domain.AccountID
	names     map[domain.AccountID]string

	// failures are keyed by "<method>/<id>" and consumed one per call.
	failures map[string][]error
	// delay is applied before answering a profile request.
	delay func(id domain.AccountID) time.Duration
	// gate, when set, blocks relationship pages until closed.
	gate chan struct{}

	calls   map[string]int
	cursors map[string][]string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		handles:   make(map[string]domain.AccountID),
		followers: make(map[domain.AccountID][][]domain.AccountID),
		following: make(map[domain.AccountID][][]domain.AccountID),
		names:     make(map[domain.AccountID]string),
		failures:  make(map[string][]error),
		calls:     make(map[string]int),
		cursors:   make(map[string][]string),
	}
}

func (s *fakeSource) setHandle(handle, id string) {
	s.handles[handle] = domain.NewAccountID(id)
}

func (s *fakeSource) setFollowers(id string, ids ...string) {
	s.followers[domain.NewAccountID(id)] = [][]domain.AccountID{domain.NewAccountIDs(ids...)}
}

func (s *fakeSource) setFollowing(id string, ids ...string) {
	s.following[domain.NewAccountID(id)] = [][]domain.AccountID{domain.NewAccountIDs(ids...)}
}

func (s *fakeSource) setFollowerPages(id string, pages ...[]string) {
	out := make([][]domain.AccountID, 0, len(pages))
	for _, p := range pages {
		out = append(out, domain.NewAccountIDs(p...))
	}
	s.followers[domain.NewAccountID(id)] = out
}

func (s *fakeSource) setName(id, name string) {
	s.names[domain.NewAccountID(id)] = name
}

func (s *fakeSource) failNext(method, id string, errs ...error) {
	key := method + "/" + id
	s.failures[key] = append(s.failures[key], errs...)
}

func (s *fakeSource) count(method, id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+"/"+id]
}

func (s *fakeSource) allCalls() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.calls))
	for k, v := range s.calls {
		out[k] = v
	}
	return out
}

func (s *fakeSource) track(method string, id domain.AccountID, cursor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := method + "/" + id.String()
	s.calls[key]++
	s.cursors[key] = append(s.cursors[key], cursor)
	if pending := s.failures[key]; len(pending) > 0 {
		s.failures[key] = pending[1:]
		return pending[0]
	}
	return nil
}

func (s *fakeSource) ResolveHandle(_ context.Context, handle string) (domain.AccountID, error) {
	if err := s.track("resolve", domain.NewAccountID(handle), ""); err != nil {
		return domain.AccountID{}, err
	}
	id, ok := s.handles[handle]
	if !ok {
		return domain.AccountID{}, fmt.Errorf("unknown handle %q", handle)
	}
	return id, nil
}

func (s *fakeSource) GetFollowers(ctx context.Context, id domain.AccountID, cursor string) (domain.Page, error) {
	return s.page(ctx, "followers", s.followers[id], id, cursor)
}

func (s *fakeSource) GetFollowing(ctx context.Context, id domain.AccountID, cursor string) (domain.Page, error) {
	return s.page(ctx, "following", s.following[id], id, cursor)
}

func (s *fakeSource) page(
	ctx context.Context,
	method string,
	pages [][]domain.AccountID,
	id domain.AccountID,
	cursor string,
) (domain.Page, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return domain.Page{}, ctx.Err()
		}
	}
	if err := s.track(method, id, cursor); err != nil {
		return domain.Page{}, err
	}

	idx := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return domain.Page{}, fmt.Errorf("bad cursor %q", cursor)
		}
		idx = n
	}
	if idx >= len(pages) {
		return domain.Page{}, nil
	}

	next := ""
	if idx+1 < len(pages) {
		next = strconv.Itoa(idx + 1)
	}
	return domain.Page{Items: pages[idx], Cursor: next}, nil
}

func (s *fakeSource) GetProfile(_ context.Context, id domain.AccountID) (domain.Profile, error) {
	if s.delay != nil {
		time.Sleep(s.delay(id))
	}
	if err := s.track("profile", id, ""); err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{ID: id, DisplayName: s.names[id]}, nil
}

// newTestSession builds a session whose telemetry and logging collaborators
// accept any call.
func newTestSession(t *testing.T, source ports.RelationshipSource) *crawler.Session {
	t.Helper()
	ctrl := gomock.NewController(t)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		}).AnyTimes()

	vertex := mocks.NewMockVertex(ctrl)
	vertex.EXPECT().Log(gomock.Any()).AnyTimes()
	vertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	vertex.EXPECT().Cached().AnyTimes()

	progress := mocks.NewMockProgress(ctrl)
	progress.EXPECT().Record(gomock.Any(), gomock.Any()).Return(vertex).AnyTimes()

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().CacheLookup(gomock.Any(), gomock.Any()).AnyTimes()
	metrics.EXPECT().EdgeAdded(gomock.Any()).AnyTimes()
	metrics.EXPECT().RemoteCall(gomock.Any(), gomock.Any()).AnyTimes()

	return crawler.NewSession(source, tracer, progress, logger, metrics)
}

func accts(ss ...string) []domain.AccountID {
	return domain.NewAccountIDs(ss...)
}

func acct(s string) domain.AccountID {
	return domain.NewAccountID(s)
}
