// Package crawler implements the mutual-follow crawl: paginated relationship
// fetching with memoization, concurrent node enrichment and pairwise mutual-edge detection.
package crawler

import (
	"context"
	"fmt"

	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/core/ports"
	"go.trai.ch/zerr"
)

// RelationshipFetcher retrieves one complete relationship list.
type RelationshipFetcher interface {
	FetchRelationships(ctx context.Context, id domain.AccountID, dir domain.Direction) (domain.RelationshipList, error)
}

// Fetcher walks a cursor-paginated relationship query to completion.
type Fetcher struct {
	source   ports.RelationshipSource
	tracer   ports.Tracer
	progress ports.Progress
	logger   ports.Logger
}

// NewFetcher creates a new Fetcher over source.
func NewFetcher(
	source ports.RelationshipSource,
	tracer ports.Tracer,
	progress ports.Progress,
	logger ports.Logger,
) *Fetcher {
	return &Fetcher{
		source:   source,
		tracer:   tracer,
		progress: progress,
		logger:   logger,
	}
}

// FetchRelationships returns the full list of id's followers or following.
// It fails as a whole if any page fails; no partial list is ever returned.
func (f *Fetcher) FetchRelationships(
	ctx context.Context,
	id domain.AccountID,
	dir domain.Direction,
) (domain.RelationshipList, error) {
	if id.IsZero() {
		return domain.RelationshipList{}, domain.ErrEmptyAccountID
	}
	if !dir.Valid() {
		return domain.RelationshipList{}, zerr.With(domain.ErrInvalidDirection, "direction", int(dir))
	}

	ctx, span := f.tracer.Start(ctx, "fetch "+dir.String(),
		ports.WithAttribute("account", id.String()),
	)
	defer span.End()

	vertex := f.progress.Record(ctx, fmt.Sprintf("%s of %s", dir, id))
	f.logger.Info(fmt.Sprintf("fetching %s for %s...", dir, id))

	ids, pages, err := f.walk(ctx, id, dir, vertex)
	if err != nil {
		wrapped := zerr.With(zerr.Wrap(err, domain.ErrRelationshipFetchFailed.Error()), "account", id.String())
		wrapped = zerr.With(wrapped, "direction", dir.String())
		span.RecordError(wrapped)
		vertex.Complete(wrapped)
		return domain.RelationshipList{}, wrapped
	}

	span.SetAttribute("pages", pages)
	span.SetAttribute("count", len(ids))
	vertex.Complete(nil)
	f.logger.Info(fmt.Sprintf("found %d %s for %s.", len(ids), dir, id))

	return domain.NewRelationshipList(ids), nil
}

func (f *Fetcher) walk(
	ctx context.Context,
	id domain.AccountID,
	dir domain.Direction,
	vertex ports.Vertex,
) ([]domain.AccountID, int, error) {
	var (
		ids    []domain.AccountID
		cursor string
		pages  int
		seen   = make(map[string]struct{})
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, pages, err
		}

		page, err := f.page(ctx, id, dir, cursor)
		if err != nil {
			return nil, pages, zerr.With(err, "page", pages+1)
		}
		pages++

		for _, item := range page.Items {
			if item.IsZero() {
				return nil, pages, zerr.With(domain.ErrMalformedPage, "page", pages)
			}
		}
		ids = append(ids, page.Items...)
		vertex.Log(fmt.Sprintf("page %d: %d accounts", pages, len(page.Items)))

		if page.Cursor == "" {
			return ids, pages, nil
		}
		if _, dup := seen[page.Cursor]; dup {
			return nil, pages, zerr.With(domain.ErrCursorLoop, "cursor", page.Cursor)
		}
		seen[page.Cursor] = struct{}{}
		cursor = page.Cursor
	}
}

func (f *Fetcher) page(
	ctx context.Context,
	id domain.AccountID,
	dir domain.Direction,
	cursor string,
) (domain.Page, error) {
	if dir == domain.Followers {
		return f.source.GetFollowers(ctx, id, cursor)
	}
	return f.source.GetFollowing(ctx, id, cursor)
}
