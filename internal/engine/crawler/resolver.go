package crawler

import (
	"context"

	"go.trai.ch/mutuals/internal/core/domain"
)

// Resolver computes mutual sets from cached relationship lists.
type Resolver struct {
	session *Session
}

// NewResolver creates a new Resolver.
func NewResolver(session *Session) *Resolver {
	return &Resolver{session: session}
}

// ResolveMutuals returns the accounts that both follow id and are followed by
// id, sorted by identifier. id itself is never part of the result.
func (r *Resolver) ResolveMutuals(ctx context.Context, id domain.AccountID) ([]domain.AccountID, error) {
	ctx, span := r.session.Tracer.Start(ctx, "resolve")
	defer span.End()

	followers, err := r.session.Cache.GetOrFetch(ctx, id, domain.Followers)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	following, err := r.session.Cache.GetOrFetch(ctx, id, domain.Following)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	mutuals := followers.Intersect(following)
	for i, m := range mutuals {
		if m == id {
			mutuals = append(mutuals[:i], mutuals[i+1:]...)
			break
		}
	}

	span.SetAttribute("mutuals", len(mutuals))
	return mutuals, nil
}
