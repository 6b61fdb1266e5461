// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/mutuals/internal/core/domain"
)

// RelationshipSource is the remote relationship and profile service.
//
// Cursor semantics: an empty cursor requests the first page; an empty cursor in
// the returned page marks the last page. Any other cursor must be passed back verbatim.
//
//go:generate go run go.uber.org/mock/mockgen -source=relationship_source.go -destination=mocks/mock_relationship_source.go -package=mocks
type RelationshipSource interface {
	// ResolveHandle resolves a human-readable handle to its account identifier.
	ResolveHandle(ctx context.Context, handle string) (domain.AccountID, error)

	// GetFollowers returns one page of the accounts following id.
	GetFollowers(ctx context.Context, id domain.AccountID, cursor string) (domain.Page, error)

	// GetFollowing returns one page of the accounts id follows.
	GetFollowing(ctx context.Context, id domain.AccountID, cursor string) (domain.Page, error)

	// GetProfile returns the display metadata of id.
	GetProfile(ctx context.Context, id domain.AccountID) (domain.Profile, error)
}

// Authenticator establishes an authenticated session with the remote service.
type Authenticator interface {
	// Login creates a session for identifier. Subsequent source calls use it.
	Login(ctx context.Context, identifier, password string) error
}

// RemoteService is an authenticated relationship source.
type RemoteService interface {
	RelationshipSource
	Authenticator
}

// RemoteServiceFactory builds a RemoteService once the configuration is known.
type RemoteServiceFactory func(cfg domain.ServiceConfig) RemoteService
