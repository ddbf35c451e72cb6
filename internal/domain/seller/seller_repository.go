package seller

import (
	"context"

	"github.com/hustle/backend/internal/domain/shared"
)

// Repository defines the persistence contract for sellers
type Repository interface {
	shared.Repository[Seller]

	// FindByChannelID finds a seller by messaging channel identifier
	FindByChannelID(ctx context.Context, channelID string) (*Seller, error)

	// FindBySlug finds a seller by catalog slug
	FindBySlug(ctx context.Context, slug string) (*Seller, error)

	// CreateIfAbsent inserts the seller unless a row with the same channel
	// identifier already exists. Returns true when the row was inserted,
	// false when an existing row won the race. The store's unique index on
	// channel_id is the correctness backstop.
	CreateIfAbsent(ctx context.Context, s *Seller) (bool, error)

	// SlugExists reports whether a catalog slug is already assigned
	SlugExists(ctx context.Context, slug string) (bool, error)
}
