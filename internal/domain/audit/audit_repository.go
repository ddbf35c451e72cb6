package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/shared"
)

// Repository defines the persistence contract for the audit trail.
// The trail is append-only; there are no update or delete operations.
type Repository interface {
	// Append persists a new record
	Append(ctx context.Context, r *Record) error

	// FindBySeller returns records referencing a seller, newest first
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (shared.Paginated[Record], error)

	// FindByListing returns records referencing a listing, newest first
	FindByListing(ctx context.Context, listingID uuid.UUID, filter shared.Filter) (shared.Paginated[Record], error)

	// CountByKind counts records of a given action kind
	CountByKind(ctx context.Context, kind ActionKind) (int64, error)
}
