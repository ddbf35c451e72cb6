package listing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/shared"
)

// Repository defines the persistence contract for listings
type Repository interface {
	shared.Repository[Listing]

	// FindBySeller returns a seller's listings, optionally filtered by status
	FindBySeller(ctx context.Context, sellerID uuid.UUID, status *Status, filter shared.Filter) (shared.Paginated[Listing], error)

	// FindActiveBySeller returns all catalog-visible listings for a seller
	FindActiveBySeller(ctx context.Context, sellerID uuid.UUID) ([]Listing, error)

	// SaveIfStatus persists the listing only when the stored row still has
	// the expected status, so a precondition check and the state write happen
	// in one atomic statement. Returns ErrConcurrencyConflict when another
	// transition got there first.
	SaveIfStatus(ctx context.Context, l *Listing, expected Status) error

	// CountBySellerAndStatus counts a seller's listings in a given status
	CountBySellerAndStatus(ctx context.Context, sellerID uuid.UUID, status Status) (int64, error)

	// FindExpiredRemoved returns removed listings whose undo deadline lapsed
	// before the cutoff. Used only for optional asset reclamation.
	FindExpiredRemoved(ctx context.Context, cutoff time.Time, limit int) ([]Listing, error)
}
