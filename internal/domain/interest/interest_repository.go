package interest

import (
	"context"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/shared"
)

// Repository defines the persistence contract for interest signals
type Repository interface {
	shared.Repository[Signal]

	// FindByListing returns signals recorded against a listing
	FindByListing(ctx context.Context, listingID uuid.UUID, filter shared.Filter) (shared.Paginated[Signal], error)

	// CountBySeller counts signals across all of a seller's listings
	CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)
}
