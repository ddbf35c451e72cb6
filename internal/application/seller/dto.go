package seller

import (
	"time"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/seller"
)

// SellerResponse is the application-level view of a seller account
type SellerResponse struct {
	ID          uuid.UUID `json:"id"`
	ChannelID   string    `json:"channel_id"`
	CatalogSlug string    `json:"catalog_slug"`
	DisplayName string    `json:"display_name,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpdateSellerRequest carries a profile update
type UpdateSellerRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	Active      *bool   `json:"active"`
}

// SellerStatsResponse summarizes a seller's catalog activity
type SellerStatsResponse struct {
	SellerID        uuid.UUID `json:"seller_id"`
	DraftListings   int64     `json:"draft_listings"`
	ActiveListings  int64     `json:"active_listings"`
	RemovedListings int64     `json:"removed_listings"`
	InterestSignals int64     `json:"interest_signals"`
}

func toSellerResponse(s *seller.Seller) *SellerResponse {
	return &SellerResponse{
		ID:          s.ID,
		ChannelID:   s.ChannelID,
		CatalogSlug: s.CatalogSlug,
		DisplayName: s.DisplayName,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
