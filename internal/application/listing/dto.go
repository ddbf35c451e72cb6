package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/listing"
	"github.com/shopspring/decimal"
)

// ListingResponse is the application-level view of a listing
type ListingResponse struct {
	ID           uuid.UUID        `json:"id"`
	SellerID     uuid.UUID        `json:"seller_id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Currency     string           `json:"currency"`
	ImageURL     string           `json:"image_url,omitempty"`
	Status       listing.Status   `json:"status"`
	RemovedAt    *time.Time       `json:"removed_at,omitempty"`
	UndoDeadline *time.Time       `json:"undo_deadline,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// UpdateListingRequest carries a listing update
type UpdateListingRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Currency    string           `json:"currency" binding:"omitempty,len=3"`
}

// RemoveListingsRequest carries a batch soft-removal
type RemoveListingsRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

func toListingResponse(l *listing.Listing, storage ObjectStorageService) *ListingResponse {
	resp := &ListingResponse{
		ID:           l.ID,
		SellerID:     l.SellerID,
		Name:         l.Name,
		Description:  l.Description,
		Price:        l.Price,
		Currency:     l.Currency,
		Status:       l.Status,
		RemovedAt:    l.RemovedAt,
		UndoDeadline: l.UndoDeadline,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.ImageKey != "" && storage != nil {
		resp.ImageURL = storage.PublicURL(l.ImageKey)
	}
	return resp
}
