package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeListing = "Listing"

// Event type constants
const (
	EventTypeListingUploaded  = "ListingUploaded"
	EventTypeListingConfirmed = "ListingConfirmed"
	EventTypeListingCancelled = "ListingCancelled"
	EventTypeListingRemoved   = "ListingRemoved"
	EventTypeListingRestored  = "ListingRestored"
	EventTypeListingPurged    = "ListingPurged"
)

// ListingUploadedEvent is published when an image intake creates a draft
type ListingUploadedEvent struct {
	shared.BaseDomainEvent
	ListingID uuid.UUID        `json:"listing_id"`
	SellerID  uuid.UUID        `json:"seller_id"`
	Name      string           `json:"name"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Currency  string           `json:"currency"`
	ImageKey  string           `json:"image_key"`
}

// NewListingUploadedEvent creates a new ListingUploadedEvent
func NewListingUploadedEvent(l *Listing) *ListingUploadedEvent {
	return &ListingUploadedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingUploaded, AggregateTypeListing, l.ID),
		ListingID:       l.ID,
		SellerID:        l.SellerID,
		Name:            l.Name,
		Price:           l.Price,
		Currency:        l.Currency,
		ImageKey:        l.ImageKey,
	}
}

// ListingConfirmedEvent is published when a draft is confirmed into the catalog
type ListingConfirmedEvent struct {
	shared.BaseDomainEvent
	ListingID uuid.UUID `json:"listing_id"`
	SellerID  uuid.UUID `json:"seller_id"`
	Name      string    `json:"name"`
}

// NewListingConfirmedEvent creates a new ListingConfirmedEvent
func NewListingConfirmedEvent(l *Listing) *ListingConfirmedEvent {
	return &ListingConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingConfirmed, AggregateTypeListing, l.ID),
		ListingID:       l.ID,
		SellerID:        l.SellerID,
		Name:            l.Name,
	}
}

// ListingCancelledEvent is published when a draft intake is cancelled
type ListingCancelledEvent struct {
	shared.BaseDomainEvent
	ListingID uuid.UUID `json:"listing_id"`
	SellerID  uuid.UUID `json:"seller_id"`
	ImageKey  string    `json:"image_key"`
}

// NewListingCancelledEvent creates a new ListingCancelledEvent
func NewListingCancelledEvent(l *Listing) *ListingCancelledEvent {
	return &ListingCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingCancelled, AggregateTypeListing, l.ID),
		ListingID:       l.ID,
		SellerID:        l.SellerID,
		ImageKey:        l.ImageKey,
	}
}

// ListingRemovedEvent is published when a listing is soft-removed
type ListingRemovedEvent struct {
	shared.BaseDomainEvent
	ListingID    uuid.UUID  `json:"listing_id"`
	SellerID     uuid.UUID  `json:"seller_id"`
	RemovedAt    *time.Time `json:"removed_at"`
	UndoDeadline *time.Time `json:"undo_deadline"`
}

// NewListingRemovedEvent creates a new ListingRemovedEvent
func NewListingRemovedEvent(l *Listing) *ListingRemovedEvent {
	return &ListingRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingRemoved, AggregateTypeListing, l.ID),
		ListingID:       l.ID,
		SellerID:        l.SellerID,
		RemovedAt:       l.RemovedAt,
		UndoDeadline:    l.UndoDeadline,
	}
}

// ListingRestoredEvent is published when a removed listing is restored
type ListingRestoredEvent struct {
	shared.BaseDomainEvent
	ListingID uuid.UUID `json:"listing_id"`
	SellerID  uuid.UUID `json:"seller_id"`
}

// NewListingRestoredEvent creates a new ListingRestoredEvent
func NewListingRestoredEvent(l *Listing) *ListingRestoredEvent {
	return &ListingRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingRestored, AggregateTypeListing, l.ID),
		ListingID:       l.ID,
		SellerID:        l.SellerID,
	}
}

// ListingPurgedEvent is published when a listing is hard-deleted
type ListingPurgedEvent struct {
	shared.BaseDomainEvent
	ListingID uuid.UUID `json:"listing_id"`
	SellerID  uuid.UUID `json:"seller_id"`
	ImageKey  string    `json:"image_key"`
}

// NewListingPurgedEvent creates a new ListingPurgedEvent
func NewListingPurgedEvent(l *Listing) *ListingPurgedEvent {
	return &ListingPurgedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingPurged, AggregateTypeListing, l.ID),
		ListingID:       l.ID,
		SellerID:        l.SellerID,
		ImageKey:        l.ImageKey,
	}
}
