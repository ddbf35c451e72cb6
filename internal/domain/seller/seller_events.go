package seller

import (
	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSeller = "Seller"

// Event type constants
const (
	EventTypeSellerRegistered     = "SellerRegistered"
	EventTypeSellerProfileUpdated = "SellerProfileUpdated"
)

// SellerRegisteredEvent is published when a new seller account is created
type SellerRegisteredEvent struct {
	shared.BaseDomainEvent
	SellerID    uuid.UUID `json:"seller_id"`
	ChannelID   string    `json:"channel_id"`
	CatalogSlug string    `json:"catalog_slug"`
}

// NewSellerRegisteredEvent creates a new SellerRegisteredEvent
func NewSellerRegisteredEvent(s *Seller) *SellerRegisteredEvent {
	return &SellerRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSellerRegistered, AggregateTypeSeller, s.ID),
		SellerID:        s.ID,
		ChannelID:       s.ChannelID,
		CatalogSlug:     s.CatalogSlug,
	}
}

// SellerProfileUpdatedEvent is published when a seller updates their profile
type SellerProfileUpdatedEvent struct {
	shared.BaseDomainEvent
	SellerID    uuid.UUID `json:"seller_id"`
	DisplayName string    `json:"display_name"`
}

// NewSellerProfileUpdatedEvent creates a new SellerProfileUpdatedEvent
func NewSellerProfileUpdatedEvent(s *Seller) *SellerProfileUpdatedEvent {
	return &SellerProfileUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSellerProfileUpdated, AggregateTypeSeller, s.ID),
		SellerID:        s.ID,
		DisplayName:     s.DisplayName,
	}
}
