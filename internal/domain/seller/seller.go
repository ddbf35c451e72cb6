package seller

import (
	"strings"
	"time"

	"github.com/hustle/backend/internal/domain/shared"
)

// Seller represents a seller account bound to a messaging channel identity.
// It is the aggregate root for account operations.
type Seller struct {
	shared.BaseAggregateRoot
	ChannelID   string `gorm:"type:varchar(20);not null;uniqueIndex"`
	CatalogSlug string `gorm:"type:varchar(16);not null;uniqueIndex"`
	DisplayName string `gorm:"type:varchar(100)"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Seller) TableName() string {
	return "sellers"
}

// NewSeller creates a new seller account in the active state
func NewSeller(channelID, catalogSlug string) (*Seller, error) {
	if err := validateChannelID(channelID); err != nil {
		return nil, err
	}
	if err := ValidateSlug(catalogSlug); err != nil {
		return nil, err
	}

	seller := &Seller{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ChannelID:         normalizeChannelID(channelID),
		CatalogSlug:       catalogSlug,
		Active:            true,
	}

	seller.AddDomainEvent(NewSellerRegisteredEvent(seller))

	return seller, nil
}

// UpdateProfile updates the seller's display name
func (s *Seller) UpdateProfile(displayName string) error {
	if len(displayName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Display name cannot exceed 100 characters")
	}

	s.DisplayName = displayName
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSellerProfileUpdatedEvent(s))

	return nil
}

// AssignSlug replaces the catalog slug after a collision retry
func (s *Seller) AssignSlug(slug string) error {
	if err := ValidateSlug(slug); err != nil {
		return err
	}
	s.CatalogSlug = slug
	return nil
}

// Activate re-enables the seller account
func (s *Seller) Activate() {
	if s.Active {
		return
	}
	s.Active = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate disables the seller account without deleting it
func (s *Seller) Deactivate() {
	if !s.Active {
		return
	}
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// validateChannelID validates the messaging channel identifier (phone number)
func validateChannelID(channelID string) error {
	id := normalizeChannelID(channelID)
	if id == "" {
		return shared.NewDomainError("INVALID_CHANNEL_ID", "Channel identifier cannot be empty")
	}
	if len(id) < 7 || len(id) > 20 {
		return shared.NewDomainError("INVALID_CHANNEL_ID", "Channel identifier must be 7-20 digits")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return shared.NewDomainError("INVALID_CHANNEL_ID", "Channel identifier can only contain digits")
		}
	}
	return nil
}

// normalizeChannelID strips a leading plus sign and surrounding whitespace
func normalizeChannelID(channelID string) string {
	return strings.TrimPrefix(strings.TrimSpace(channelID), "+")
}
