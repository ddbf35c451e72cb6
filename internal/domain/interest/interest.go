package interest

import (
	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/shared"
)

// Signal records a buyer expressing interest in an active listing
type Signal struct {
	shared.BaseEntity
	ListingID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerID       uuid.UUID `gorm:"type:uuid;not null;index"`
	BuyerName      string    `gorm:"type:varchar(100)"`
	BuyerContact   string    `gorm:"type:varchar(100)"`
	SellerNotified bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Signal) TableName() string {
	return "interest_signals"
}

// NewSignal creates an interest signal for a listing
func NewSignal(listingID, sellerID uuid.UUID, buyerName, buyerContact string) (*Signal, error) {
	if len(buyerName) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Buyer name cannot exceed 100 characters")
	}
	if len(buyerContact) > 100 {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Buyer contact cannot exceed 100 characters")
	}

	return &Signal{
		BaseEntity:   shared.NewBaseEntity(),
		ListingID:    listingID,
		SellerID:     sellerID,
		BuyerName:    buyerName,
		BuyerContact: buyerContact,
	}, nil
}

// MarkNotified records that the seller notification was delivered
func (s *Signal) MarkNotified() {
	s.SellerNotified = true
}
