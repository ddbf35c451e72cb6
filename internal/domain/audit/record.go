package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/shared"
)

// ActionKind tags an audit record with the domain action it describes.
// The set is closed; unknown kinds are rejected at construction.
type ActionKind string

const (
	ActionAccountRegistered ActionKind = "ACCOUNT_REGISTERED"
	ActionProductUploaded   ActionKind = "PRODUCT_UPLOADED"
	ActionProductConfirmed  ActionKind = "PRODUCT_CONFIRMED"
	ActionProductCancelled  ActionKind = "PRODUCT_CANCELLED"
	ActionProductRemoved    ActionKind = "PRODUCT_REMOVED"
	ActionProductRestored   ActionKind = "PRODUCT_RESTORED"
	ActionInterestSignaled  ActionKind = "INTEREST_SIGNALED"
	ActionCatalogViewed     ActionKind = "CATALOG_VIEWED"
	ActionMessageSent       ActionKind = "MESSAGE_SENT"
	ActionMessageReceived   ActionKind = "MESSAGE_RECEIVED"
	ActionError             ActionKind = "ERROR"
)

var validKinds = map[ActionKind]struct{}{
	ActionAccountRegistered: {},
	ActionProductUploaded:   {},
	ActionProductConfirmed:  {},
	ActionProductCancelled:  {},
	ActionProductRemoved:    {},
	ActionProductRestored:   {},
	ActionInterestSignaled:  {},
	ActionCatalogViewed:     {},
	ActionMessageSent:       {},
	ActionMessageReceived:   {},
	ActionError:             {},
}

// IsValid reports whether the kind belongs to the closed set
func (k ActionKind) IsValid() bool {
	_, ok := validKinds[k]
	return ok
}

// Record is one immutable entry in the append-only audit trail.
// Records are never updated or deleted; any subset of the entity
// references may be nil (a platform-level error references nothing).
type Record struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Kind              ActionKind `gorm:"type:varchar(32);not null;index"`
	SellerID          *uuid.UUID `gorm:"type:uuid;index"`
	ListingID         *uuid.UUID `gorm:"type:uuid;index"`
	InterestID        *uuid.UUID `gorm:"type:uuid"`
	Payload           string     `gorm:"type:jsonb;not null;default:'{}'"`
	IPAddress         string     `gorm:"type:varchar(45)"`
	UserAgent         string     `gorm:"type:varchar(255)"`
	ExternalMessageID string     `gorm:"type:varchar(100)"`
	CreatedAt         time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "audit_records"
}

// Refs carries the optional entity references of a record
type Refs struct {
	SellerID   *uuid.UUID
	ListingID  *uuid.UUID
	InterestID *uuid.UUID
}

// Metadata carries optional network context of the triggering request
type Metadata struct {
	IPAddress         string
	UserAgent         string
	ExternalMessageID string
}

// NewRecord creates an audit record for the given action
func NewRecord(kind ActionKind, refs Refs, payload string, meta Metadata) (*Record, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION_KIND", "Unknown audit action kind")
	}
	if payload == "" {
		payload = "{}"
	}

	return &Record{
		ID:                uuid.New(),
		Kind:              kind,
		SellerID:          refs.SellerID,
		ListingID:         refs.ListingID,
		InterestID:        refs.InterestID,
		Payload:           payload,
		IPAddress:         meta.IPAddress,
		UserAgent:         meta.UserAgent,
		ExternalMessageID: meta.ExternalMessageID,
		CreatedAt:         time.Now(),
	}, nil
}
