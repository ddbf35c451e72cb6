package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a listing
type Status string

const (
	// StatusDraft is an intake awaiting seller confirmation
	StatusDraft Status = "draft"
	// StatusActive is visible in the public catalog
	StatusActive Status = "active"
	// StatusRemoved is soft-deleted and restorable within the undo window
	StatusRemoved Status = "removed"
	// StatusDiscarded is a cancelled intake; terminal
	StatusDiscarded Status = "discarded"
	// StatusPurged is an explicit hard delete; terminal
	StatusPurged Status = "purged"
)

// UndoWindow is the period after soft-removal during which a listing
// can still be restored.
const UndoWindow = 30 * time.Second

// IsTerminal returns true for states that admit no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusDiscarded || s == StatusPurged
}

// Listing represents a product listing owned by a single seller.
// It is the aggregate root for the product lifecycle.
type Listing struct {
	shared.BaseAggregateRoot
	SellerID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name         string           `gorm:"type:varchar(200);not null"`
	Description  string           `gorm:"type:text"`
	Price        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Currency     string           `gorm:"type:varchar(3);not null;default:'USD'"`
	ImageKey     string           `gorm:"type:varchar(255);not null"`
	Status       Status           `gorm:"type:varchar(20);not null;default:'draft';index"`
	RemovedAt    *time.Time       `gorm:"index"`
	UndoDeadline *time.Time
}

// TableName returns the table name for GORM
func (Listing) TableName() string {
	return "listings"
}

// NewListing creates a new draft listing from an image intake
func NewListing(sellerID uuid.UUID, name, description, imageKey string, price *decimal.Decimal, currency string) (*Listing, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if imageKey == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Listing requires an image reference")
	}
	rounded, err := normalizePrice(price)
	if err != nil {
		return nil, err
	}
	if currency == "" {
		currency = "USD"
	}

	l := &Listing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		Name:              name,
		Description:       description,
		Price:             rounded,
		Currency:          currency,
		ImageKey:          imageKey,
		Status:            StatusDraft,
	}

	l.AddDomainEvent(NewListingUploadedEvent(l))

	return l, nil
}

// Confirm publishes a draft listing to the catalog
func (l *Listing) Confirm() error {
	if l.Status != StatusDraft {
		return shared.ErrInvalidState
	}

	l.Status = StatusActive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewListingConfirmedEvent(l))

	return nil
}

// Discard cancels a draft intake. The caller is responsible for deleting
// the image asset and the stored row.
func (l *Listing) Discard() error {
	if l.Status != StatusDraft {
		return shared.ErrInvalidState
	}

	l.Status = StatusDiscarded
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewListingCancelledEvent(l))

	return nil
}

// Remove soft-deletes an active listing and opens the undo window
func (l *Listing) Remove(now time.Time) error {
	if l.Status != StatusActive {
		return shared.ErrInvalidState
	}

	deadline := now.Add(UndoWindow)
	l.Status = StatusRemoved
	l.RemovedAt = &now
	l.UndoDeadline = &deadline
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewListingRemovedEvent(l))

	return nil
}

// CanUndo reports whether the undo window is still open.
// The deadline is evaluated lazily; there is no background sweep.
func (l *Listing) CanUndo(now time.Time) bool {
	return l.Status == StatusRemoved && l.UndoDeadline != nil && now.Before(*l.UndoDeadline)
}

// Restore returns a removed listing to the catalog. Fails with a Gone
// error once the undo window has lapsed, leaving the listing untouched.
func (l *Listing) Restore(now time.Time) error {
	if l.Status != StatusRemoved {
		return shared.ErrInvalidState
	}
	if !l.CanUndo(now) {
		return shared.ErrGone
	}

	l.Status = StatusActive
	l.RemovedAt = nil
	l.UndoDeadline = nil
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewListingRestoredEvent(l))

	return nil
}

// MarkPurged records the administrative hard delete. Allowed from any
// state; the caller deletes the image asset best-effort and removes the row.
func (l *Listing) MarkPurged() error {
	if l.Status == StatusPurged {
		return shared.ErrInvalidState
	}

	l.Status = StatusPurged
	l.RemovedAt = nil
	l.UndoDeadline = nil
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewListingPurgedEvent(l))

	return nil
}

// Update updates the listing's display fields
func (l *Listing) Update(name, description string) error {
	if l.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	if err := validateName(name); err != nil {
		return err
	}

	l.Name = name
	l.Description = description
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetPrice updates the price, keeping two-decimal precision
func (l *Listing) SetPrice(price *decimal.Decimal, currency string) error {
	if l.Status.IsTerminal() {
		return shared.ErrInvalidState
	}
	rounded, err := normalizePrice(price)
	if err != nil {
		return err
	}

	l.Price = rounded
	if currency != "" {
		l.Currency = currency
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// IsActive returns true if the listing is visible in the catalog
func (l *Listing) IsActive() bool {
	return l.Status == StatusActive
}

// IsDraft returns true if the listing awaits confirmation
func (l *Listing) IsDraft() bool {
	return l.Status == StatusDraft
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Listing name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Listing name cannot exceed 200 characters")
	}
	return nil
}

// normalizePrice rejects negative prices and rounds to 2 decimal places
func normalizePrice(price *decimal.Decimal) (*decimal.Decimal, error) {
	if price == nil {
		return nil, nil
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	rounded := price.Round(2)
	return &rounded, nil
}
