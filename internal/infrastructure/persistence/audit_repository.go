package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/audit"
	"github.com/hustle/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM. The trail is
// append-only: there is deliberately no update or delete path.
type GormAuditRepository struct {
	db *gorm.DB
}

var _ audit.Repository = (*GormAuditRepository)(nil)

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append inserts a new audit record
func (r *GormAuditRepository) Append(ctx context.Context, record *audit.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindBySeller returns a page of a seller's audit records, newest first
func (r *GormAuditRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (shared.Paginated[audit.Record], error) {
	return r.findPage(ctx, "seller_id = ?", sellerID, filter)
}

// FindByListing returns a page of a listing's audit records, newest first
func (r *GormAuditRepository) FindByListing(ctx context.Context, listingID uuid.UUID, filter shared.Filter) (shared.Paginated[audit.Record], error) {
	return r.findPage(ctx, "listing_id = ?", listingID, filter)
}

// CountByKind counts audit records of a given action kind
func (r *GormAuditRepository) CountByKind(ctx context.Context, kind audit.ActionKind) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&audit.Record{}).
		Where("kind = ?", kind).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAuditRepository) findPage(ctx context.Context, cond string, arg uuid.UUID, filter shared.Filter) (shared.Paginated[audit.Record], error) {
	base := r.db.WithContext(ctx).Model(&audit.Record{}).Where(cond, arg)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[audit.Record]{}, err
	}

	var records []audit.Record
	query := applyFilter(base, filter, AuditRecordSortFields)
	if err := query.Find(&records).Error; err != nil {
		return shared.Paginated[audit.Record]{}, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return shared.NewPaginated(records, total, page, pageSize), nil
}
