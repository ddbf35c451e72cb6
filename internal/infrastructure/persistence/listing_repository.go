package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/listing"
	"github.com/hustle/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormListingRepository implements listing.Repository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

var _ listing.Repository = (*GormListingRepository)(nil)

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID finds a listing by its ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var l listing.Listing
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// FindAll finds all listings with filtering
func (r *GormListingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]listing.Listing, error) {
	var listings []listing.Listing
	query := r.db.WithContext(ctx).Model(&listing.Listing{})
	query = applySearch(query, filter, "name")
	query = applyFilter(query, filter, ListingSortFields)
	if err := query.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// Save creates or updates a listing
func (r *GormListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// Delete removes a listing row permanently
func (r *GormListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&listing.Listing{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts listings matching the filter
func (r *GormListingRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&listing.Listing{})
	query = applySearch(query, filter, "name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindBySeller returns a page of a seller's listings, optionally filtered by status
func (r *GormListingRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, status *listing.Status, filter shared.Filter) (shared.Paginated[listing.Listing], error) {
	base := r.db.WithContext(ctx).Model(&listing.Listing{}).
		Where("seller_id = ?", sellerID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[listing.Listing]{}, err
	}

	var listings []listing.Listing
	query := applyFilter(base, filter, ListingSortFields)
	if err := query.Find(&listings).Error; err != nil {
		return shared.Paginated[listing.Listing]{}, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = len(listings)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	return shared.NewPaginated(listings, total, page, pageSize), nil
}

// FindActiveBySeller returns all of a seller's active listings, newest first
func (r *GormListingRepository) FindActiveBySeller(ctx context.Context, sellerID uuid.UUID) ([]listing.Listing, error) {
	var listings []listing.Listing
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND status = ?", sellerID, listing.StatusActive).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// SaveIfStatus persists the listing only if the stored row still carries the
// expected status. A zero-row update means another transition won the race.
func (r *GormListingRepository) SaveIfStatus(ctx context.Context, l *listing.Listing, expected listing.Status) error {
	result := r.db.WithContext(ctx).Model(&listing.Listing{}).
		Where("id = ? AND status = ?", l.ID, expected).
		Select("*").
		Updates(l)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountBySellerAndStatus counts a seller's listings in a given status
func (r *GormListingRepository) CountBySellerAndStatus(ctx context.Context, sellerID uuid.UUID, status listing.Status) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&listing.Listing{}).
		Where("seller_id = ? AND status = ?", sellerID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindExpiredRemoved returns removed listings whose undo deadline passed
// before the cutoff and that still hold an image asset
func (r *GormListingRepository) FindExpiredRemoved(ctx context.Context, cutoff time.Time, limit int) ([]listing.Listing, error) {
	var listings []listing.Listing
	if err := r.db.WithContext(ctx).
		Where("status = ? AND undo_deadline < ? AND image_key <> ''", listing.StatusRemoved, cutoff).
		Order("undo_deadline ASC").
		Limit(limit).
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}
