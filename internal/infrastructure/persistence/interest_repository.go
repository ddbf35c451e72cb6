package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/interest"
	"github.com/hustle/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInterestRepository implements interest.Repository using GORM
type GormInterestRepository struct {
	db *gorm.DB
}

var _ interest.Repository = (*GormInterestRepository)(nil)

// NewGormInterestRepository creates a new GormInterestRepository
func NewGormInterestRepository(db *gorm.DB) *GormInterestRepository {
	return &GormInterestRepository{db: db}
}

// FindByID finds an interest signal by its ID
func (r *GormInterestRepository) FindByID(ctx context.Context, id uuid.UUID) (*interest.Signal, error) {
	var s interest.Signal
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll finds all interest signals with filtering
func (r *GormInterestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]interest.Signal, error) {
	var signals []interest.Signal
	query := r.db.WithContext(ctx).Model(&interest.Signal{})
	query = applyFilter(query, filter, InterestSortFields)
	if err := query.Find(&signals).Error; err != nil {
		return nil, err
	}
	return signals, nil
}

// Save creates or updates an interest signal
func (r *GormInterestRepository) Save(ctx context.Context, s *interest.Signal) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete removes an interest signal
func (r *GormInterestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&interest.Signal{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts interest signals matching the filter
func (r *GormInterestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&interest.Signal{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByListing returns signals recorded against a listing
func (r *GormInterestRepository) FindByListing(ctx context.Context, listingID uuid.UUID, filter shared.Filter) (shared.Paginated[interest.Signal], error) {
	base := r.db.WithContext(ctx).Model(&interest.Signal{}).
		Where("listing_id = ?", listingID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[interest.Signal]{}, err
	}

	var signals []interest.Signal
	query := applyFilter(base, filter, InterestSortFields)
	if err := query.Find(&signals).Error; err != nil {
		return shared.Paginated[interest.Signal]{}, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return shared.NewPaginated(signals, total, page, pageSize), nil
}

// CountBySeller counts signals across all of a seller's listings
func (r *GormInterestRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&interest.Signal{}).
		Where("seller_id = ?", sellerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
