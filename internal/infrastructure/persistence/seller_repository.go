package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/seller"
	"github.com/hustle/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSellerRepository implements seller.Repository using GORM
type GormSellerRepository struct {
	db *gorm.DB
}

var _ seller.Repository = (*GormSellerRepository)(nil)

// NewGormSellerRepository creates a new GormSellerRepository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// FindByID finds a seller by its ID
func (r *GormSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.Seller, error) {
	var s seller.Seller
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll finds all sellers with filtering
func (r *GormSellerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]seller.Seller, error) {
	var sellers []seller.Seller
	query := r.db.WithContext(ctx).Model(&seller.Seller{})
	query = applyFilter(query, filter, SellerSortFields)
	if err := query.Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

// Save creates or updates a seller
func (r *GormSellerRepository) Save(ctx context.Context, s *seller.Seller) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete removes a seller
func (r *GormSellerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&seller.Seller{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts sellers matching the filter
func (r *GormSellerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&seller.Seller{})
	query = applySearch(query, filter, "display_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByChannelID finds a seller by messaging channel identifier
func (r *GormSellerRepository) FindByChannelID(ctx context.Context, channelID string) (*seller.Seller, error) {
	var s seller.Seller
	if err := r.db.WithContext(ctx).First(&s, "channel_id = ?", channelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindBySlug finds a seller by catalog slug
func (r *GormSellerRepository) FindBySlug(ctx context.Context, slug string) (*seller.Seller, error) {
	var s seller.Seller
	if err := r.db.WithContext(ctx).First(&s, "catalog_slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CreateIfAbsent inserts the seller unless the channel id is already taken.
// The unique index on channel_id decides concurrent races; the loser's
// insert affects zero rows.
func (r *GormSellerRepository) CreateIfAbsent(ctx context.Context, s *seller.Seller) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel_id"}},
			DoNothing: true,
		}).
		Create(s)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SlugExists reports whether a catalog slug is already assigned
func (r *GormSellerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&seller.Seller{}).
		Where("catalog_slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies search, sorting and pagination to a query
func applyFilter(query *gorm.DB, filter shared.Filter, allowedSortFields map[string]bool) *gorm.DB {
	sortField := ValidateSortField(filter.OrderBy, allowedSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}
	return query
}

// applySearch applies an ILIKE search over the given column
func applySearch(query *gorm.DB, filter shared.Filter, column string) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(fmt.Sprintf("%s ILIKE ?", column), "%"+filter.Search+"%")
	}
	return query
}
