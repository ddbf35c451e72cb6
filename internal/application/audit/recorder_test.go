package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hustle/backend/internal/domain/audit"
	"github.com/hustle/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, r *audit.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockAuditRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (shared.Paginated[audit.Record], error) {
	args := m.Called(ctx, sellerID, filter)
	return args.Get(0).(shared.Paginated[audit.Record]), args.Error(1)
}

func (m *MockAuditRepository) FindByListing(ctx context.Context, listingID uuid.UUID, filter shared.Filter) (shared.Paginated[audit.Record], error) {
	args := m.Called(ctx, listingID, filter)
	return args.Get(0).(shared.Paginated[audit.Record]), args.Error(1)
}

func (m *MockAuditRepository) CountByKind(ctx context.Context, kind audit.ActionKind) (int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(int64), args.Error(1)
}

func TestRecorderRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("persists record with payload and references", func(t *testing.T) {
		repo := new(MockAuditRepository)
		recorder := NewRecorder(repo, zap.NewNop())
		sellerID := uuid.New()

		repo.On("Append", ctx, mock.MatchedBy(func(r *audit.Record) bool {
			return r.Kind == audit.ActionProductConfirmed &&
				r.SellerID != nil && *r.SellerID == sellerID
		})).Return(nil)

		record, err := recorder.Record(ctx, audit.ActionProductConfirmed,
			audit.Refs{SellerID: &sellerID},
			map[string]interface{}{"name": "Red Shoes"},
			audit.Metadata{},
		)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Contains(t, record.Payload, "Red Shoes")
		repo.AssertExpectations(t)
	})

	t.Run("nil payload stores empty object", func(t *testing.T) {
		repo := new(MockAuditRepository)
		recorder := NewRecorder(repo, zap.NewNop())

		repo.On("Append", ctx, mock.Anything).Return(nil)

		record, err := recorder.Record(ctx, audit.ActionError, audit.Refs{}, nil, audit.Metadata{})
		require.NoError(t, err)
		assert.Equal(t, "{}", record.Payload)
	})

	t.Run("write failure reports distinguishable outcome", func(t *testing.T) {
		repo := new(MockAuditRepository)
		recorder := NewRecorder(repo, zap.NewNop())

		repo.On("Append", ctx, mock.Anything).Return(errors.New("connection refused"))

		record, err := recorder.Record(ctx, audit.ActionMessageSent, audit.Refs{}, nil, audit.Metadata{})
		assert.Nil(t, record)
		assert.Equal(t, ErrWriteFailed, err)
	})

	t.Run("unknown kind reports write failure", func(t *testing.T) {
		repo := new(MockAuditRepository)
		recorder := NewRecorder(repo, zap.NewNop())

		record, err := recorder.Record(ctx, audit.ActionKind("NOPE"), audit.Refs{}, nil, audit.Metadata{})
		assert.Nil(t, record)
		assert.Equal(t, ErrWriteFailed, err)
		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}
