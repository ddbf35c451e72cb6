package seller

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appaudit "github.com/hustle/backend/internal/application/audit"
	"github.com/hustle/backend/internal/application/notification"
	"github.com/hustle/backend/internal/domain/audit"
	"github.com/hustle/backend/internal/domain/seller"
	"github.com/hustle/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSellerRepository is a mock implementation of seller.Repository
type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.Seller), args.Error(1)
}

func (m *MockSellerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]seller.Seller, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]seller.Seller), args.Error(1)
}

func (m *MockSellerRepository) Save(ctx context.Context, s *seller.Seller) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSellerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSellerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSellerRepository) FindByChannelID(ctx context.Context, channelID string) (*seller.Seller, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.Seller), args.Error(1)
}

func (m *MockSellerRepository) FindBySlug(ctx context.Context, slug string) (*seller.Seller, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.Seller), args.Error(1)
}

func (m *MockSellerRepository) CreateIfAbsent(ctx context.Context, s *seller.Seller) (bool, error) {
	args := m.Called(ctx, s)
	return args.Bool(0), args.Error(1)
}

func (m *MockSellerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

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

// MockNotifier is a mock implementation of notification.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendText(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}

func (m *MockNotifier) SendImage(ctx context.Context, to, imageURL, caption string) (string, error) {
	args := m.Called(ctx, to, imageURL, caption)
	return args.String(0), args.Error(1)
}

func (m *MockNotifier) SendButtons(ctx context.Context, to, body string, buttons []notification.Button) (string, error) {
	args := m.Called(ctx, to, body, buttons)
	return args.String(0), args.Error(1)
}

func newProvisionFixture() (*ProvisionService, *MockSellerRepository, *MockAuditRepository, *MockNotifier) {
	repo := new(MockSellerRepository)
	auditRepo := new(MockAuditRepository)
	notifier := new(MockNotifier)
	recorder := appaudit.NewRecorder(auditRepo, zap.NewNop())
	svc := NewProvisionService(repo, recorder, notifier, zap.NewNop())
	return svc, repo, auditRepo, notifier
}

func TestProvisionGetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns existing account without side effects", func(t *testing.T) {
		svc, repo, auditRepo, notifier := newProvisionFixture()
		existing, err := seller.NewSeller("15551234567", "ab12cd34")
		require.NoError(t, err)

		repo.On("FindByChannelID", ctx, "15551234567").Return(existing, nil)

		account, created, err := svc.GetOrCreate(ctx, "15551234567")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existing.ID, account.ID)
		auditRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		notifier.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("creates account with audit record and welcome", func(t *testing.T) {
		svc, repo, auditRepo, notifier := newProvisionFixture()

		repo.On("FindByChannelID", ctx, "15551234567").Return(nil, shared.ErrNotFound)
		repo.On("SlugExists", ctx, mock.Anything).Return(false, nil)
		repo.On("CreateIfAbsent", ctx, mock.Anything).Return(true, nil)
		auditRepo.On("Append", ctx, mock.MatchedBy(func(r *audit.Record) bool {
			return r.Kind == audit.ActionAccountRegistered
		})).Return(nil)
		notifier.On("SendText", ctx, "15551234567", mock.Anything).Return("wamid.1", nil)

		account, created, err := svc.GetOrCreate(ctx, "15551234567")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "15551234567", account.ChannelID)
		assert.NoError(t, seller.ValidateSlug(account.CatalogSlug))
		auditRepo.AssertNumberOfCalls(t, "Append", 1)
		notifier.AssertExpectations(t)
	})

	t.Run("lost race re-fetches winner and stays quiet", func(t *testing.T) {
		svc, repo, auditRepo, notifier := newProvisionFixture()
		winner, err := seller.NewSeller("15551234567", "zz99yy88")
		require.NoError(t, err)

		repo.On("FindByChannelID", ctx, "15551234567").Return(nil, shared.ErrNotFound).Once()
		repo.On("SlugExists", ctx, mock.Anything).Return(false, nil)
		repo.On("CreateIfAbsent", ctx, mock.Anything).Return(false, nil)
		repo.On("FindByChannelID", ctx, "15551234567").Return(winner, nil).Once()

		account, created, err := svc.GetOrCreate(ctx, "15551234567")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, winner.ID, account.ID)
		auditRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		notifier.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("retries slug on collision", func(t *testing.T) {
		svc, repo, auditRepo, notifier := newProvisionFixture()

		repo.On("FindByChannelID", ctx, "15551234567").Return(nil, shared.ErrNotFound)
		repo.On("SlugExists", ctx, mock.Anything).Return(true, nil).Once()
		repo.On("SlugExists", ctx, mock.Anything).Return(false, nil).Once()
		repo.On("CreateIfAbsent", ctx, mock.Anything).Return(true, nil)
		auditRepo.On("Append", ctx, mock.Anything).Return(nil)
		notifier.On("SendText", ctx, mock.Anything, mock.Anything).Return("wamid.1", nil)

		_, created, err := svc.GetOrCreate(ctx, "15551234567")
		require.NoError(t, err)
		assert.True(t, created)
		repo.AssertNumberOfCalls(t, "SlugExists", 2)
	})

	t.Run("fails loudly when slug retries are exhausted", func(t *testing.T) {
		svc, repo, _, _ := newProvisionFixture()

		repo.On("FindByChannelID", ctx, "15551234567").Return(nil, shared.ErrNotFound)
		repo.On("SlugExists", ctx, mock.Anything).Return(true, nil)

		_, _, err := svc.GetOrCreate(ctx, "15551234567")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unique catalog slug")
	})

	t.Run("welcome delivery failure does not fail provisioning", func(t *testing.T) {
		svc, repo, auditRepo, notifier := newProvisionFixture()

		repo.On("FindByChannelID", ctx, "15551234567").Return(nil, shared.ErrNotFound)
		repo.On("SlugExists", ctx, mock.Anything).Return(false, nil)
		repo.On("CreateIfAbsent", ctx, mock.Anything).Return(true, nil)
		auditRepo.On("Append", ctx, mock.Anything).Return(nil)
		notifier.On("SendText", ctx, mock.Anything, mock.Anything).Return("", shared.ErrUpstream)

		_, created, err := svc.GetOrCreate(ctx, "15551234567")
		require.NoError(t, err)
		assert.True(t, created)
	})
}
