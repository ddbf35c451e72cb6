package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appaudit "github.com/hustle/backend/internal/application/audit"
	"github.com/hustle/backend/internal/application/catalogview"
	"github.com/hustle/backend/internal/application/notification"
	"github.com/hustle/backend/internal/domain/audit"
	"github.com/hustle/backend/internal/domain/interest"
	"github.com/hustle/backend/internal/domain/listing"
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

// MockListingRepository is a mock implementation of listing.Repository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]listing.Listing, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]listing.Listing), args.Error(1)
}

func (m *MockListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, status *listing.Status, filter shared.Filter) (shared.Paginated[listing.Listing], error) {
	args := m.Called(ctx, sellerID, status, filter)
	return args.Get(0).(shared.Paginated[listing.Listing]), args.Error(1)
}

func (m *MockListingRepository) FindActiveBySeller(ctx context.Context, sellerID uuid.UUID) ([]listing.Listing, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]listing.Listing), args.Error(1)
}

func (m *MockListingRepository) SaveIfStatus(ctx context.Context, l *listing.Listing, expected listing.Status) error {
	args := m.Called(ctx, l, expected)
	return args.Error(0)
}

func (m *MockListingRepository) CountBySellerAndStatus(ctx context.Context, sellerID uuid.UUID, status listing.Status) (int64, error) {
	args := m.Called(ctx, sellerID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) FindExpiredRemoved(ctx context.Context, cutoff time.Time, limit int) ([]listing.Listing, error) {
	args := m.Called(ctx, cutoff, limit)
	return args.Get(0).([]listing.Listing), args.Error(1)
}

// MockInterestRepository is a mock implementation of interest.Repository
type MockInterestRepository struct {
	mock.Mock
}

func (m *MockInterestRepository) FindByID(ctx context.Context, id uuid.UUID) (*interest.Signal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interest.Signal), args.Error(1)
}

func (m *MockInterestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]interest.Signal, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]interest.Signal), args.Error(1)
}

func (m *MockInterestRepository) Save(ctx context.Context, s *interest.Signal) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockInterestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInterestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInterestRepository) FindByListing(ctx context.Context, listingID uuid.UUID, filter shared.Filter) (shared.Paginated[interest.Signal], error) {
	args := m.Called(ctx, listingID, filter)
	return args.Get(0).(shared.Paginated[interest.Signal]), args.Error(1)
}

func (m *MockInterestRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
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

// MockObjectStorage is a mock implementation of listing.ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) PutObject(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectStorage) PublicURL(storageKey string) string {
	args := m.Called(storageKey)
	return args.String(0)
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

type catalogFixture struct {
	engine    *gin.Engine
	sellers   *MockSellerRepository
	listings  *MockListingRepository
	interests *MockInterestRepository
	audits    *MockAuditRepository
	storage   *MockObjectStorage
	notifier  *MockNotifier
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		sellers:   new(MockSellerRepository),
		listings:  new(MockListingRepository),
		interests: new(MockInterestRepository),
		audits:    new(MockAuditRepository),
		storage:   new(MockObjectStorage),
		notifier:  new(MockNotifier),
	}
	logger := zap.NewNop()
	recorder := appaudit.NewRecorder(f.audits, logger)
	service := catalogview.NewService(f.sellers, f.listings, f.interests, recorder, f.storage, f.notifier, logger)
	handler := NewCatalogHandler(service)

	gin.SetMode(gin.TestMode)
	f.engine = gin.New()
	handler.RegisterRoutes(f.engine.Group("/"))
	return f
}

func catalogSeller(t *testing.T) *seller.Seller {
	t.Helper()
	s, err := seller.NewSeller("15551234567", "ab12cd34")
	require.NoError(t, err)
	s.DisplayName = "Maria's Shoes"
	return s
}

func activeListing(t *testing.T, sellerID uuid.UUID) *listing.Listing {
	t.Helper()
	l, err := listing.NewListing(sellerID, "Red Shoes", "", "listings/red-shoes.jpg", nil, "USD")
	require.NoError(t, err)
	require.NoError(t, l.Confirm())
	return l
}

func TestCatalogView(t *testing.T) {
	t.Run("returns the active catalog for a known slug", func(t *testing.T) {
		f := newCatalogFixture()
		account := catalogSeller(t)
		item := activeListing(t, account.ID)

		f.sellers.On("FindBySlug", mock.Anything, "ab12cd34").Return(account, nil)
		f.listings.On("FindActiveBySeller", mock.Anything, account.ID).Return([]listing.Listing{*item}, nil)
		f.storage.On("PublicURL", "listings/red-shoes.jpg").Return("https://cdn.example.com/listings/red-shoes.jpg")
		f.audits.On("Append", mock.Anything, mock.MatchedBy(func(r *audit.Record) bool {
			return r.Kind == audit.ActionCatalogViewed
		})).Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/c/ab12cd34", nil)
		f.engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool                        `json:"success"`
			Data    catalogview.CatalogResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Maria's Shoes", resp.Data.ShopName)
		require.Len(t, resp.Data.Listings, 1)
		assert.Equal(t, "Red Shoes", resp.Data.Listings[0].Name)
		assert.Equal(t, "https://cdn.example.com/listings/red-shoes.jpg", resp.Data.Listings[0].ImageURL)
		assert.Contains(t, resp.Data.Listings[0].ChatLink, "wa.me/15551234567")
	})

	t.Run("answers 404 for an unknown slug", func(t *testing.T) {
		f := newCatalogFixture()
		f.sellers.On("FindBySlug", mock.Anything, "nosuch").Return(nil, shared.ErrNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/c/nosuch", nil)
		f.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})

	t.Run("answers 404 for a deactivated seller", func(t *testing.T) {
		f := newCatalogFixture()
		account := catalogSeller(t)
		account.Deactivate()
		f.sellers.On("FindBySlug", mock.Anything, "ab12cd34").Return(account, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/c/ab12cd34", nil)
		f.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCatalogSignalInterest(t *testing.T) {
	postInterest := func(f *catalogFixture, slug string, body any) *httptest.ResponseRecorder {
		raw, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/c/"+slug+"/interest", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		f.engine.ServeHTTP(w, req)
		return w
	}

	t.Run("records interest and notifies the seller", func(t *testing.T) {
		f := newCatalogFixture()
		account := catalogSeller(t)
		item := activeListing(t, account.ID)

		f.sellers.On("FindBySlug", mock.Anything, "ab12cd34").Return(account, nil)
		f.listings.On("FindByID", mock.Anything, item.ID).Return(item, nil)
		f.notifier.On("SendText", mock.Anything, account.ChannelID, mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "Red Shoes")
		})).Return("wamid.1", nil)
		f.interests.On("Save", mock.Anything, mock.MatchedBy(func(s *interest.Signal) bool {
			return s.ListingID == item.ID && s.SellerNotified
		})).Return(nil)
		f.audits.On("Append", mock.Anything, mock.MatchedBy(func(r *audit.Record) bool {
			return r.Kind == audit.ActionInterestSignaled
		})).Return(nil)

		w := postInterest(f, "ab12cd34", gin.H{
			"listing_id": item.ID.String(),
			"buyer_name": "Alex",
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Success bool                         `json:"success"`
			Data    catalogview.InterestResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.True(t, resp.Data.SellerNotified)
		assert.Equal(t, item.ID, resp.Data.ListingID)
		f.interests.AssertExpectations(t)
	})

	t.Run("rejects interest in a draft listing", func(t *testing.T) {
		f := newCatalogFixture()
		account := catalogSeller(t)
		draft, err := listing.NewListing(account.ID, "Red Shoes", "", "listings/red-shoes.jpg", nil, "USD")
		require.NoError(t, err)

		f.sellers.On("FindBySlug", mock.Anything, "ab12cd34").Return(account, nil)
		f.listings.On("FindByID", mock.Anything, draft.ID).Return(draft, nil)

		w := postInterest(f, "ab12cd34", gin.H{"listing_id": draft.ID.String()})

		assert.Equal(t, http.StatusNotFound, w.Code)
		f.interests.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a body without a listing id", func(t *testing.T) {
		f := newCatalogFixture()

		w := postInterest(f, "ab12cd34", gin.H{"buyer_name": "Alex"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.sellers.AssertNotCalled(t, "FindBySlug", mock.Anything, mock.Anything)
	})
}
