package catalogview

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/hustle/backend/internal/application/audit"
	applisting "github.com/hustle/backend/internal/application/listing"
	"github.com/hustle/backend/internal/application/notification"
	"github.com/hustle/backend/internal/domain/audit"
	"github.com/hustle/backend/internal/domain/interest"
	"github.com/hustle/backend/internal/domain/listing"
	"github.com/hustle/backend/internal/domain/seller"
	"github.com/hustle/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service serves the public catalog read model and the buyer interest flow
type Service struct {
	sellerRepo   seller.Repository
	listingRepo  listing.Repository
	interestRepo interest.Repository
	recorder     *appaudit.Recorder
	storage      applisting.ObjectStorageService
	notifier     notification.Notifier
	logger       *zap.Logger
}

// NewService creates a new catalog view Service
func NewService(
	sellerRepo seller.Repository,
	listingRepo listing.Repository,
	interestRepo interest.Repository,
	recorder *appaudit.Recorder,
	storage applisting.ObjectStorageService,
	notifier notification.Notifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		sellerRepo:   sellerRepo,
		listingRepo:  listingRepo,
		interestRepo: interestRepo,
		recorder:     recorder,
		storage:      storage,
		notifier:     notifier,
		logger:       logger,
	}
}

// CatalogResponse is the public view of a seller's catalog
type CatalogResponse struct {
	Slug        string        `json:"slug"`
	ShopName    string        `json:"shop_name"`
	Listings    []CatalogItem `json:"listings"`
	RetrievedAt time.Time     `json:"retrieved_at"`
}

// CatalogItem is one catalog-visible listing
type CatalogItem struct {
	ID       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Currency string           `json:"currency"`
	ImageURL string           `json:"image_url,omitempty"`
	ChatLink string           `json:"chat_link"`
}

// InterestRequest carries a buyer's interest submission
type InterestRequest struct {
	ListingID    uuid.UUID `json:"listing_id" binding:"required"`
	BuyerName    string    `json:"buyer_name" binding:"omitempty,max=100"`
	BuyerContact string    `json:"buyer_contact" binding:"omitempty,max=100"`
}

// InterestResponse reports the recorded signal
type InterestResponse struct {
	ID             uuid.UUID `json:"id"`
	ListingID      uuid.UUID `json:"listing_id"`
	SellerNotified bool      `json:"seller_notified"`
	ChatLink       string    `json:"chat_link"`
}

// View returns the catalog for a slug and records the view. Inactive
// sellers are indistinguishable from unknown slugs.
func (s *Service) View(ctx context.Context, slug string, meta audit.Metadata) (*CatalogResponse, error) {
	account, err := s.sellerRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !account.Active {
		return nil, shared.ErrNotFound
	}

	items, err := s.listingRepo.FindActiveBySeller(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	shopName := account.DisplayName
	if shopName == "" {
		shopName = "My Shop"
	}

	resp := &CatalogResponse{
		Slug:        account.CatalogSlug,
		ShopName:    shopName,
		Listings:    make([]CatalogItem, 0, len(items)),
		RetrievedAt: time.Now(),
	}
	for i := range items {
		l := &items[i]
		item := CatalogItem{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.Price,
			Currency: l.Currency,
			ChatLink: DeepLink(account.ChannelID, fmt.Sprintf("Hi! I'm interested in %s", l.Name)),
		}
		if l.ImageKey != "" {
			item.ImageURL = s.storage.PublicURL(l.ImageKey)
		}
		resp.Listings = append(resp.Listings, item)
	}

	accountID := account.ID
	_, _ = s.recorder.Record(ctx, audit.ActionCatalogViewed,
		audit.Refs{SellerID: &accountID},
		map[string]interface{}{"slug": slug, "listings": len(resp.Listings)},
		meta,
	)

	return resp, nil
}

// SignalInterest records buyer interest in an active listing and notifies
// the seller. Whether the notification was delivered is stored with the
// signal; a delivery failure does not fail the request.
func (s *Service) SignalInterest(ctx context.Context, slug string, req InterestRequest, meta audit.Metadata) (*InterestResponse, error) {
	account, err := s.sellerRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	l, err := s.listingRepo.FindByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if l.SellerID != account.ID || !l.IsActive() {
		return nil, shared.ErrNotFound
	}

	signal, err := interest.NewSignal(l.ID, account.ID, req.BuyerName, req.BuyerContact)
	if err != nil {
		return nil, err
	}

	buyer := req.BuyerName
	if buyer == "" {
		buyer = "A buyer"
	}
	body := fmt.Sprintf("🎉 You have an interested buyer!\n%s wants \"%s\"", buyer, l.Name)
	if req.BuyerContact != "" {
		body += fmt.Sprintf("\nContact: %s", req.BuyerContact)
	}

	if _, err := s.notifier.SendText(ctx, account.ChannelID, body); err != nil {
		s.logger.Warn("Interest notification delivery failed",
			zap.String("listing_id", l.ID.String()),
			zap.Error(err),
		)
	} else {
		signal.MarkNotified()
	}

	if err := s.interestRepo.Save(ctx, signal); err != nil {
		return nil, err
	}

	signalID := signal.ID
	sellerID := account.ID
	listingID := l.ID
	_, _ = s.recorder.Record(ctx, audit.ActionInterestSignaled,
		audit.Refs{SellerID: &sellerID, ListingID: &listingID, InterestID: &signalID},
		map[string]interface{}{
			"buyer_name": req.BuyerName,
			"notified":   signal.SellerNotified,
		},
		meta,
	)

	return &InterestResponse{
		ID:             signal.ID,
		ListingID:      l.ID,
		SellerNotified: signal.SellerNotified,
		ChatLink:       DeepLink(account.ChannelID, fmt.Sprintf("Hi! I'm interested in %s", l.Name)),
	}, nil
}
