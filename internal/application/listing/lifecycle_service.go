package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/hustle/backend/internal/application/audit"
	"github.com/hustle/backend/internal/application/notification"
	"github.com/hustle/backend/internal/domain/audit"
	"github.com/hustle/backend/internal/domain/listing"
	"github.com/hustle/backend/internal/domain/seller"
	"github.com/hustle/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LifecycleService drives a listing through its lifecycle. Every transition
// checks its precondition and writes the new state in one conditional
// statement against the store, emits exactly one audit record, and sends the
// outbound notifications the flow calls for.
type LifecycleService struct {
	listingRepo listing.Repository
	sellerRepo  seller.Repository
	recorder    *appaudit.Recorder
	storage     ObjectStorageService
	media       notification.MediaResolver
	notifier    notification.Notifier
	logger      *zap.Logger
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(
	listingRepo listing.Repository,
	sellerRepo seller.Repository,
	recorder *appaudit.Recorder,
	storage ObjectStorageService,
	media notification.MediaResolver,
	notifier notification.Notifier,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		listingRepo: listingRepo,
		sellerRepo:  sellerRepo,
		recorder:    recorder,
		storage:     storage,
		media:       media,
		notifier:    notifier,
		logger:      logger,
	}
}

// Intake turns an inbound image into a draft listing and prompts the seller
// to confirm or cancel. The image is resolved, downloaded, and validated
// before any row is written; a download failure aborts the intake with no
// partial draft left behind.
func (s *LifecycleService) Intake(ctx context.Context, account *seller.Seller, mediaID, caption string) (*ListingResponse, error) {
	url, err := s.media.ResolveMediaURL(ctx, mediaID)
	if err != nil {
		s.notifyIntakeFailure(ctx, account.ChannelID)
		return nil, shared.ErrUpstream
	}

	data, contentType, err := s.media.Download(ctx, url)
	if err != nil {
		s.notifyIntakeFailure(ctx, account.ChannelID)
		return nil, shared.ErrUpstream
	}

	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_IMAGE_TYPE", "Only JPEG, PNG and WebP images are supported")
	}
	if len(data) > MaxImageSize {
		return nil, shared.NewDomainError("IMAGE_TOO_LARGE", "Image exceeds the 10MB size limit")
	}

	storageKey := fmt.Sprintf("listings/%s%s", uuid.New().String(), ext)
	if err := s.storage.PutObject(ctx, storageKey, data, contentType); err != nil {
		s.notifyIntakeFailure(ctx, account.ChannelID)
		return nil, shared.ErrUpstream
	}

	parsed := listing.ParseCaption(caption)
	l, err := listing.NewListing(account.ID, parsed.Name, "", storageKey, parsed.Price, parsed.Currency)
	if err != nil {
		return nil, err
	}

	if err := s.listingRepo.Save(ctx, l); err != nil {
		return nil, err
	}

	s.audit(ctx, audit.ActionProductUploaded, l, map[string]interface{}{
		"name":    l.Name,
		"price":   priceString(l),
		"caption": caption,
	})

	s.sendConfirmPrompt(ctx, account.ChannelID, l)

	return toListingResponse(l, s.storage), nil
}

// Confirm publishes a draft listing to the catalog
func (s *LifecycleService) Confirm(ctx context.Context, id uuid.UUID) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := l.Confirm(); err != nil {
		return nil, err
	}
	if err := s.listingRepo.SaveIfStatus(ctx, l, listing.StatusDraft); err != nil {
		return nil, err
	}

	s.audit(ctx, audit.ActionProductConfirmed, l, map[string]interface{}{"name": l.Name})
	s.notifyOwner(ctx, l, fmt.Sprintf("✅ \"%s\" is now live in your catalog!", l.Name))

	return toListingResponse(l, s.storage), nil
}

// Cancel discards a draft intake, deleting its image asset and its row
func (s *LifecycleService) Cancel(ctx context.Context, id uuid.UUID) error {
	l, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := l.Discard(); err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, l.ImageKey); err != nil {
		s.logger.Warn("Image asset delete failed during cancel",
			zap.String("listing_id", l.ID.String()),
			zap.String("image_key", l.ImageKey),
			zap.Error(err),
		)
	}

	if err := s.listingRepo.Delete(ctx, l.ID); err != nil {
		return err
	}

	s.audit(ctx, audit.ActionProductCancelled, l, map[string]interface{}{"name": l.Name})
	s.notifyOwner(ctx, l, "❌ Upload cancelled. Send another photo anytime.")

	return nil
}

// Remove soft-deletes a batch of active listings, opening the undo window
// for each. Listings that are not currently active are skipped, not errors;
// the removed ids are returned.
func (s *LifecycleService) Remove(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	removed := make([]uuid.UUID, 0, len(ids))
	now := time.Now()

	for _, id := range ids {
		l, err := s.listingRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return removed, err
		}

		if err := l.Remove(now); err != nil {
			continue
		}
		if err := s.listingRepo.SaveIfStatus(ctx, l, listing.StatusActive); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				continue
			}
			return removed, err
		}

		s.audit(ctx, audit.ActionProductRemoved, l, map[string]interface{}{
			"name":          l.Name,
			"undo_deadline": l.UndoDeadline,
		})
		removed = append(removed, id)
	}

	return removed, nil
}

// Restore returns a removed listing to the catalog while the undo window is
// open. The deadline is evaluated lazily here; an expired window fails with
// a Gone error and mutates nothing.
func (s *LifecycleService) Restore(ctx context.Context, id uuid.UUID) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := l.Restore(time.Now()); err != nil {
		return nil, err
	}
	if err := s.listingRepo.SaveIfStatus(ctx, l, listing.StatusRemoved); err != nil {
		return nil, err
	}

	s.audit(ctx, audit.ActionProductRestored, l, map[string]interface{}{"name": l.Name})

	return toListingResponse(l, s.storage), nil
}

// Purge hard-deletes a listing from any state. The image asset delete is
// best-effort and never blocks removal of the row.
func (s *LifecycleService) Purge(ctx context.Context, id uuid.UUID) error {
	l, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := l.MarkPurged(); err != nil {
		return err
	}

	if l.ImageKey != "" {
		if err := s.storage.DeleteObject(ctx, l.ImageKey); err != nil {
			s.logger.Warn("Image asset delete failed during purge",
				zap.String("listing_id", l.ID.String()),
				zap.String("image_key", l.ImageKey),
				zap.Error(err),
			)
		}
	}

	if err := s.listingRepo.Delete(ctx, l.ID); err != nil {
		return err
	}

	s.audit(ctx, audit.ActionProductRemoved, l, map[string]interface{}{
		"name":   l.Name,
		"purged": true,
	})

	return nil
}

// Get returns a single listing
func (s *LifecycleService) Get(ctx context.Context, id uuid.UUID) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toListingResponse(l, s.storage), nil
}

// ListBySeller returns a seller's listings with optional status filtering
func (s *LifecycleService) ListBySeller(ctx context.Context, sellerID uuid.UUID, status *listing.Status, filter shared.Filter) (shared.Paginated[ListingResponse], error) {
	page, err := s.listingRepo.FindBySeller(ctx, sellerID, status, filter)
	if err != nil {
		return shared.Paginated[ListingResponse]{}, err
	}

	items := make([]ListingResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toListingResponse(&page.Items[i], s.storage))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Update changes a listing's display fields and price
func (s *LifecycleService) Update(ctx context.Context, id uuid.UUID, req UpdateListingRequest) (*ListingResponse, error) {
	l, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := l.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := l.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := l.Update(name, description); err != nil {
		return nil, err
	}

	if req.Price != nil {
		if err := l.SetPrice(req.Price, req.Currency); err != nil {
			return nil, err
		}
	}

	if err := s.listingRepo.Save(ctx, l); err != nil {
		return nil, err
	}

	return toListingResponse(l, s.storage), nil
}

// SweepExpiredAssets reclaims image assets of removed listings whose undo
// deadline lapsed before the retention cutoff. Listing state is untouched;
// only the orphaned asset is deleted.
func (s *LifecycleService) SweepExpiredAssets(ctx context.Context, retention time.Duration, limit int) (int, error) {
	cutoff := time.Now().Add(-retention)
	expired, err := s.listingRepo.FindExpiredRemoved(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	reclaimed := 0
	for i := range expired {
		l := &expired[i]
		if l.ImageKey == "" {
			continue
		}
		if err := s.storage.DeleteObject(ctx, l.ImageKey); err != nil {
			s.logger.Warn("Asset sweep delete failed",
				zap.String("listing_id", l.ID.String()),
				zap.Error(err),
			)
			continue
		}
		l.ImageKey = ""
		if err := s.listingRepo.Save(ctx, l); err != nil {
			return reclaimed, err
		}
		reclaimed++
	}

	return reclaimed, nil
}

// sendConfirmPrompt asks the seller to confirm or cancel a fresh draft
func (s *LifecycleService) sendConfirmPrompt(ctx context.Context, channelID string, l *listing.Listing) {
	body := fmt.Sprintf("Got it! \"%s\"", l.Name)
	if l.Price != nil {
		body = fmt.Sprintf("Got it! \"%s\" for %s %s", l.Name, l.Currency, l.Price.StringFixed(2))
	}
	body += "\nAdd this to your catalog?"

	buttons := []notification.Button{
		{ID: fmt.Sprintf("confirm_add_%s", l.ID), Title: "✅ Add"},
		{ID: fmt.Sprintf("cancel_add_%s", l.ID), Title: "❌ Cancel"},
	}

	if _, err := s.notifier.SendButtons(ctx, channelID, body, buttons); err != nil {
		s.logger.Warn("Confirm prompt delivery failed",
			zap.String("listing_id", l.ID.String()),
			zap.Error(err),
		)
	}
}

// notifyOwner sends a text message to the listing's owner
func (s *LifecycleService) notifyOwner(ctx context.Context, l *listing.Listing, body string) {
	account, err := s.sellerRepo.FindByID(ctx, l.SellerID)
	if err != nil {
		s.logger.Warn("Owner lookup failed for notification",
			zap.String("listing_id", l.ID.String()),
			zap.Error(err),
		)
		return
	}
	if _, err := s.notifier.SendText(ctx, account.ChannelID, body); err != nil {
		s.logger.Warn("Owner notification delivery failed",
			zap.String("listing_id", l.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *LifecycleService) notifyIntakeFailure(ctx context.Context, channelID string) {
	if _, err := s.notifier.SendText(ctx, channelID, "Sorry, we couldn't download that photo. Please try sending it again."); err != nil {
		s.logger.Warn("Intake failure notification not delivered",
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
	}
}

// audit emits the single record that belongs to a transition
func (s *LifecycleService) audit(ctx context.Context, kind audit.ActionKind, l *listing.Listing, payload map[string]interface{}) {
	listingID := l.ID
	sellerID := l.SellerID
	_, _ = s.recorder.Record(ctx, kind,
		audit.Refs{SellerID: &sellerID, ListingID: &listingID},
		payload,
		audit.Metadata{},
	)
}

func priceString(l *listing.Listing) interface{} {
	if l.Price == nil {
		return nil
	}
	return l.Price.StringFixed(2)
}
