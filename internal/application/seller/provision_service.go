package seller

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appaudit "github.com/hustle/backend/internal/application/audit"
	"github.com/hustle/backend/internal/application/notification"
	"github.com/hustle/backend/internal/domain/audit"
	"github.com/hustle/backend/internal/domain/seller"
	"github.com/hustle/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// maxSlugAttempts caps slug collision retries. Collisions are negligible at
// 36^8 slugs, so hitting the cap means the random source or the store is
// broken and the failure must be loud.
const maxSlugAttempts = 10

// welcomeMessage greets a newly registered seller
const welcomeMessage = "Welcome! 🎉 Your shop is ready. Send a photo of a product with a caption like \"Red Shoes $45.99\" to add your first listing."

// ProvisionService performs the idempotent lookup-or-create of a seller
// account from a messaging channel identifier.
type ProvisionService struct {
	repo     seller.Repository
	recorder *appaudit.Recorder
	notifier notification.Notifier
	logger   *zap.Logger
}

// NewProvisionService creates a new ProvisionService
func NewProvisionService(repo seller.Repository, recorder *appaudit.Recorder, notifier notification.Notifier, logger *zap.Logger) *ProvisionService {
	return &ProvisionService{
		repo:     repo,
		recorder: recorder,
		notifier: notifier,
		logger:   logger,
	}
}

// GetOrCreate returns the seller for a channel identifier, creating the
// account on first contact. Safe under concurrent invocation for the same
// identifier: creation is an atomic insert-if-absent and a lost race is
// resolved by re-fetching the winner, never surfaced as a conflict.
// Returns whether the account was newly created.
func (s *ProvisionService) GetOrCreate(ctx context.Context, channelID string) (*seller.Seller, bool, error) {
	existing, err := s.repo.FindByChannelID(ctx, channelID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	slug, err := s.generateUniqueSlug(ctx)
	if err != nil {
		return nil, false, err
	}

	account, err := seller.NewSeller(channelID, slug)
	if err != nil {
		return nil, false, err
	}

	created, err := s.repo.CreateIfAbsent(ctx, account)
	if err != nil {
		return nil, false, err
	}
	if !created {
		// Lost the race; the unique index on channel_id is the backstop.
		winner, err := s.repo.FindByChannelID(ctx, channelID)
		if err != nil {
			return nil, false, err
		}
		return winner, false, nil
	}

	accountID := account.ID
	_, _ = s.recorder.Record(ctx, audit.ActionAccountRegistered,
		audit.Refs{SellerID: &accountID},
		map[string]interface{}{
			"channel_id":   account.ChannelID,
			"catalog_slug": account.CatalogSlug,
		},
		audit.Metadata{},
	)

	if _, err := s.notifier.SendText(ctx, account.ChannelID, welcomeMessage); err != nil {
		s.logger.Warn("Welcome message delivery failed",
			zap.String("channel_id", account.ChannelID),
			zap.Error(err),
		)
	}

	return account, true, nil
}

// generateUniqueSlug draws slugs until one is absent from the store,
// failing loudly past the retry cap.
func (s *ProvisionService) generateUniqueSlug(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := seller.GenerateSlug()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		s.logger.Warn("Catalog slug collision, retrying",
			zap.String("slug", slug),
			zap.Int("attempt", attempt+1),
		)
	}
	return "", shared.NewDomainError("SLUG_EXHAUSTED", "Could not generate a unique catalog slug")
}

// GetByID returns a seller by internal id
func (s *ProvisionService) GetByID(ctx context.Context, id uuid.UUID) (*seller.Seller, error) {
	return s.repo.FindByID(ctx, id)
}
