package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	appaudit "github.com/hustle/backend/internal/application/audit"
	applisting "github.com/hustle/backend/internal/application/listing"
	"github.com/hustle/backend/internal/application/notification"
	appseller "github.com/hustle/backend/internal/application/seller"
	"github.com/hustle/backend/internal/domain/audit"
	"github.com/hustle/backend/internal/domain/seller"
	"github.com/hustle/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	welcomeBackMessage = "Welcome back! 👋 Send a photo to add a product, or type \"link\" to get your catalog link."

	helpMessage = "Here's how it works:\n" +
		"📸 Send a photo with a caption like \"Red Shoes $45.99\" to add a product\n" +
		"🔗 Type \"link\" to get your shareable catalog link\n" +
		"❓ Type \"help\" to see this message again"

	fallbackMessage = "I didn't catch that. Send a photo to add a product, or type \"help\" to see what I can do."

	notFoundMessage = "Hmm, I couldn't find that product. It may have already been handled."
)

// Router classifies inbound events and invokes the provisioner and the
// lifecycle engine accordingly. Each event is one independent unit of work.
type Router struct {
	provisioner *appseller.ProvisionService
	lifecycle   *applisting.LifecycleService
	sellerRepo  seller.Repository
	recorder    *appaudit.Recorder
	notifier    notification.Notifier
	catalogBase string
	logger      *zap.Logger
}

// NewRouter creates a new Router. catalogBase is the public base URL that
// catalog slugs are appended to.
func NewRouter(
	provisioner *appseller.ProvisionService,
	lifecycle *applisting.LifecycleService,
	sellerRepo seller.Repository,
	recorder *appaudit.Recorder,
	notifier notification.Notifier,
	catalogBase string,
	logger *zap.Logger,
) *Router {
	return &Router{
		provisioner: provisioner,
		lifecycle:   lifecycle,
		sellerRepo:  sellerRepo,
		recorder:    recorder,
		notifier:    notifier,
		catalogBase: strings.TrimRight(catalogBase, "/"),
		logger:      logger,
	}
}

// Route handles one inbound event. Classification failures and unknown
// references answer the sender directly; only infrastructure errors
// propagate to the webhook layer.
func (r *Router) Route(ctx context.Context, event Event) error {
	r.recordInbound(ctx, event)

	switch e := event.(type) {
	case TextEvent:
		return r.routeText(ctx, e)
	case ImageEvent:
		return r.routeImage(ctx, e)
	case ButtonTapEvent:
		return r.routeButtonTap(ctx, e)
	default:
		r.logger.Warn("Unknown event variant dropped")
		return nil
	}
}

func (r *Router) routeText(ctx context.Context, e TextEvent) error {
	switch ClassifyText(e.Body) {
	case IntentRegistration:
		return r.handleRegistration(ctx, e.From)
	case IntentHelp:
		r.reply(ctx, e.From, helpMessage)
		return nil
	case IntentCatalogLink:
		return r.handleCatalogLink(ctx, e.From)
	default:
		r.reply(ctx, e.From, fallbackMessage)
		return nil
	}
}

// handleRegistration provisions the account. The provisioner welcomes a new
// seller itself; a returning seller gets the welcome-back reply here.
func (r *Router) handleRegistration(ctx context.Context, from string) error {
	_, created, err := r.provisioner.GetOrCreate(ctx, from)
	if err != nil {
		return err
	}
	if !created {
		r.reply(ctx, from, welcomeBackMessage)
	}
	return nil
}

func (r *Router) handleCatalogLink(ctx context.Context, from string) error {
	account, err := r.sellerRepo.FindByChannelID(ctx, from)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			r.reply(ctx, from, "You don't have a shop yet. Type \"start\" to create one!")
			return nil
		}
		return err
	}

	link := fmt.Sprintf("%s/%s", r.catalogBase, account.CatalogSlug)
	r.reply(ctx, from, fmt.Sprintf("🛍️ Here's your catalog link:\n%s\nShare it with your customers!", link))
	return nil
}

// routeImage always routes to intake, auto-provisioning the sender first
func (r *Router) routeImage(ctx context.Context, e ImageEvent) error {
	account, _, err := r.provisioner.GetOrCreate(ctx, e.From)
	if err != nil {
		return err
	}

	if _, err := r.lifecycle.Intake(ctx, account, e.MediaRef, e.Caption); err != nil {
		// Upstream failures already answered the sender; validation
		// failures get an explanatory reply.
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && !errors.Is(err, shared.ErrUpstream) {
			r.reply(ctx, e.From, fmt.Sprintf("Sorry, that didn't work: %s", domainErr.Message))
			return nil
		}
		r.recordError(ctx, account, err)
		return nil
	}
	return nil
}

// routeButtonTap parses <verb>_<listingId> button ids. Unknown verbs are
// ignored; an unparseable or unknown listing id answers NotFound with no
// state mutation.
func (r *Router) routeButtonTap(ctx context.Context, e ButtonTapEvent) error {
	verb, rawID, ok := splitButtonID(e.ButtonID)
	if !ok {
		return nil
	}

	listingID, err := uuid.Parse(rawID)
	if err != nil {
		r.reply(ctx, e.From, notFoundMessage)
		return nil
	}

	switch verb {
	case "confirm_add":
		_, err = r.lifecycle.Confirm(ctx, listingID)
	case "cancel_add":
		err = r.lifecycle.Cancel(ctx, listingID)
	}

	if err != nil {
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrInvalidState) {
			r.reply(ctx, e.From, notFoundMessage)
			return nil
		}
		return err
	}
	return nil
}

// splitButtonID parses button ids of the form <verb>_<listingId>.
// Only the known verbs match; anything else is not ours to handle.
func splitButtonID(buttonID string) (verb, id string, ok bool) {
	for _, v := range []string{"confirm_add", "cancel_add"} {
		if strings.HasPrefix(buttonID, v+"_") {
			return v, buttonID[len(v)+1:], true
		}
	}
	return "", "", false
}

func (r *Router) reply(ctx context.Context, to, body string) {
	if _, err := r.notifier.SendText(ctx, to, body); err != nil {
		r.logger.Warn("Reply delivery failed",
			zap.String("to", to),
			zap.Error(err),
		)
	}
}

func (r *Router) recordInbound(ctx context.Context, event Event) {
	payload := map[string]interface{}{"sender": event.Sender()}
	switch e := event.(type) {
	case TextEvent:
		payload["type"] = "text"
		payload["body"] = e.Body
	case ImageEvent:
		payload["type"] = "image"
		payload["caption"] = e.Caption
	case ButtonTapEvent:
		payload["type"] = "button"
		payload["button_id"] = e.ButtonID
	}

	_, _ = r.recorder.Record(ctx, audit.ActionMessageReceived, audit.Refs{}, payload,
		audit.Metadata{ExternalMessageID: event.MessageID()})
}

func (r *Router) recordError(ctx context.Context, account *seller.Seller, err error) {
	refs := audit.Refs{}
	if account != nil {
		id := account.ID
		refs.SellerID = &id
	}
	_, _ = r.recorder.Record(ctx, audit.ActionError, refs,
		map[string]interface{}{"error": err.Error()}, audit.Metadata{})
}
