package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hustle/backend/internal/application/messaging"
	"github.com/hustle/backend/internal/domain/shared"
	"github.com/hustle/backend/internal/infrastructure/whatsapp"
	"github.com/hustle/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// dedupTTL is how long processed message IDs are remembered. The platform
// retries failed deliveries for up to a day.
const dedupTTL = 24 * time.Hour

// WebhookHandler receives WhatsApp Cloud API webhook callbacks: the GET
// subscription handshake and POSTed inbound events.
type WebhookHandler struct {
	BaseHandler
	router      *messaging.Router
	idempotency shared.IdempotencyStore
	verifyToken string
	appSecret   string
	logger      *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(
	router *messaging.Router,
	idempotency shared.IdempotencyStore,
	verifyToken, appSecret string,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		router:      router,
		idempotency: idempotency,
		verifyToken: verifyToken,
		appSecret:   appSecret,
		logger:      logger,
	}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/webhook", h.Verify)
	rg.POST("/webhook", h.Receive)
}

// Verify answers the platform's subscription handshake. The challenge is
// echoed back as plain text when the verify token matches.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "subscribe" || token != h.verifyToken {
		h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "Webhook verification failed")
		return
	}

	c.String(http.StatusOK, challenge)
}

// webhookPayload is the Cloud API event envelope
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string       `json:"field"`
			Value webhookValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []webhookMessage `json:"messages"`
}

type webhookMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
	Image *struct {
		ID      string `json:"id"`
		Caption string `json:"caption"`
	} `json:"image"`
	Interactive *struct {
		Type        string `json:"type"`
		ButtonReply *struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
	} `json:"interactive"`
}

// Receive handles POSTed webhook events. The platform retries on non-2xx,
// so the response is 200 even when individual events fail; duplicates are
// absorbed by the idempotency store before any side effect runs.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	if !whatsapp.VerifySignature(h.appSecret, body, c.GetHeader("X-Hub-Signature-256")) {
		h.Unauthorized(c, dto.ErrCodeInvalidSignature, "Webhook signature verification failed")
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed webhook payload")
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			for _, msg := range change.Value.Messages {
				h.processMessage(c, msg)
			}
		}
	}

	h.Success(c, gin.H{"received": true})
}

func (h *WebhookHandler) processMessage(c *gin.Context, msg webhookMessage) {
	ctx := c.Request.Context()

	fresh, err := h.idempotency.MarkProcessed(ctx, msg.ID, dedupTTL)
	if err != nil {
		h.logger.Error("Idempotency check failed, skipping message",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		return
	}
	if !fresh {
		h.logger.Debug("Duplicate webhook delivery dropped",
			zap.String("message_id", msg.ID),
		)
		return
	}

	event, ok := toEvent(msg)
	if !ok {
		h.logger.Debug("Unsupported message type dropped",
			zap.String("message_id", msg.ID),
			zap.String("type", msg.Type),
		)
		return
	}

	if err := h.router.Route(ctx, event); err != nil {
		h.logger.Error("Event routing failed",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
	}
}

// toEvent maps a platform message onto a router event variant
func toEvent(msg webhookMessage) (messaging.Event, bool) {
	switch msg.Type {
	case "text":
		if msg.Text == nil {
			return nil, false
		}
		return messaging.TextEvent{
			From:       msg.From,
			Body:       msg.Text.Body,
			ExternalID: msg.ID,
		}, true
	case "image":
		if msg.Image == nil {
			return nil, false
		}
		return messaging.ImageEvent{
			From:       msg.From,
			MediaRef:   msg.Image.ID,
			Caption:    msg.Image.Caption,
			ExternalID: msg.ID,
		}, true
	case "interactive":
		if msg.Interactive == nil || msg.Interactive.ButtonReply == nil {
			return nil, false
		}
		return messaging.ButtonTapEvent{
			From:       msg.From,
			ButtonID:   msg.Interactive.ButtonReply.ID,
			ExternalID: msg.ID,
		}, true
	default:
		return nil, false
	}
}
