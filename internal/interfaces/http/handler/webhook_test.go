package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appaudit "github.com/hustle/backend/internal/application/audit"
	"github.com/hustle/backend/internal/application/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAppSecret = "test-app-secret"

// stubIdempotencyStore is a canned shared.IdempotencyStore for handler tests
type stubIdempotencyStore struct {
	fresh  bool
	err    error
	marked []string
}

func (s *stubIdempotencyStore) MarkProcessed(_ context.Context, messageID string, _ time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.marked = append(s.marked, messageID)
	return s.fresh, nil
}

func (s *stubIdempotencyStore) IsProcessed(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (s *stubIdempotencyStore) Close() error { return nil }

func signPayload(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testAppSecret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func textMessagePayload(msgID, from, body string) []byte {
	return []byte(fmt.Sprintf(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"messages": [{"id": %q, "from": %q, "type": "text", "text": {"body": %q}}]
				}
			}]
		}]
	}`, msgID, from, body))
}

func newWebhookEngine(h *WebhookHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h.RegisterRoutes(engine.Group("/"))
	return engine
}

func TestWebhookVerify(t *testing.T) {
	h := NewWebhookHandler(nil, &stubIdempotencyStore{}, "verify-me", testAppSecret, zap.NewNop())
	engine := newWebhookEngine(h)

	t.Run("echoes the challenge when the token matches", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=1158201444", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1158201444", w.Body.String())
	})

	t.Run("rejects a wrong token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=123", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NotContains(t, w.Body.String(), "123")
	})

	t.Run("rejects a missing mode", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/webhook?hub.verify_token=verify-me&hub.challenge=123", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestWebhookReceive(t *testing.T) {
	post := func(engine *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if signature != "" {
			req.Header.Set("X-Hub-Signature-256", signature)
		}
		engine.ServeHTTP(w, req)
		return w
	}

	t.Run("rejects a tampered signature before touching the store", func(t *testing.T) {
		store := &stubIdempotencyStore{fresh: true}
		h := NewWebhookHandler(nil, store, "verify-me", testAppSecret, zap.NewNop())
		engine := newWebhookEngine(h)

		body := textMessagePayload("wamid.1", "15551234567", "help")
		w := post(engine, body, "sha256="+hex.EncodeToString(bytes.Repeat([]byte{0xab}, 32)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, store.marked)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		store := &stubIdempotencyStore{fresh: true}
		h := NewWebhookHandler(nil, store, "verify-me", testAppSecret, zap.NewNop())
		engine := newWebhookEngine(h)

		body := []byte(`{"entry": [`)
		w := post(engine, body, signPayload(body))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, store.marked)
	})

	// The router is nil here on purpose: a duplicate must be dropped before
	// any routing happens, so reaching the router would panic the test.
	t.Run("drops duplicate deliveries with a 200", func(t *testing.T) {
		store := &stubIdempotencyStore{fresh: false}
		h := NewWebhookHandler(nil, store, "verify-me", testAppSecret, zap.NewNop())
		engine := newWebhookEngine(h)

		body := textMessagePayload("wamid.dup", "15551234567", "help")
		w := post(engine, body, signPayload(body))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"wamid.dup"}, store.marked)
	})

	t.Run("ignores non-message change fields", func(t *testing.T) {
		store := &stubIdempotencyStore{fresh: true}
		h := NewWebhookHandler(nil, store, "verify-me", testAppSecret, zap.NewNop())
		engine := newWebhookEngine(h)

		body := []byte(`{"object": "whatsapp_business_account", "entry": [{"changes": [{"field": "statuses", "value": {}}]}]}`)
		w := post(engine, body, signPayload(body))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, store.marked)
	})

	t.Run("routes a fresh text message", func(t *testing.T) {
		audits := new(MockAuditRepository)
		notifier := new(MockNotifier)
		recorder := appaudit.NewRecorder(audits, zap.NewNop())
		// Only the collaborators the help flow reaches are wired.
		router := messaging.NewRouter(nil, nil, nil, recorder, notifier, "https://shop.example.com/c", zap.NewNop())

		audits.On("Append", mock.Anything, mock.Anything).Return(nil)
		notifier.On("SendText", mock.Anything, "15551234567", mock.Anything).Return("wamid.out", nil)

		store := &stubIdempotencyStore{fresh: true}
		h := NewWebhookHandler(router, store, "verify-me", testAppSecret, zap.NewNop())
		engine := newWebhookEngine(h)

		body := textMessagePayload("wamid.fresh", "15551234567", "help")
		w := post(engine, body, signPayload(body))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"wamid.fresh"}, store.marked)
		notifier.AssertExpectations(t)
	})
}
