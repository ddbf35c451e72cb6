package whatsapp

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/hustle/backend/internal/application/notification"
	infraconfig "github.com/hustle/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&infraconfig.WhatsAppConfig{
		APIBaseURL:    server.URL,
		AccessToken:   "test-token",
		PhoneNumberID: "123456789",
		Timeout:       5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return client, server
}

func TestNewClient(t *testing.T) {
	t.Run("requires access token", func(t *testing.T) {
		_, err := NewClient(&infraconfig.WhatsAppConfig{PhoneNumberID: "123"}, nil)
		assert.Error(t, err)
	})

	t.Run("requires phone number ID", func(t *testing.T) {
		_, err := NewClient(&infraconfig.WhatsAppConfig{AccessToken: "tok"}, nil)
		assert.Error(t, err)
	})
}

func TestClient_SendText(t *testing.T) {
	t.Run("posts message and returns message ID", func(t *testing.T) {
		var captured map[string]interface{}
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/123456789/messages", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.out1"}]}`))
		}))

		id, err := client.SendText(context.Background(), "15551234567", "hello")
		require.NoError(t, err)
		assert.Equal(t, "wamid.out1", id)
		assert.Equal(t, "whatsapp", captured["messaging_product"])
		assert.Equal(t, "text", captured["type"])
		assert.Equal(t, "15551234567", captured["to"])
	})

	t.Run("surfaces API error details", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid recipient","type":"OAuthException","code":131026}}`))
		}))

		_, err := client.SendText(context.Background(), "bad", "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "131026")
		assert.Contains(t, err.Error(), "Invalid recipient")
	})
}

func TestClient_SendButtons(t *testing.T) {
	t.Run("builds interactive payload and truncates long titles", func(t *testing.T) {
		var captured struct {
			Type        string `json:"type"`
			Interactive struct {
				Type   string `json:"type"`
				Action struct {
					Buttons []struct {
						Reply struct {
							ID    string `json:"id"`
							Title string `json:"title"`
						} `json:"reply"`
					} `json:"buttons"`
				} `json:"action"`
			} `json:"interactive"`
		}
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.out2"}]}`))
		}))

		buttons := []notification.Button{
			{ID: "confirm_add_1", Title: "Add to catalog"},
			{ID: "cancel_add_1", Title: "This title is far too long for the platform"},
			{ID: "emoji_1", Title: "✅ " + strings.Repeat("да", 15)},
		}
		id, err := client.SendButtons(context.Background(), "15551234567", "Add this product?", buttons)
		require.NoError(t, err)
		assert.Equal(t, "wamid.out2", id)
		assert.Equal(t, "interactive", captured.Type)
		assert.Equal(t, "button", captured.Interactive.Type)
		require.Len(t, captured.Interactive.Action.Buttons, 3)
		assert.Equal(t, "Add to catalog", captured.Interactive.Action.Buttons[0].Reply.Title)
		assert.Len(t, captured.Interactive.Action.Buttons[1].Reply.Title, notification.MaxButtonTitle)

		// Titles are counted in characters; a multibyte title must be
		// cut on a rune boundary.
		emojiTitle := captured.Interactive.Action.Buttons[2].Reply.Title
		assert.Equal(t, notification.MaxButtonTitle, utf8.RuneCountInString(emojiTitle))
		assert.True(t, utf8.ValidString(emojiTitle))
	})

	t.Run("rejects empty button list", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		}))

		_, err := client.SendButtons(context.Background(), "15551234567", "body", nil)
		assert.Error(t, err)
	})

	t.Run("caps buttons at the platform limit", func(t *testing.T) {
		var count int
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var payload struct {
				Interactive struct {
					Action struct {
						Buttons []json.RawMessage `json:"buttons"`
					} `json:"action"`
				} `json:"interactive"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			count = len(payload.Interactive.Action.Buttons)
			_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.out3"}]}`))
		}))

		buttons := []notification.Button{
			{ID: "a", Title: "A"}, {ID: "b", Title: "B"},
			{ID: "c", Title: "C"}, {ID: "d", Title: "D"},
		}
		_, err := client.SendButtons(context.Background(), "15551234567", "body", buttons)
		require.NoError(t, err)
		assert.Equal(t, notification.MaxButtons, count)
	})
}

func TestClient_ResolveMediaURL(t *testing.T) {
	t.Run("returns resolved URL", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/media123", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"url":"https://lookaside.example.com/media123","mime_type":"image/jpeg","id":"media123"}`))
		}))

		url, err := client.ResolveMediaURL(context.Background(), "media123")
		require.NoError(t, err)
		assert.Equal(t, "https://lookaside.example.com/media123", url)
	})

	t.Run("fails on missing media", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.ResolveMediaURL(context.Background(), "gone")
		assert.Error(t, err)
	})

	t.Run("rejects empty media ID", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		_, err := client.ResolveMediaURL(context.Background(), "")
		assert.Error(t, err)
	})
}

func TestClient_Download(t *testing.T) {
	t.Run("returns content and normalized content type", func(t *testing.T) {
		client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg; charset=binary")
			_, _ = w.Write([]byte("jpeg-bytes"))
		}))

		data, contentType, err := client.Download(context.Background(), server.URL+"/file")
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg-bytes"), data)
		assert.Equal(t, "image/jpeg", contentType)
	})

	t.Run("fails on non-200 response", func(t *testing.T) {
		client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))

		_, _, err := client.Download(context.Background(), server.URL+"/file")
		assert.Error(t, err)
	})
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"object":"whatsapp_business_account"}`)
	secret := "app-secret"

	sign := func(secret string, body []byte) string {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		return "sha256=" + hex.EncodeToString(mac.Sum(nil))
	}

	t.Run("accepts valid signature", func(t *testing.T) {
		assert.True(t, VerifySignature(secret, payload, sign(secret, payload)))
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		assert.False(t, VerifySignature(secret, payload, sign("other", payload)))
	})

	t.Run("rejects tampered payload", func(t *testing.T) {
		assert.False(t, VerifySignature(secret, []byte(`{}`), sign(secret, payload)))
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		assert.False(t, VerifySignature(secret, payload, "md5=abc"))
		assert.False(t, VerifySignature(secret, payload, "sha256=zznothex"))
	})

	t.Run("empty secret disables verification", func(t *testing.T) {
		assert.True(t, VerifySignature("", payload, "anything"))
	})
}
