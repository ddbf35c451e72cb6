// Package whatsapp implements the outbound messaging boundary against the
// WhatsApp Cloud API (Graph API). It covers message sending, inbound media
// resolution and webhook signature verification.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hustle/backend/internal/application/notification"
	infraconfig "github.com/hustle/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure Client implements the application boundaries
var (
	_ notification.Notifier      = (*Client)(nil)
	_ notification.MediaResolver = (*Client)(nil)
)

// Client is a WhatsApp Cloud API client bound to one business phone number
type Client struct {
	httpClient    *http.Client
	baseURL       string
	accessToken   string
	phoneNumberID string
	logger        *zap.Logger
}

// NewClient creates a Cloud API client from configuration
func NewClient(cfg *infraconfig.WhatsAppConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("whatsapp configuration is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("whatsapp access token is required")
	}
	if cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("whatsapp phone number ID is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		baseURL:       strings.TrimRight(cfg.APIBaseURL, "/"),
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		logger:        logger,
	}, nil
}

// outboundMessage is the Cloud API message envelope
type outboundMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *textBody    `json:"text,omitempty"`
	Image            *imageBody   `json:"image,omitempty"`
	Interactive      *interactive `json:"interactive,omitempty"`
}

type textBody struct {
	Body string `json:"body"`
}

type imageBody struct {
	Link    string `json:"link"`
	Caption string `json:"caption,omitempty"`
}

type interactive struct {
	Type   string            `json:"type"`
	Body   textBody          `json:"body"`
	Action interactiveAction `json:"action"`
}

type interactiveAction struct {
	Buttons []interactiveButton `json:"buttons"`
}

type interactiveButton struct {
	Type  string      `json:"type"`
	Reply buttonReply `json:"reply"`
}

type buttonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// sendResponse is the Cloud API response for a sent message
type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// apiError is the Graph API error envelope
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SendText sends a plain text message
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	msg := outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             &textBody{Body: body},
	}
	return c.send(ctx, msg)
}

// SendImage sends an image by URL with an optional caption
func (c *Client) SendImage(ctx context.Context, to, imageURL, caption string) (string, error) {
	msg := outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "image",
		Image:            &imageBody{Link: imageURL, Caption: caption},
	}
	return c.send(ctx, msg)
}

// SendButtons sends an interactive reply-button message. The platform caps
// messages at three buttons with 20-character titles; longer titles are
// truncated rather than rejected so a draft confirmation never fails late.
func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []notification.Button) (string, error) {
	if len(buttons) == 0 {
		return "", fmt.Errorf("at least one button is required")
	}
	if len(buttons) > notification.MaxButtons {
		buttons = buttons[:notification.MaxButtons]
	}

	replies := make([]interactiveButton, 0, len(buttons))
	for _, b := range buttons {
		title := b.Title
		// The platform counts characters; titles often lead with emoji,
		// so truncate by runes to avoid splitting one.
		if runes := []rune(title); len(runes) > notification.MaxButtonTitle {
			title = string(runes[:notification.MaxButtonTitle])
		}
		replies = append(replies, interactiveButton{
			Type:  "reply",
			Reply: buttonReply{ID: b.ID, Title: title},
		})
	}

	msg := outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &interactive{
			Type:   "button",
			Body:   textBody{Body: body},
			Action: interactiveAction{Buttons: replies},
		},
	}
	return c.send(ctx, msg)
}

func (c *Client) send(ctx context.Context, msg outboundMessage) (string, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			c.logger.Warn("WhatsApp API rejected message",
				zap.Int("status", resp.StatusCode),
				zap.Int("code", apiErr.Error.Code),
				zap.String("type", apiErr.Error.Type),
			)
			return "", fmt.Errorf("whatsapp API error (code %d): %s", apiErr.Error.Code, apiErr.Error.Message)
		}
		return "", fmt.Errorf("whatsapp API returned status %d", resp.StatusCode)
	}

	var result sendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Messages) == 0 {
		return "", fmt.Errorf("whatsapp API returned no message ID")
	}
	return result.Messages[0].ID, nil
}

// mediaResponse is the Cloud API media metadata envelope
type mediaResponse struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
	ID       string `json:"id"`
}

// ResolveMediaURL resolves an inbound media identifier to a downloadable URL.
// The returned URL is short-lived and must be fetched with the same token.
func (c *Client) ResolveMediaURL(ctx context.Context, mediaID string) (string, error) {
	if mediaID == "" {
		return "", fmt.Errorf("media ID is required")
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to resolve media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media lookup returned status %d", resp.StatusCode)
	}

	var media mediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return "", fmt.Errorf("failed to decode media response: %w", err)
	}
	if media.URL == "" {
		return "", fmt.Errorf("media lookup returned no URL")
	}
	return media.URL, nil
}

// Download fetches media content from a resolved URL.
// The size cap guards against oversized or hostile payloads.
const maxDownloadSize = 25 * 1024 * 1024

func (c *Client) Download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("media download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read media content: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, "", fmt.Errorf("media content exceeds %d bytes", maxDownloadSize)
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return data, contentType, nil
}
