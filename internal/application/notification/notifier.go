// Package notification defines the outbound messaging boundary consumed by
// the application services. The WhatsApp Cloud API implementation lives in
// the infrastructure layer; tests inject fakes.
package notification

import "context"

// MaxButtons is the platform limit on interactive buttons per message
const MaxButtons = 3

// MaxButtonTitle is the platform limit on button title length
const MaxButtonTitle = 20

// Button is one interactive reply button
type Button struct {
	ID    string
	Title string
}

// Notifier sends outbound messages over the messaging channel. Each call
// returns the platform's opaque message identifier on success.
type Notifier interface {
	SendText(ctx context.Context, to, body string) (string, error)
	SendImage(ctx context.Context, to, imageURL, caption string) (string, error)
	SendButtons(ctx context.Context, to, body string, buttons []Button) (string, error)
}

// MediaResolver resolves inbound media identifiers and fetches their content
type MediaResolver interface {
	// ResolveMediaURL resolves a media identifier to a downloadable URL
	ResolveMediaURL(ctx context.Context, mediaID string) (string, error)

	// Download fetches media content, returning the bytes and content type
	Download(ctx context.Context, url string) ([]byte, string, error)
}
