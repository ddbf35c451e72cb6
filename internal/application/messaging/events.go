package messaging

// Event is one parsed inbound event from the messaging channel. The three
// variants below are the sole router input; the webhook layer maps the
// platform payload onto them.
type Event interface {
	Sender() string
	MessageID() string
}

// TextEvent is an inbound free-form text message
type TextEvent struct {
	From       string
	Body       string
	ExternalID string
}

// Sender returns the sender's channel identifier
func (e TextEvent) Sender() string { return e.From }

// MessageID returns the platform message identifier
func (e TextEvent) MessageID() string { return e.ExternalID }

// ImageEvent is an inbound image with an optional caption
type ImageEvent struct {
	From       string
	MediaRef   string
	Caption    string
	ExternalID string
}

// Sender returns the sender's channel identifier
func (e ImageEvent) Sender() string { return e.From }

// MessageID returns the platform message identifier
func (e ImageEvent) MessageID() string { return e.ExternalID }

// ButtonTapEvent is an interactive button reply
type ButtonTapEvent struct {
	From       string
	ButtonID   string
	ExternalID string
}

// Sender returns the sender's channel identifier
func (e ButtonTapEvent) Sender() string { return e.From }

// MessageID returns the platform message identifier
func (e ButtonTapEvent) MessageID() string { return e.ExternalID }
