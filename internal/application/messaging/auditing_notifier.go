package messaging

import (
	"context"

	appaudit "github.com/hustle/backend/internal/application/audit"
	"github.com/hustle/backend/internal/application/notification"
	"github.com/hustle/backend/internal/domain/audit"
)

// AuditingNotifier decorates a Notifier so every successful delivery leaves
// one MESSAGE_SENT record carrying the platform message identifier.
type AuditingNotifier struct {
	inner    notification.Notifier
	recorder *appaudit.Recorder
}

var _ notification.Notifier = (*AuditingNotifier)(nil)

// NewAuditingNotifier wraps a notifier with audit recording
func NewAuditingNotifier(inner notification.Notifier, recorder *appaudit.Recorder) *AuditingNotifier {
	return &AuditingNotifier{
		inner:    inner,
		recorder: recorder,
	}
}

// SendText sends a text message and records the delivery
func (n *AuditingNotifier) SendText(ctx context.Context, to, body string) (string, error) {
	messageID, err := n.inner.SendText(ctx, to, body)
	if err != nil {
		return "", err
	}
	n.record(ctx, to, "text", messageID)
	return messageID, nil
}

// SendImage sends an image message and records the delivery
func (n *AuditingNotifier) SendImage(ctx context.Context, to, imageURL, caption string) (string, error) {
	messageID, err := n.inner.SendImage(ctx, to, imageURL, caption)
	if err != nil {
		return "", err
	}
	n.record(ctx, to, "image", messageID)
	return messageID, nil
}

// SendButtons sends an interactive message and records the delivery
func (n *AuditingNotifier) SendButtons(ctx context.Context, to, body string, buttons []notification.Button) (string, error) {
	messageID, err := n.inner.SendButtons(ctx, to, body, buttons)
	if err != nil {
		return "", err
	}
	n.record(ctx, to, "buttons", messageID)
	return messageID, nil
}

func (n *AuditingNotifier) record(ctx context.Context, to, kind, messageID string) {
	_, _ = n.recorder.Record(ctx, audit.ActionMessageSent, audit.Refs{},
		map[string]interface{}{
			"to":   to,
			"type": kind,
		},
		audit.Metadata{ExternalMessageID: messageID},
	)
}
