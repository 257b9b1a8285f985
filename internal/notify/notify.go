// Package notify routes outbound messages to the right channel for a
// contact: WhatsApp through the gateway for phone numbers, SMTP for
// email-only suppliers.
package notify

import (
	"context"

	"orderbot_backend/internal/catalog"
	"orderbot_backend/platform/apperr"
	"orderbot_backend/platform/logger"
)

// Notifier delivers one text payload to one recipient.
type Notifier interface {
	Send(ctx context.Context, contact, text string) error
}

// MessageSender is the gateway-facing send operation.
type MessageSender interface {
	SendMessage(ctx context.Context, phone, message string) error
}

// Router picks the channel per contact. Mail may be nil when SMTP is not
// configured; email contacts then fail with a transport error that the
// caller logs like any other send failure.
type Router struct {
	gateway MessageSender
	mail    Notifier
	log     *logger.Logger
}

// NewRouter creates a channel router.
func NewRouter(gateway MessageSender, mail Notifier, log *logger.Logger) *Router {
	return &Router{gateway: gateway, mail: mail, log: log}
}

// Send delivers text to a contact over the channel its identifier implies.
func (r *Router) Send(ctx context.Context, contact, text string) error {
	if catalog.IsEmail(contact) {
		if r.mail == nil {
			return apperr.Transport("email delivery is not configured", nil).WithOp("notify.Send")
		}
		r.log.Debug("routing message to email channel", "contact", contact)
		return r.mail.Send(ctx, contact, text)
	}
	return r.gateway.SendMessage(ctx, contact, text)
}
