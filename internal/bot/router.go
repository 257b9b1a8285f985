// Package bot is the conversation layer: it classifies every inbound chat
// message (supplier feedback, management command or customer intake step) and
// drives the matching domain service, replying to the sender over the
// notifier.
package bot

import (
	"context"
	"strings"
	"time"

	"orderbot_backend/internal/catalog"
	"orderbot_backend/internal/feedback"
	"orderbot_backend/internal/notify"
	"orderbot_backend/internal/orders"
	"orderbot_backend/internal/session"
	"orderbot_backend/platform/apperr"
	"orderbot_backend/platform/logger"
)

// Router dispatches inbound messages.
type Router struct {
	catalog  *catalog.Catalog
	sessions session.Store
	orders   *orders.Service
	feedback *feedback.Service
	notifier notify.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewRouter wires the conversation layer.
func NewRouter(cat *catalog.Catalog, sessions session.Store, ord *orders.Service, fb *feedback.Service, n notify.Notifier, log *logger.Logger) *Router {
	return &Router{
		catalog:  cat,
		sessions: sessions,
		orders:   ord,
		feedback: fb,
		notifier: n,
		log:      log,
		now:      time.Now,
	}
}

// HandleMessage processes one inbound message. It never returns an error for
// domain-level failures; those become replies to the sender. A panic in any
// handler is caught here so one bad message cannot take the process down.
func (r *Router) HandleMessage(ctx context.Context, sender, text string) {
	contact := catalog.NormalizeContact(sender)
	log := r.log.WithContact(contact)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("message handler panic", "panic", rec)
			r.reply(ctx, contact, msgGenericFailure)
		}
	}()

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	// Suppliers only ever talk back about deliveries; anything of theirs
	// that is not a problem report is ignored so the intake flow never
	// triggers for them.
	if sup, ok := r.catalog.SupplierByContact(contact); ok {
		if feedback.IsFeedback(text) {
			r.reply(ctx, contact, r.feedback.Handle(ctx, sup, text))
		}
		return
	}

	if r.orders.IsApprover(contact) && r.handleApproverCommand(ctx, contact, text) {
		return
	}
	if r.handleManageCommand(ctx, contact, text) {
		return
	}

	r.handleIntake(ctx, contact, text, log)
}

// handleApproverCommand handles добро/отказ/доставлен. Returns false when
// the text is not one of them, so the administrator can still place orders.
func (r *Router) handleApproverCommand(ctx context.Context, contact, text string) bool {
	lower := strings.ToLower(text)

	switch lower {
	case "добро":
		_, err := r.orders.Approve(ctx, contact)
		r.replyOutcome(ctx, contact, err, "", msgNoPendingOrder)
		return true
	case "отказ":
		_, err := r.orders.Reject(ctx, contact)
		r.replyOutcome(ctx, contact, err, "", msgNoPendingOrder)
		return true
	}

	fields := strings.Fields(lower)
	if len(fields) > 0 && fields[0] == "доставлен" {
		if len(fields) != 2 {
			r.reply(ctx, contact, msgDeliveredUsage)
			return true
		}
		o, err := r.orders.MarkDelivered(ctx, contact, strings.Fields(text)[1])
		if err != nil {
			r.reply(ctx, contact, replyForError(err))
			return true
		}
		r.reply(ctx, contact, deliveredReplyMessage(o))
		return true
	}

	return false
}

// handleManageCommand handles отмена/отменить and редактировать/изменить.
// Authorization lives in the orders service; here only the syntax is parsed.
func (r *Router) handleManageCommand(ctx context.Context, contact, text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "отмена", "отменить":
		if len(fields) == 1 {
			// Bare "отмена" aborts a running intake conversation.
			if _, ok, _ := r.sessions.Get(ctx, contact); ok {
				_ = r.sessions.Delete(ctx, contact)
				r.reply(ctx, contact, msgSessionCancelled)
				return true
			}
			r.reply(ctx, contact, msgCancelUsage)
			return true
		}
		o, dispatched, err := r.orders.Cancel(ctx, contact, fields[1])
		if err != nil {
			r.reply(ctx, contact, replyForError(err))
			return true
		}
		r.reply(ctx, contact, cancelledReplyMessage(o, dispatched))
		return true

	case "редактировать", "изменить":
		if len(fields) < 3 {
			r.reply(ctx, contact, msgEditUsage)
			return true
		}
		id := fields[1]
		newText := textAfter(text, id)
		o, err := r.orders.Edit(ctx, contact, id, newText)
		if err != nil {
			r.reply(ctx, contact, replyForError(err))
			return true
		}
		r.reply(ctx, contact, editedReplyMessage(o))
		return true
	}

	return false
}

// handleIntake drives the two-step order conversation.
func (r *Router) handleIntake(ctx context.Context, contact, text string, log *logger.Logger) {
	sess, ok, err := r.sessions.Get(ctx, contact)
	if err != nil {
		log.Error("session lookup failed", "error", err)
		r.reply(ctx, contact, msgGenericFailure)
		return
	}

	if !ok {
		if err := r.sessions.Put(ctx, contact, session.Session{Step: session.StepLocation}); err != nil {
			log.Error("session store failed", "error", err)
			r.reply(ctx, contact, msgGenericFailure)
			return
		}
		r.reply(ctx, contact, locationMenuMessage(r.catalog))
		return
	}

	switch sess.Step {
	case session.StepLocation:
		display, found := r.catalog.Location(text)
		if !found {
			r.reply(ctx, contact, locationRetryMessage(r.catalog))
			return
		}
		sess.Location = display
		sess.DateLabel = deliveryDateLabel(r.now())
		sess.Step = session.StepOrderText
		if err := r.sessions.Put(ctx, contact, sess); err != nil {
			log.Error("session store failed", "error", err)
			r.reply(ctx, contact, msgGenericFailure)
			return
		}
		r.reply(ctx, contact, msgOrderPrompt)

	case session.StepOrderText:
		_, err := r.orders.Create(ctx, contact, sess.Location, sess.DateLabel, text)
		if err != nil {
			// The session survives a failed submission so the customer can
			// just resend a corrected list.
			r.reply(ctx, contact, replyForError(err))
			return
		}
		_ = r.sessions.Delete(ctx, contact)

	default:
		_ = r.sessions.Delete(ctx, contact)
		r.reply(ctx, contact, msgGenericFailure)
	}
}

// replyOutcome sends the error-mapped reply, with an override for the
// not-found kind (approve/reject report "nothing pending" instead of a
// missing order id). An empty success text means the service already
// notified everyone involved.
func (r *Router) replyOutcome(ctx context.Context, contact string, err error, success, notFound string) {
	switch {
	case err == nil:
		if success != "" {
			r.reply(ctx, contact, success)
		}
	case apperr.GetKind(err) == apperr.KindNotFound:
		r.reply(ctx, contact, notFound)
	default:
		r.reply(ctx, contact, replyForError(err))
	}
}

func (r *Router) reply(ctx context.Context, contact, text string) {
	if err := r.notifier.Send(ctx, contact, text); err != nil {
		r.log.SendFailure(contact, err)
	}
}

func replyForError(err error) string {
	switch apperr.GetKind(err) {
	case apperr.KindNotFound:
		return msgOrderNotFound
	case apperr.KindForbidden:
		return msgNotAllowed
	case apperr.KindInvalidState:
		return msgOrderDelivered
	case apperr.KindValidation:
		return msgFormatHelp
	case apperr.KindUnmatched:
		return unmatchedMessage(unmatchedItems(err))
	default:
		return msgGenericFailure
	}
}

func unmatchedItems(err error) []string {
	if e, ok := err.(*apperr.Error); ok {
		if items, ok := e.Details.([]string); ok {
			return items
		}
	}
	return nil
}

// textAfter returns everything following the first occurrence of token,
// preserving the original line breaks of the remainder.
func textAfter(text, token string) string {
	i := strings.Index(text, token)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i+len(token):])
}

// deliveryDateLabel renders the assumed delivery date, the day after
// submission, as DD.MM.
func deliveryDateLabel(now time.Time) string {
	return now.Add(24 * time.Hour).Format("02.01")
}
