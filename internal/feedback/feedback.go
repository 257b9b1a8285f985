// Package feedback ingests supplier problem reports ("нет в наличии",
// "не могу поставить") and relays them to the administrator and to the
// submitters of affected active orders.
package feedback

import (
	"context"
	"strings"

	"orderbot_backend/internal/catalog"
	"orderbot_backend/internal/notify"
	"orderbot_backend/internal/orders"
	"orderbot_backend/internal/parser"
	"orderbot_backend/internal/textmatch"
	"orderbot_backend/platform/config"
	"orderbot_backend/platform/logger"
)

// Phrases that mark a supplier message as a delivery problem report. Matched
// on normalized text, so case and ё/е spelling do not matter.
var triggers = []string{
	"не могу поставить",
	"проблема с",
	"нет в наличии",
}

// ActiveOrderSource lists dispatched orders to match feedback against.
type ActiveOrderSource interface {
	ActiveOrders() []*orders.Order
}

// Service relays supplier feedback.
type Service struct {
	orders   ActiveOrderSource
	notifier notify.Notifier
	sim      textmatch.Similarity
	log      *logger.Logger
	admin    string
}

// NewService wires the feedback relay.
func NewService(src ActiveOrderSource, n notify.Notifier, sim textmatch.Similarity, cfg config.BotConfig, log *logger.Logger) *Service {
	return &Service{
		orders:   src,
		notifier: n,
		sim:      sim,
		log:      log,
		admin:    catalog.NormalizeContact(cfg.GetAdminContact()),
	}
}

// IsFeedback reports whether a supplier message is a problem report.
func IsFeedback(text string) bool {
	folded := fold(text)
	for _, t := range triggers {
		if strings.Contains(folded, t) {
			return true
		}
	}
	return false
}

// fold lowercases and folds ё to е but keeps punctuation, unlike the full
// normalizer, because the product list is still split on commas afterwards.
func fold(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "ё", "е")
}

// Handle processes one problem report from a supplier. It returns the reply
// text for the supplier; notifications to the administrator and affected
// submitters are sent from here.
func (s *Service) Handle(ctx context.Context, supplier catalog.Supplier, text string) string {
	products := extractProducts(text)
	if len(products) == 0 {
		return replyFormatHint
	}

	affected := s.affectedOrders(products)

	s.notifyOne(ctx, s.admin, adminSummaryMessage(supplier, text, affected))
	for _, a := range affected {
		s.notifyOne(ctx, a.order.Submitter.Contact, submitterNoticeMessage(supplier, a))
	}

	s.log.Info("supplier_feedback",
		"supplier", supplier.Name,
		"products", len(products),
		"affected_orders", len(affected),
	)

	if len(affected) == 0 {
		return replyNoActiveOrders
	}
	return replyRelayed
}

// affectedOrder pairs an active order with the item lines the feedback hit.
type affectedOrder struct {
	order *orders.Order
	lines []string
}

func (s *Service) affectedOrders(products []string) []affectedOrder {
	var out []affectedOrder
	for _, o := range s.orders.ActiveOrders() {
		var hit []string
		for _, line := range o.Items {
			itemProduct := parser.ProductOf(line)
			for _, p := range products {
				if s.sim.Similar(itemProduct, p) {
					hit = append(hit, line)
					break
				}
			}
		}
		if len(hit) > 0 {
			out = append(out, affectedOrder{order: o, lines: hit})
		}
	}
	return out
}

// extractProducts pulls product names out of a problem report: everything
// after the trigger phrase and an optional colon, split on commas and "и".
func extractProducts(text string) []string {
	folded := fold(text)

	rest := ""
	for _, t := range triggers {
		if i := strings.Index(folded, t); i >= 0 {
			rest = folded[i+len(t):]
			break
		}
	}
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ":"))

	var products []string
	for _, frag := range splitList(rest) {
		frag = textmatch.Normalize(frag)
		if frag == "" {
			continue
		}
		products = append(products, frag)
	}
	return products
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		for _, sub := range strings.Split(p, " и ") {
			out = append(out, sub)
		}
	}
	return out
}

func (s *Service) notifyOne(ctx context.Context, contact, text string) {
	if contact == "" {
		return
	}
	if err := s.notifier.Send(ctx, contact, text); err != nil {
		s.log.SendFailure(contact, err)
	}
}
