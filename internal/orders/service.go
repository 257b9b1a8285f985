package orders

import (
	"context"

	"github.com/google/uuid"

	"orderbot_backend/internal/catalog"
	"orderbot_backend/internal/match"
	"orderbot_backend/internal/notify"
	"orderbot_backend/internal/parser"
	"orderbot_backend/platform/apperr"
	"orderbot_backend/platform/config"
	"orderbot_backend/platform/logger"
)

// ReminderScheduler enqueues a delayed approval reminder for a newly created
// order. May be nil when no task queue is configured.
type ReminderScheduler interface {
	SchedulePendingReminder(ctx context.Context, orderID string) error
}

// Service implements the order lifecycle. All notification sends are
// isolated: a delivery failure is logged and never rolls a transition back.
type Service struct {
	store     Store
	matcher   *match.Matcher
	catalog   *catalog.Catalog
	notifier  notify.Notifier
	reminders ReminderScheduler
	log       *logger.Logger
	admin     string
	approver  string
}

// NewService wires the lifecycle service.
func NewService(store Store, m *match.Matcher, cat *catalog.Catalog, n notify.Notifier, rem ReminderScheduler, cfg config.BotConfig, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		matcher:   m,
		catalog:   cat,
		notifier:  n,
		reminders: rem,
		log:       log,
		admin:     catalog.NormalizeContact(cfg.GetAdminContact()),
		approver:  catalog.NormalizeContact(cfg.GetApproverContact()),
	}
}

// IsApprover reports whether a contact may approve, reject or manage any
// order regardless of who submitted it.
func (s *Service) IsApprover(contact string) bool {
	c := catalog.NormalizeContact(contact)
	return c == s.admin || (s.approver != "" && c == s.approver)
}

// Create parses the order text, partitions it across suppliers and stores it
// as pending. Any unmatched product blocks the whole order: nothing is
// stored and nobody is notified.
func (s *Service) Create(ctx context.Context, submitterContact, location, dateLabel, rawText string) (*Order, error) {
	const op = "orders.Create"

	items, err := parser.Parse(rawText)
	if err != nil {
		return nil, err
	}

	p := s.matcher.Partition(items)
	if len(p.Unmatched) > 0 {
		raws := make([]string, 0, len(p.Unmatched))
		for _, item := range p.Unmatched {
			raws = append(raws, item.Raw)
		}
		return nil, apperr.Unmatched("order contains products not covered by any supplier", raws).WithOp(op)
	}

	lines := make([]string, 0, len(p.Matched))
	for _, item := range p.Matched {
		lines = append(lines, item.Line())
	}

	o := &Order{
		ID:        uuid.NewString(),
		Location:  location,
		DateLabel: dateLabel,
		Submitter: Submitter{
			Name:    s.catalog.EmployeeName(submitterContact),
			Contact: catalog.NormalizeContact(submitterContact),
		},
		Items:   lines,
		Status:  StatusPending,
		RawText: rawText,
	}

	if err := s.store.PutPending(o); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to store order", err).WithOp(op)
	}
	s.log.OrderTransition(o.ID, "intake", string(StatusPending))

	proposal := proposalMessage(o, p.BySupplier, p.SupplierOrder)
	s.notifyOne(ctx, s.admin, proposal)
	if s.approver != "" && s.approver != s.admin {
		s.notifyOne(ctx, s.approver, proposal)
	}
	s.notifyOne(ctx, o.Submitter.Contact, submitterPendingMessage(o))

	if s.reminders != nil {
		if err := s.reminders.SchedulePendingReminder(ctx, o.ID); err != nil {
			s.log.Error("failed to schedule approval reminder", "order_id", o.ID, "error", err)
		}
	}

	return o, nil
}

// Approve activates the oldest pending order and dispatches each supplier
// its own slice of the items. Only the administrator or approver may call
// this.
func (s *Service) Approve(ctx context.Context, callerContact string) (*Order, error) {
	const op = "orders.Approve"

	if !s.IsApprover(callerContact) {
		return nil, apperr.Forbidden("only the administrator can approve orders").WithOp(op)
	}

	pending := s.store.ListPending()
	if len(pending) == 0 {
		return nil, apperr.NotFound("no order is awaiting approval").WithOp(op)
	}
	o := pending[0]

	p := s.matcher.PartitionLines(o.Items)
	s.notifySuppliers(ctx, &p, func(lines []string) string {
		return supplierDispatchMessage(o, lines)
	})

	if _, err := s.store.Activate(o.ID); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to activate order", err).WithOp(op)
	}
	o.Status = StatusActive
	s.log.OrderTransition(o.ID, string(StatusPending), string(StatusActive))

	s.notifyOne(ctx, o.Submitter.Contact, submitterApprovedMessage(o))
	return o, nil
}

// Reject discards the oldest pending order without dispatching anything.
func (s *Service) Reject(ctx context.Context, callerContact string) (*Order, error) {
	const op = "orders.Reject"

	if !s.IsApprover(callerContact) {
		return nil, apperr.Forbidden("only the administrator can reject orders").WithOp(op)
	}

	pending := s.store.ListPending()
	if len(pending) == 0 {
		return nil, apperr.NotFound("no order is awaiting approval").WithOp(op)
	}
	o := pending[0]

	s.store.Delete(o.ID)
	o.Status = StatusCancelled
	s.log.OrderTransition(o.ID, string(StatusPending), string(StatusCancelled))

	s.notifyOne(ctx, o.Submitter.Contact, submitterRejectedMessage(o))
	return o, nil
}

// Edit replaces an order's items from new free text. Only the submitter or
// the administrator may edit; delivered orders are immutable. On a parse or
// match failure the order is left exactly as it was.
func (s *Service) Edit(ctx context.Context, callerContact, orderID, newText string) (*Order, error) {
	const op = "orders.Edit"

	o, ok := s.store.Find(orderID)
	if !ok {
		return nil, apperr.NotFound("order not found").WithOp(op)
	}
	if !s.canManage(callerContact, o) {
		return nil, apperr.Forbidden("only the order submitter or the administrator can edit it").WithOp(op)
	}
	if o.Status == StatusDelivered {
		return nil, apperr.InvalidState("delivered orders cannot be edited").WithOp(op)
	}

	items, err := parser.Parse(newText)
	if err != nil {
		return nil, err
	}
	p := s.matcher.Partition(items)
	if len(p.Unmatched) > 0 {
		raws := make([]string, 0, len(p.Unmatched))
		for _, item := range p.Unmatched {
			raws = append(raws, item.Raw)
		}
		return nil, apperr.Unmatched("edited order contains products not covered by any supplier", raws).WithOp(op)
	}

	lines := make([]string, 0, len(p.Matched))
	for _, item := range p.Matched {
		lines = append(lines, item.Line())
	}

	prev := o.Status
	o.Items = lines
	o.RawText = newText
	if o.Status == StatusActive {
		o.Status = StatusEdited
	}
	s.log.OrderTransition(o.ID, string(prev), string(o.Status))

	// Suppliers are only told about changes to orders they have already
	// received; a still-pending order just updates the proposal implicitly.
	if prev == StatusActive || prev == StatusEdited {
		s.notifySuppliers(ctx, &p, func(lines []string) string {
			return supplierEditMessage(o, lines)
		})
	}

	return o, nil
}

// Cancel retires an order. Suppliers get a cancellation notice only if the
// order had been dispatched to them; the returned flag reports whether any
// notices went out.
func (s *Service) Cancel(ctx context.Context, callerContact, orderID string) (*Order, bool, error) {
	const op = "orders.Cancel"

	o, ok := s.store.Find(orderID)
	if !ok {
		return nil, false, apperr.NotFound("order not found").WithOp(op)
	}
	if !s.canManage(callerContact, o) {
		return nil, false, apperr.Forbidden("only the order submitter or the administrator can cancel it").WithOp(op)
	}
	if o.Status == StatusDelivered {
		return nil, false, apperr.InvalidState("delivered orders cannot be cancelled").WithOp(op)
	}

	dispatched := o.Status == StatusActive || o.Status == StatusEdited
	if dispatched {
		p := s.matcher.PartitionLines(o.Items)
		s.notifySuppliers(ctx, &p, func(lines []string) string {
			return supplierCancelMessage(o, lines)
		})
	}

	prev := o.Status
	s.store.Delete(o.ID)
	o.Status = StatusCancelled
	s.log.OrderTransition(o.ID, string(prev), string(StatusCancelled))

	return o, dispatched, nil
}

// MarkDelivered freezes an active order. The record stays in the active set
// for lookups but refuses any further transition.
func (s *Service) MarkDelivered(ctx context.Context, callerContact, orderID string) (*Order, error) {
	const op = "orders.MarkDelivered"

	if !s.IsApprover(callerContact) {
		return nil, apperr.Forbidden("only the administrator can mark orders delivered").WithOp(op)
	}

	o, ok := s.store.Active(orderID)
	if !ok {
		if _, pending := s.store.Pending(orderID); pending {
			return nil, apperr.InvalidState("order has not been approved yet").WithOp(op)
		}
		return nil, apperr.NotFound("order not found").WithOp(op)
	}
	if o.Status == StatusDelivered {
		return nil, apperr.InvalidState("order is already marked delivered").WithOp(op)
	}

	prev := o.Status
	o.Status = StatusDelivered
	s.log.OrderTransition(o.ID, string(prev), string(StatusDelivered))
	return o, nil
}

// PendingByID exposes pending lookups for the reminder worker.
func (s *Service) PendingByID(id string) (*Order, bool) {
	return s.store.Pending(id)
}

// AdminContact returns the normalized administrator contact.
func (s *Service) AdminContact() string {
	return s.admin
}

// ActiveOrders returns dispatched orders for feedback matching.
func (s *Service) ActiveOrders() []*Order {
	return s.store.ListActive()
}

func (s *Service) canManage(contact string, o *Order) bool {
	return catalog.NormalizeContact(contact) == o.Submitter.Contact || s.IsApprover(contact)
}

func (s *Service) notifyOne(ctx context.Context, contact, text string) {
	if contact == "" {
		return
	}
	if err := s.notifier.Send(ctx, contact, text); err != nil {
		s.log.SendFailure(contact, err)
	}
}

func (s *Service) notifySuppliers(ctx context.Context, p *match.Partition, msg func(lines []string) string) {
	for _, name := range p.SupplierOrder {
		sup, ok := s.catalog.SupplierByName(name)
		if !ok {
			continue
		}
		if err := s.notifier.Send(ctx, sup.Contact, msg(p.BySupplier[name])); err != nil {
			s.log.SendFailure(sup.Contact, err)
		}
	}
}
