package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"orderbot_backend/internal/catalog"
	"orderbot_backend/internal/feedback"
	"orderbot_backend/internal/match"
	"orderbot_backend/internal/orders"
	"orderbot_backend/internal/session"
	"orderbot_backend/internal/textmatch"
	"orderbot_backend/platform/logger"
)

type fakeNotifier struct {
	sent map[string][]string
}

func (f *fakeNotifier) Send(_ context.Context, contact, text string) error {
	if f.sent == nil {
		f.sent = map[string][]string{}
	}
	f.sent[contact] = append(f.sent[contact], text)
	return nil
}

func (f *fakeNotifier) last(contact string) string {
	msgs := f.sent[contact]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

type botConfig struct{ admin string }

func (c botConfig) GetAdminContact() string    { return c.admin }
func (c botConfig) GetApproverContact() string { return "" }

const (
	adminContact    = "77000000001"
	customerContact = "77010000001"
	vegContact      = "77020000001"
)

func newTestRouter(t *testing.T) (*Router, *fakeNotifier, *orders.Service) {
	t.Helper()

	cat := catalog.New(
		[]catalog.Supplier{
			{Name: "Овощи и фрукты", Products: []string{"огурцы", "помидоры"}, Contact: vegContact},
		},
		map[string]string{"1": "Кафе Центр", "2": "Кафе Юг"},
		[]string{"1", "2"},
		map[string]string{customerContact: "Айгуль"},
	)

	n := &fakeNotifier{}
	log := logger.New("development")
	m := match.New(cat, textmatch.EditDistance{})
	cfg := botConfig{admin: adminContact}
	ordSvc := orders.NewService(orders.NewMemoryStore(), m, cat, n, nil, cfg, log)
	fbSvc := feedback.NewService(ordSvc, n, textmatch.EditDistance{}, cfg, log)

	r := NewRouter(cat, session.NewMemoryStore(), ordSvc, fbSvc, n, log)
	r.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }
	return r, n, ordSvc
}

func submitOrder(t *testing.T, r *Router, n *fakeNotifier, text string) string {
	t.Helper()
	ctx := context.Background()

	r.HandleMessage(ctx, customerContact, "привет")
	r.HandleMessage(ctx, customerContact, "1")
	r.HandleMessage(ctx, customerContact, text)

	r.HandleMessage(ctx, adminContact, "добро")

	// The submitter confirmation carries the order id on its own line.
	conf := n.last(customerContact)
	for _, line := range strings.Split(conf, "\n") {
		if strings.HasPrefix(line, "🆔") {
			fields := strings.Fields(line)
			return fields[len(fields)-1]
		}
	}
	t.Fatalf("no order id in confirmation:\n%s", conf)
	return ""
}

func TestIntakeFlowCreatesPendingOrder(t *testing.T) {
	r, n, _ := newTestRouter(t)
	ctx := context.Background()

	r.HandleMessage(ctx, customerContact, "привет")
	if menu := n.last(customerContact); !strings.Contains(menu, "Кафе Центр") || !strings.Contains(menu, "Кафе Юг") {
		t.Fatalf("expected location menu, got %q", menu)
	}

	r.HandleMessage(ctx, customerContact, "1")
	if got := n.last(customerContact); got != msgOrderPrompt {
		t.Fatalf("expected order prompt, got %q", got)
	}

	r.HandleMessage(ctx, customerContact, "Огурцы 13 кг")

	proposal := n.last(adminContact)
	if !strings.Contains(proposal, "Кафе Центр") {
		t.Fatalf("proposal must carry the location, got %q", proposal)
	}
	if !strings.Contains(proposal, "01.09") {
		t.Fatalf("proposal must carry the next-day date label, got %q", proposal)
	}

	// Session is gone: the next message restarts the flow with the menu.
	r.HandleMessage(ctx, customerContact, "ещё раз")
	if got := n.last(customerContact); !strings.Contains(got, "Для какой точки") {
		t.Fatalf("expected a fresh menu after submission, got %q", got)
	}
}

func TestUnknownLocationRepeatsMenu(t *testing.T) {
	r, n, _ := newTestRouter(t)
	ctx := context.Background()

	r.HandleMessage(ctx, customerContact, "привет")
	r.HandleMessage(ctx, customerContact, "99")

	if got := n.last(customerContact); !strings.Contains(got, "Не узнаю такую точку") {
		t.Fatalf("expected retry menu, got %q", got)
	}

	// The session is still on the location step.
	r.HandleMessage(ctx, customerContact, "2")
	if got := n.last(customerContact); got != msgOrderPrompt {
		t.Fatalf("expected order prompt after valid retry, got %q", got)
	}
}

func TestUnmatchedOrderKeepsSession(t *testing.T) {
	r, n, _ := newTestRouter(t)
	ctx := context.Background()

	r.HandleMessage(ctx, customerContact, "привет")
	r.HandleMessage(ctx, customerContact, "1")
	r.HandleMessage(ctx, customerContact, "шуруповёрт 2 шт")

	if got := n.last(customerContact); !strings.Contains(got, "шуруповёрт 2 шт") {
		t.Fatalf("expected the unmatched line echoed back, got %q", got)
	}

	// Resending a corrected list works without restarting the flow.
	r.HandleMessage(ctx, customerContact, "Огурцы 3 кг")
	if got := n.last(adminContact); !strings.Contains(got, "Огурцы 3 кг") {
		t.Fatalf("expected a proposal after the corrected resend, got %q", got)
	}
}

func TestBareCancelAbortsSession(t *testing.T) {
	r, n, _ := newTestRouter(t)
	ctx := context.Background()

	r.HandleMessage(ctx, customerContact, "привет")
	r.HandleMessage(ctx, customerContact, "отмена")
	if got := n.last(customerContact); got != msgSessionCancelled {
		t.Fatalf("expected session cancellation, got %q", got)
	}

	r.HandleMessage(ctx, customerContact, "привет")
	if got := n.last(customerContact); !strings.Contains(got, "Для какой точки") {
		t.Fatalf("expected a fresh menu, got %q", got)
	}
}

func TestApproveWithoutPending(t *testing.T) {
	r, n, _ := newTestRouter(t)

	r.HandleMessage(context.Background(), adminContact, "добро")
	if got := n.last(adminContact); got != msgNoPendingOrder {
		t.Fatalf("expected no-pending reply, got %q", got)
	}
}

func TestApproveDispatchesToSupplier(t *testing.T) {
	r, n, _ := newTestRouter(t)

	submitOrder(t, r, n, "Огурцы 13 кг")

	if got := n.last(vegContact); !strings.Contains(got, "Огурцы 13 кг") {
		t.Fatalf("supplier must receive the dispatch, got %q", got)
	}
}

func TestCancelCommandByNumber(t *testing.T) {
	r, n, _ := newTestRouter(t)
	ctx := context.Background()

	id := submitOrder(t, r, n, "Огурцы 13 кг")

	r.HandleMessage(ctx, customerContact, "отмена "+id)
	if got := n.last(customerContact); !strings.Contains(got, "отменена") || !strings.Contains(got, "Поставщики уведомлены") {
		t.Fatalf("expected cancel confirmation with supplier note, got %q", got)
	}
	if got := n.last(vegContact); !strings.Contains(got, "Заявка отменена") {
		t.Fatalf("supplier must get a cancellation notice, got %q", got)
	}

	r.HandleMessage(ctx, adminContact, "отмена "+id)
	if got := n.last(adminContact); got != msgOrderNotFound {
		t.Fatalf("expected not-found on second cancel, got %q", got)
	}
}

func TestCancelPendingOrderReplySkipsSupplierNote(t *testing.T) {
	r, n, ordSvc := newTestRouter(t)
	ctx := context.Background()

	o, err := ordSvc.Create(ctx, customerContact, "Кафе Центр", "01.09", "Огурцы 13 кг")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n.sent = nil

	r.HandleMessage(ctx, customerContact, "отмена "+o.ID)
	if got := n.last(customerContact); !strings.Contains(got, "отменена") || strings.Contains(got, "Поставщики уведомлены") {
		t.Fatalf("a pending cancel must not claim supplier notices, got %q", got)
	}
	if len(n.sent[vegContact]) != 0 {
		t.Fatal("no supplier was dispatched, none must be notified")
	}
}

func TestEditCommandUpdatesOrder(t *testing.T) {
	r, n, _ := newTestRouter(t)
	ctx := context.Background()

	id := submitOrder(t, r, n, "Огурцы 13 кг")

	r.HandleMessage(ctx, customerContact, "редактировать "+id+" Помидоры 4 кг")
	if got := n.last(customerContact); !strings.Contains(got, "Помидоры 4 кг") {
		t.Fatalf("expected updated items in the reply, got %q", got)
	}
	if got := n.last(vegContact); !strings.Contains(got, "Помидоры 4 кг") {
		t.Fatalf("supplier must see the updated items, got %q", got)
	}
}

func TestEditByStrangerIsForbidden(t *testing.T) {
	r, n, _ := newTestRouter(t)

	id := submitOrder(t, r, n, "Огурцы 13 кг")

	stranger := "77099999999"
	r.HandleMessage(context.Background(), stranger, "редактировать "+id+" Помидоры 4 кг")
	if got := n.last(stranger); got != msgNotAllowed {
		t.Fatalf("expected forbidden reply, got %q", got)
	}
}

func TestDeliveredCommandFreezesOrder(t *testing.T) {
	r, n, _ := newTestRouter(t)
	ctx := context.Background()

	id := submitOrder(t, r, n, "Огурцы 13 кг")

	r.HandleMessage(ctx, adminContact, "доставлен "+id)
	if got := n.last(adminContact); !strings.Contains(got, "доставленная") {
		t.Fatalf("expected delivered confirmation, got %q", got)
	}

	r.HandleMessage(ctx, customerContact, "отмена "+id)
	if got := n.last(customerContact); got != msgOrderDelivered {
		t.Fatalf("expected immutability reply, got %q", got)
	}
}

func TestSupplierMessagesNeverStartIntake(t *testing.T) {
	r, n, _ := newTestRouter(t)
	ctx := context.Background()

	r.HandleMessage(ctx, vegContact, "Принято, привезём к утру")
	if len(n.sent) != 0 {
		t.Fatalf("plain supplier messages must be ignored, got %v", n.sent)
	}

	r.HandleMessage(ctx, vegContact, "Нет в наличии: огурцы")
	if got := n.last(vegContact); got == "" {
		t.Fatal("a problem report must be acknowledged")
	}
	if got := n.last(adminContact); !strings.Contains(got, "Овощи и фрукты") {
		t.Fatalf("admin must get the feedback summary, got %q", got)
	}
}

func TestDeliveryDateLabel(t *testing.T) {
	now := time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC)
	if got := deliveryDateLabel(now); got != "01.01" {
		t.Fatalf("expected year rollover to 01.01, got %q", got)
	}
}
