package scheduler

import (
	"context"
	"strings"
	"testing"

	"orderbot_backend/internal/catalog"
	"orderbot_backend/internal/match"
	"orderbot_backend/internal/orders"
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

type botConfig struct{}

func (botConfig) GetAdminContact() string    { return "77000000001" }
func (botConfig) GetApproverContact() string { return "" }

func newTestWorker(t *testing.T) (*Worker, *orders.Service, *fakeNotifier) {
	t.Helper()

	cat := catalog.New(
		[]catalog.Supplier{
			{Name: "Овощи и фрукты", Products: []string{"огурцы"}, Contact: "77020000001"},
		},
		map[string]string{"1": "Кафе Центр"},
		[]string{"1"},
		nil,
	)

	n := &fakeNotifier{}
	log := logger.New("development")
	m := match.New(cat, textmatch.EditDistance{})
	svc := orders.NewService(orders.NewMemoryStore(), m, cat, n, nil, botConfig{}, log)

	w := &Worker{orders: svc, notifier: n, log: log}
	return w, svc, n
}

func TestPendingReminderNudgesAdmin(t *testing.T) {
	w, svc, n := newTestWorker(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, "77010000001", "Кафе Центр", "01.09", "Огурцы 3 кг")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	n.sent = nil

	task, err := NewPendingReminderTask(PendingReminderPayload{OrderID: o.ID})
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	if err := w.handlePendingReminder(ctx, task); err != nil {
		t.Fatalf("handle: %v", err)
	}

	msgs := n.sent["77000000001"]
	if len(msgs) != 1 || !strings.Contains(msgs[0], "ждёт подтверждения") {
		t.Fatalf("expected an approval nudge, got %v", msgs)
	}
}

func TestPendingReminderSkipsResolvedOrder(t *testing.T) {
	w, svc, n := newTestWorker(t)
	ctx := context.Background()

	o, err := svc.Create(ctx, "77010000001", "Кафе Центр", "01.09", "Огурцы 3 кг")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Approve(ctx, "77000000001"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	n.sent = nil

	task, err := NewPendingReminderTask(PendingReminderPayload{OrderID: o.ID})
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	if err := w.handlePendingReminder(ctx, task); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(n.sent) != 0 {
		t.Fatal("approved orders must not trigger reminders")
	}
}
