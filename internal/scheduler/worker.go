package scheduler

import (
	"context"
	"fmt"

	"orderbot_backend/internal/notify"
	"orderbot_backend/internal/orders"
	"orderbot_backend/platform/config"
	"orderbot_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes reminder tasks. It runs inside the bot process because the
// order store is in-memory; a separate binary would see an empty store.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	orders   *orders.Service
	notifier notify.Notifier
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, ord *orders.Service, n notify.Notifier, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		orders:   ord,
		notifier: n,
		log:      log,
	}

	mux.HandleFunc(TaskPendingReminder, w.handlePendingReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handlePendingReminder nudges the administrator about an order that is still
// waiting for approval when the reminder fires. Orders resolved in the
// meantime make this a no-op.
func (w *Worker) handlePendingReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePendingReminderPayload(task)
	if err != nil {
		return err
	}

	o, ok := w.orders.PendingByID(payload.OrderID)
	if !ok {
		return nil
	}

	if err := w.notifier.Send(ctx, w.orders.AdminContact(), orders.PendingReminderMessage(o)); err != nil {
		w.log.SendFailure(w.orders.AdminContact(), err)
		return err
	}

	return nil
}
