package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskPendingReminder = "orders.pending.reminder"

type PendingReminderPayload struct {
	OrderID string `json:"orderId"`
}

func NewPendingReminderTask(payload PendingReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPendingReminder, data), nil
}

func ParsePendingReminderPayload(task *asynq.Task) (PendingReminderPayload, error) {
	var payload PendingReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PendingReminderPayload{}, err
	}
	return payload, nil
}
