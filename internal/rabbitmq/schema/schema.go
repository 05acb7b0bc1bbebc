package schema

import (
	"encoding/json"
	"ponger/internal/core/domain/reminder"
)

// Notification is a delivered reminder waiting in the notification queue.
type Notification struct {
	ReminderID  int64  `json:"reminder_id"`
	Message     string `json:"message"`
	RecipientID int64  `json:"recipient_id"`
	DueAt       int64  `json:"due_at"`
}

func NewNotification(r reminder.Reminder) Notification {
	return Notification{
		ReminderID:  int64(r.ID),
		Message:     r.Message,
		RecipientID: int64(r.RecipientID),
		DueAt:       int64(r.DueAt),
	}
}

func (n *Notification) Marshal() ([]byte, error) {
	return json.Marshal(n)
}

func (n *Notification) Unmarshal(data []byte) error {
	return json.Unmarshal(data, n)
}

// Reminder restores the delivered reminder.
func (n *Notification) Reminder() reminder.Reminder {
	return reminder.Reminder{
		ID:          reminder.ID(n.ReminderID),
		Message:     n.Message,
		RecipientID: reminder.RecipientID(n.RecipientID),
		DueAt:       reminder.Timestamp(n.DueAt),
		Sent:        true,
	}
}
