package reminder

import "context"

type CreateInput struct {
	Message     string
	DueAt       Timestamp
	RecipientID RecipientID
	CreatedAt   Timestamp
}

type Counts struct {
	Total   uint
	Pending uint
}

// ReminderRepository owns every reminder created during the process
// lifetime.
//
// FetchDueAndMarkSent returns the reminders that are due according to the
// repository clock and are not sent yet, ordered by DueAt and then by
// creation order. Returned reminders are already marked as sent, and
// concurrent calls never return the same reminder twice.
type ReminderRepository interface {
	Create(ctx context.Context, input CreateInput) Reminder
	FetchDueAndMarkSent(ctx context.Context) []Reminder
	Count(ctx context.Context) Counts
}
