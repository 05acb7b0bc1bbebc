package reminder

import "context"

// Sender delivers the reminder message to its recipient. Retry policy, if
// any, belongs to the implementation.
type Sender interface {
	SendReminder(ctx context.Context, r Reminder) error
}
