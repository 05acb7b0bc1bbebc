package reminder

import "context"

// Scheduler is notified about every newly created reminder.
type Scheduler interface {
	ScheduleReminder(ctx context.Context, r Reminder) error
}
