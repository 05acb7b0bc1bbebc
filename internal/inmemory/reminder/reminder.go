package reminder

import (
	"context"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/reminder"
	"sort"
	"sync"
)

// InMemoryReminderRepository keeps reminders for the process lifetime.
// Reminders are never removed.
type InMemoryReminderRepository struct {
	clock     reminder.Clock
	lock      sync.Mutex
	reminders []reminder.Reminder
	lastID    reminder.ID
}

func NewInMemoryReminderRepository(clock reminder.Clock) *InMemoryReminderRepository {
	if clock == nil {
		panic(e.NewNilArgumentError("clock"))
	}
	return &InMemoryReminderRepository{clock: clock}
}

func (r *InMemoryReminderRepository) Create(ctx context.Context, input reminder.CreateInput) reminder.Reminder {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.lastID++
	rem := reminder.Reminder{
		ID:          r.lastID,
		Message:     input.Message,
		DueAt:       input.DueAt,
		RecipientID: input.RecipientID,
		CreatedAt:   input.CreatedAt,
	}
	r.reminders = append(r.reminders, rem)
	return rem
}

func (r *InMemoryReminderRepository) FetchDueAndMarkSent(ctx context.Context) []reminder.Reminder {
	r.lock.Lock()
	defer r.lock.Unlock()

	now := r.clock.Now()
	due := make([]reminder.Reminder, 0)
	for ix := range r.reminders {
		rem := &r.reminders[ix]
		if !rem.IsPending() || !rem.IsDue(now) {
			continue
		}
		rem.MarkSent()
		due = append(due, *rem)
	}

	// Reminders are stored in creation order, a stable sort keeps it for
	// equal due times.
	sort.SliceStable(due, func(i, j int) bool { return due[i].DueAt < due[j].DueAt })
	return due
}

func (r *InMemoryReminderRepository) Count(ctx context.Context) (counts reminder.Counts) {
	r.lock.Lock()
	defer r.lock.Unlock()

	counts.Total = uint(len(r.reminders))
	for _, rem := range r.reminders {
		if rem.IsPending() {
			counts.Pending++
		}
	}
	return counts
}
