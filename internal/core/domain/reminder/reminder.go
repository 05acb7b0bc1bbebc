package reminder

import (
	"math"
	"time"
)

type ID int64

// RecipientID identifies the destination of a reminder on the message
// transport (a Telegram chat ID).
type RecipientID int64

// Timestamp is a point in time in whole seconds since the Unix epoch.
type Timestamp int64

// Add returns the timestamp shifted by the given number of seconds. The result
// saturates instead of overflowing.
func (t Timestamp) Add(seconds int64) Timestamp {
	if seconds > 0 && int64(t) > math.MaxInt64-seconds {
		return Timestamp(math.MaxInt64)
	}
	if seconds < 0 && int64(t) < math.MinInt64-seconds {
		return Timestamp(math.MinInt64)
	}
	return t + Timestamp(seconds)
}

func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

type Reminder struct {
	ID          ID
	Message     string
	DueAt       Timestamp
	RecipientID RecipientID
	CreatedAt   Timestamp
	Sent        bool
}

// IsDue reports whether the reminder may be delivered at the given time.
func (r Reminder) IsDue(now Timestamp) bool {
	return now >= r.DueAt
}

// IsPending reports whether the reminder is still waiting for delivery.
func (r Reminder) IsPending() bool {
	return !r.Sent
}

// MarkSent flags the reminder as delivered. The flag is never cleared.
func (r *Reminder) MarkSent() {
	r.Sent = true
}
