package response

import (
	"ponger/internal/core/domain/reminder"
	"time"

	"github.com/golang-module/carbon/v2"
)

type Reminder struct {
	ID          int64     `json:"id"`
	Message     string    `json:"message"`
	RecipientID int64     `json:"recipient_id"`
	DueAt       time.Time `json:"due_at"`
	DueIn       string    `json:"due_in"`
	CreatedAt   time.Time `json:"created_at"`
	Sent        bool      `json:"sent"`
}

// FromDomainType fills the response. DueIn describes DueAt relative to now
// in English, e.g. "30 seconds after".
func (r *Reminder) FromDomainType(dr reminder.Reminder, now reminder.Timestamp) {
	r.ID = int64(dr.ID)
	r.Message = dr.Message
	r.RecipientID = int64(dr.RecipientID)
	r.DueAt = dr.DueAt.Time().UTC()
	r.CreatedAt = dr.CreatedAt.Time().UTC()
	r.Sent = dr.Sent
	r.DueIn = carbon.Time2Carbon(dr.DueAt.Time()).DiffForHumans(carbon.Time2Carbon(now.Time()))
}
