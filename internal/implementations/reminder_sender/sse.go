package remindersender

import (
	"context"
	"encoding/json"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/reminder"
	"strconv"

	"github.com/r3labs/sse/v2"
)

type sseEvent struct {
	ID          int64  `json:"id"`
	Message     string `json:"message"`
	RecipientID int64  `json:"recipient_id"`
	DueAt       int64  `json:"due_at"`
}

// SSESender publishes reminders to the stream named after the recipient.
// Reminders of recipients nobody listens to are dropped.
type SSESender struct {
	sseServer *sse.Server
}

func NewSSE(sseServer *sse.Server) *SSESender {
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	return &SSESender{sseServer: sseServer}
}

func StreamID(recipientID reminder.RecipientID) string {
	return strconv.FormatInt(int64(recipientID), 10)
}

func (s *SSESender) SendReminder(ctx context.Context, rem reminder.Reminder) error {
	stream := StreamID(rem.RecipientID)
	if !s.sseServer.StreamExists(stream) {
		return nil
	}
	data, err := json.Marshal(sseEvent{
		ID:          int64(rem.ID),
		Message:     rem.Message,
		RecipientID: int64(rem.RecipientID),
		DueAt:       int64(rem.DueAt),
	})
	if err != nil {
		return err
	}
	s.sseServer.Publish(stream, &sse.Event{
		ID:    []byte(strconv.FormatInt(int64(rem.ID), 10)),
		Event: []byte("reminder"),
		Data:  data,
	})
	return nil
}
