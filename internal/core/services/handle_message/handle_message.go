package handlemessage

import (
	"context"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/core/services"
	createreminder "ponger/internal/core/services/create_reminder"
	"strconv"
	"strings"
)

// DEFAULT_INTERVAL is used when a message does not start with an integer.
const DEFAULT_INTERVAL int64 = 1

type Input struct {
	Text        string
	RecipientID reminder.RecipientID
}

type Result struct {
	Reminder reminder.Reminder
	Interval int64
}

type service struct {
	log            logging.Logger
	createReminder services.Service[createreminder.IntervalInput, createreminder.Result]
}

// New turns an inbound chat message into a reminder for its sender. The whole
// text becomes the reminder message.
func New(
	log logging.Logger,
	createReminder services.Service[createreminder.IntervalInput, createreminder.Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if createReminder == nil {
		panic(e.NewNilArgumentError("createReminder"))
	}
	return &service{log: log, createReminder: createReminder}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	s.log.Debug(
		ctx,
		"Got inbound message.",
		logging.Entry("recipientID", input.RecipientID),
		logging.Entry("text", input.Text),
	)

	interval := ParseInterval(input.Text)
	created, err := s.createReminder.Run(ctx, createreminder.IntervalInput{
		Message:     input.Text,
		Interval:    interval,
		RecipientID: input.RecipientID,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("input", input))
		return result, err
	}

	result.Reminder = created.Reminder
	result.Interval = interval
	return result, nil
}

// ParseInterval reads the leading whitespace-delimited token of the text as a
// number of seconds.
func ParseInterval(text string) int64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return DEFAULT_INTERVAL
	}
	interval, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return DEFAULT_INTERVAL
	}
	return interval
}
