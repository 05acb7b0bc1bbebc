package sendduereminders

import (
	"context"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/core/services"
)

type Input struct{}

type Result struct {
	Sent         []reminder.Reminder
	SentAnything bool
}

type service struct {
	log                logging.Logger
	reminderRepository reminder.ReminderRepository
	sender             reminder.Sender
}

func New(
	log logging.Logger,
	reminderRepository reminder.ReminderRepository,
	sender reminder.Sender,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if reminderRepository == nil {
		panic(e.NewNilArgumentError("reminderRepository"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	return &service{
		log:                log,
		reminderRepository: reminderRepository,
		sender:             sender,
	}
}

// Run delivers every due reminder at most once. Reminders are marked as sent
// before delivery, so a failed delivery is never retried.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	dueReminders := s.reminderRepository.FetchDueAndMarkSent(ctx)
	if len(dueReminders) == 0 {
		return result, nil
	}

	s.log.Info(ctx, "Got due reminders for sending.", logging.Entry("count", len(dueReminders)))
	failedCount := 0
	for _, rem := range dueReminders {
		if err := s.sender.SendReminder(ctx, rem); err != nil {
			failedCount++
			logging.Error(
				ctx,
				s.log,
				err,
				logging.Entry("reminderID", rem.ID),
				logging.Entry("recipientID", rem.RecipientID),
			)
			continue
		}
		s.log.Debug(
			ctx,
			"Reminder has been sent.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("recipientID", rem.RecipientID),
		)
	}

	if failedCount > 0 {
		s.log.Warning(
			ctx,
			"Some reminders could not be sent.",
			logging.Entry("count", len(dueReminders)),
			logging.Entry("failedCount", failedCount),
		)
	}

	result.Sent = dueReminders
	result.SentAnything = true
	return result, nil
}
