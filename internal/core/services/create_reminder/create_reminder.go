package createreminder

import (
	"context"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/core/services"
)

type Input struct {
	Message     string
	DueAt       reminder.Timestamp
	RecipientID reminder.RecipientID
}

type Result struct {
	Reminder reminder.Reminder
}

type service struct {
	log                logging.Logger
	reminderRepository reminder.ReminderRepository
	scheduler          reminder.Scheduler
	clock              reminder.Clock
}

// New creates reminders with an explicit due date. The due date is not
// validated: a date in the past makes the reminder due immediately.
func New(
	log logging.Logger,
	reminderRepository reminder.ReminderRepository,
	scheduler reminder.Scheduler,
	clock reminder.Clock,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if reminderRepository == nil {
		panic(e.NewNilArgumentError("reminderRepository"))
	}
	if scheduler == nil {
		panic(e.NewNilArgumentError("scheduler"))
	}
	if clock == nil {
		panic(e.NewNilArgumentError("clock"))
	}
	return &service{
		log:                log,
		reminderRepository: reminderRepository,
		scheduler:          scheduler,
		clock:              clock,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	createdReminder := s.reminderRepository.Create(ctx, reminder.CreateInput{
		Message:     input.Message,
		DueAt:       input.DueAt,
		RecipientID: input.RecipientID,
		CreatedAt:   s.clock.Now(),
	})
	s.log.Info(
		ctx,
		"Reminder successfully created.",
		logging.Entry("reminderID", createdReminder.ID),
		logging.Entry("recipientID", createdReminder.RecipientID),
		logging.Entry("dueAt", createdReminder.DueAt),
	)

	// The reminder is stored already, the next polling iteration picks it up
	// even if the scheduler could not be notified.
	if err := s.scheduler.ScheduleReminder(ctx, createdReminder); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("reminderID", createdReminder.ID))
	}

	result.Reminder = createdReminder
	return result, nil
}
