package services

import (
	"ponger/internal/app/deps"
	"ponger/internal/core/services"
	createreminder "ponger/internal/core/services/create_reminder"
	handlemessage "ponger/internal/core/services/handle_message"
	sendduereminders "ponger/internal/core/services/send_due_reminders"
	"ponger/internal/scheduler"
)

type Services struct {
	CreateReminder             services.Service[createreminder.Input, createreminder.Result]
	CreateReminderWithInterval services.Service[createreminder.IntervalInput, createreminder.Result]
	HandleMessage              services.Service[handlemessage.Input, handlemessage.Result]
	SendDueReminders           services.Service[sendduereminders.Input, sendduereminders.Result]

	Scheduler *scheduler.Scheduler
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SendDueReminders = sendduereminders.New(
		deps.Logger,
		deps.ReminderRepository,
		deps.ReminderSender,
	)
	s.Scheduler = scheduler.New(
		deps.Logger,
		s.SendDueReminders,
		scheduler.WithUnit(deps.Config.SchedulerUnit),
	)
	s.CreateReminder = createreminder.New(
		deps.Logger,
		deps.ReminderRepository,
		s.Scheduler,
		deps.Clock,
	)
	s.CreateReminderWithInterval = createreminder.NewWithInterval(
		deps.Clock,
		s.CreateReminder,
	)
	s.HandleMessage = handlemessage.New(
		deps.Logger,
		s.CreateReminderWithInterval,
	)

	return s
}
