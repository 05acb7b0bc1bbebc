package remindersender

import (
	"context"
	"errors"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
)

// Sender delivers a reminder through every configured channel. A failing
// channel does not prevent delivery through the others.
type Sender struct {
	log     logging.Logger
	senders map[string]reminder.Sender
	order   []string
}

func New(log logging.Logger) *Sender {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &Sender{log: log, senders: make(map[string]reminder.Sender)}
}

// With registers a channel sender under the name. Registering a name twice
// replaces the previous sender.
func (s *Sender) With(name string, sender reminder.Sender) *Sender {
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if _, ok := s.senders[name]; !ok {
		s.order = append(s.order, name)
	}
	s.senders[name] = sender
	return s
}

func (s *Sender) Channels() []string {
	channels := make([]string, len(s.order))
	copy(channels, s.order)
	return channels
}

func (s *Sender) SendReminder(ctx context.Context, rem reminder.Reminder) error {
	var errs []error
	for _, name := range s.order {
		err := s.senders[name].SendReminder(ctx, rem)
		if err != nil {
			logging.Error(
				ctx,
				s.log,
				err,
				logging.Entry("reminderID", rem.ID),
				logging.Entry("channel", name),
			)
			errs = append(errs, err)
			continue
		}
		s.log.Debug(
			ctx,
			"Reminder has been successfully sent to channel.",
			logging.Entry("reminderID", rem.ID),
			logging.Entry("channel", name),
		)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	s.log.Info(ctx, "Reminder has been sent.", logging.Entry("reminderID", rem.ID))
	return nil
}
