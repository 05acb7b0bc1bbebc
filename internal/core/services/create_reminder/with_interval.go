package createreminder

import (
	"context"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/core/services"
)

type IntervalInput struct {
	Message     string
	Interval    int64
	RecipientID reminder.RecipientID
}

type withIntervalService struct {
	clock reminder.Clock
	inner services.Service[Input, Result]
}

// NewWithInterval creates reminders due Interval seconds from now.
// Non-positive intervals produce reminders that are due immediately.
func NewWithInterval(
	clock reminder.Clock,
	inner services.Service[Input, Result],
) services.Service[IntervalInput, Result] {
	if clock == nil {
		panic(e.NewNilArgumentError("clock"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &withIntervalService{clock: clock, inner: inner}
}

func (s *withIntervalService) Run(ctx context.Context, input IntervalInput) (Result, error) {
	return s.inner.Run(ctx, Input{
		Message:     input.Message,
		DueAt:       s.clock.Now().Add(input.Interval),
		RecipientID: input.RecipientID,
	})
}
