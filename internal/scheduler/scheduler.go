package scheduler

import (
	"context"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/core/services"
	sendduereminders "ponger/internal/core/services/send_due_reminders"
	"sync"
	"time"
)

var ErrAlreadyStarted = e.NewInvalidStateError("scheduler has already been started")

type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Iteration describes one completed polling iteration.
type Iteration struct {
	SentAnything bool
	Interval     int
}

type Option func(*Scheduler)

// WithUnit sets the duration of one backoff interval unit.
func WithUnit(unit time.Duration) Option {
	return func(s *Scheduler) {
		if unit > 0 {
			s.unit = unit
		}
	}
}

// WithIterationHook registers a function called by the polling goroutine
// after every iteration, before it goes to sleep.
func WithIterationHook(hook func(Iteration)) Option {
	return func(s *Scheduler) { s.onIteration = hook }
}

// Scheduler periodically sends due reminders from a background goroutine.
// It also implements reminder.Scheduler: a newly created reminder wakes the
// polling goroutine and resets its backoff.
type Scheduler struct {
	log         logging.Logger
	service     services.Service[sendduereminders.Input, sendduereminders.Result]
	unit        time.Duration
	onIteration func(Iteration)

	lock  sync.Mutex
	state State
	stop  chan struct{}
	done  chan struct{}
	nudge chan struct{}
}

func New(
	log logging.Logger,
	service services.Service[sendduereminders.Input, sendduereminders.Result],
	options ...Option,
) *Scheduler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	s := &Scheduler{
		log:     log,
		service: service,
		unit:    time.Second,
		state:   StateIdle,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		nudge:   make(chan struct{}, 1),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Scheduler) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

// Start spawns the polling goroutine. A scheduler can be started only once.
func (s *Scheduler) Start(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.state != StateIdle {
		return ErrAlreadyStarted
	}
	s.state = StateRunning
	go s.loop(ctx)
	return nil
}

// Stop asks the polling goroutine to exit and waits until the in-flight
// iteration completes. Stopping a scheduler that was never started makes it
// unusable.
func (s *Scheduler) Stop() {
	s.lock.Lock()
	switch s.state {
	case StateIdle:
		s.state = StateStopped
		close(s.done)
		s.lock.Unlock()
		return
	case StateRunning:
		s.state = StateStopping
		close(s.stop)
	}
	s.lock.Unlock()

	s.log.Debug(context.Background(), "Waiting for the scheduler to stop.")
	<-s.done
}

func (s *Scheduler) ScheduleReminder(ctx context.Context, r reminder.Reminder) error {
	select {
	case s.nudge <- struct{}{}:
	default:
	}
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer func() {
		s.lock.Lock()
		s.state = StateStopped
		s.lock.Unlock()
		close(s.done)
		s.log.Info(ctx, "Scheduler has stopped.")
	}()

	s.log.Info(ctx, "Scheduler has started.", logging.Entry("unit", s.unit.String()))
	backoff := NewBackoff()
	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		sentAnything := s.runOnce(ctx)
		interval := backoff.Next(sentAnything)
		if s.onIteration != nil {
			s.onIteration(Iteration{SentAnything: sentAnything, Interval: interval})
		}

		s.log.Debug(ctx, "Scheduler is sleeping.", logging.Entry("interval", interval))
		timer := time.NewTimer(time.Duration(interval) * s.unit)
		select {
		case <-s.stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-s.nudge:
			timer.Stop()
			backoff.Reset()
		case <-timer.C:
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) bool {
	result, err := s.service.Run(ctx, sendduereminders.Input{})
	if err != nil {
		logging.Error(ctx, s.log, err)
		return false
	}
	return result.SentAnything
}
