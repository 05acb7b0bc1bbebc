package scheduler

import (
	"context"
	"errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/core/services"
	sendduereminders "ponger/internal/core/services/send_due_reminders"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const WAIT_TIMEOUT = 5 * time.Second

type stubSendService struct {
	results []bool
	err     error
	calls   int32
	lock    sync.Mutex
}

func (s *stubSendService) Run(
	ctx context.Context,
	input sendduereminders.Input,
) (result sendduereminders.Result, err error) {
	atomic.AddInt32(&s.calls, 1)
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.err != nil {
		return result, s.err
	}
	if len(s.results) > 0 {
		result.SentAnything = s.results[0]
		s.results = s.results[1:]
	}
	return result, nil
}

func (s *stubSendService) Calls() int {
	return int(atomic.LoadInt32(&s.calls))
}

func collectIterations() (chan Iteration, Option) {
	iterations := make(chan Iteration, 1024)
	return iterations, WithIterationHook(func(it Iteration) {
		select {
		case iterations <- it:
		default:
		}
	})
}

func nextIteration(t *testing.T, iterations chan Iteration) Iteration {
	t.Helper()
	select {
	case it := <-iterations:
		return it
	case <-time.After(WAIT_TIMEOUT):
		t.Fatal("scheduler iteration did not happen in time")
		return Iteration{}
	}
}

func TestSchedulerAdaptsInterval(t *testing.T) {
	// Setup ---
	service := &stubSendService{results: []bool{false, false, false, true, false}}
	iterations, hook := collectIterations()
	scheduler := New(logging.NewFakeLogger(), service, WithUnit(time.Millisecond), hook)

	// Exercise ---
	require.Nil(t, scheduler.Start(context.Background()))
	intervals := make([]int, 0, 5)
	sent := make([]bool, 0, 5)
	for ix := 0; ix < 5; ix++ {
		it := nextIteration(t, iterations)
		intervals = append(intervals, it.Interval)
		sent = append(sent, it.SentAnything)
	}
	scheduler.Stop()

	// Verify ---
	assert := require.New(t)
	assert.Equal([]int{2, 3, 3, 1, 2}, intervals)
	assert.Equal([]bool{false, false, false, true, false}, sent)
	assert.Equal(StateStopped, scheduler.State())
}

func TestSchedulerStartTwice(t *testing.T) {
	scheduler := New(logging.NewFakeLogger(), &stubSendService{}, WithUnit(time.Millisecond))
	assert := require.New(t)
	assert.Equal(StateIdle, scheduler.State())

	assert.Nil(scheduler.Start(context.Background()))
	assert.Equal(StateRunning, scheduler.State())
	assert.ErrorIs(scheduler.Start(context.Background()), ErrAlreadyStarted)

	scheduler.Stop()
	assert.Equal(StateStopped, scheduler.State())
	assert.ErrorIs(scheduler.Start(context.Background()), ErrAlreadyStarted)
}

func TestSchedulerStopBeforeStart(t *testing.T) {
	scheduler := New(logging.NewFakeLogger(), &stubSendService{})

	scheduler.Stop()
	scheduler.Stop()

	assert := require.New(t)
	assert.Equal(StateStopped, scheduler.State())
	assert.ErrorIs(scheduler.Start(context.Background()), ErrAlreadyStarted)
}

func TestSchedulerStopInterruptsSleep(t *testing.T) {
	// Setup ---
	service := &stubSendService{}
	iterations, hook := collectIterations()
	scheduler := New(logging.NewFakeLogger(), service, WithUnit(time.Hour), hook)
	require.Nil(t, scheduler.Start(context.Background()))
	nextIteration(t, iterations)

	// Exercise ---
	stopped := make(chan struct{})
	go func() {
		scheduler.Stop()
		scheduler.Stop()
		close(stopped)
	}()

	// Verify ---
	select {
	case <-stopped:
	case <-time.After(WAIT_TIMEOUT):
		t.Fatal("scheduler did not stop in time")
	}
	assert := require.New(t)
	assert.Equal(StateStopped, scheduler.State())
	assert.Equal(1, service.Calls())
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	// Setup ---
	iterations, hook := collectIterations()
	scheduler := New(logging.NewFakeLogger(), &stubSendService{}, WithUnit(time.Hour), hook)
	ctx, cancel := context.WithCancel(context.Background())
	require.Nil(t, scheduler.Start(ctx))
	nextIteration(t, iterations)

	// Exercise ---
	cancel()

	// Verify ---
	require.Eventually(
		t,
		func() bool { return scheduler.State() == StateStopped },
		WAIT_TIMEOUT,
		time.Millisecond,
	)
	scheduler.Stop()
}

func TestNewReminderWakesScheduler(t *testing.T) {
	// Setup ---
	service := &stubSendService{results: []bool{false, false, false}}
	iterations, hook := collectIterations()
	scheduler := New(logging.NewFakeLogger(), service, WithUnit(time.Hour), hook)
	require.Nil(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()
	first := nextIteration(t, iterations)

	// Exercise ---
	err := scheduler.ScheduleReminder(context.Background(), reminder.Reminder{ID: reminder.ID(1)})
	second := nextIteration(t, iterations)

	// Verify ---
	assert := require.New(t)
	assert.Nil(err)
	assert.Equal(2, first.Interval)
	// Backoff was reset by the new reminder, so the idle iteration grows
	// from the minimal interval again.
	assert.Equal(2, second.Interval)
	assert.Equal(2, service.Calls())
}

func TestScheduleReminderDoesNotBlock(t *testing.T) {
	scheduler := New(logging.NewFakeLogger(), &stubSendService{})

	for ix := 0; ix < 10; ix++ {
		require.Nil(t, scheduler.ScheduleReminder(context.Background(), reminder.Reminder{}))
	}
}

func TestServiceErrorIsTreatedAsNothingSent(t *testing.T) {
	// Setup ---
	service := &stubSendService{err: errors.New("test error")}
	log := logging.NewFakeLogger()
	iterations, hook := collectIterations()
	scheduler := New(log, service, WithUnit(time.Millisecond), hook)

	// Exercise ---
	require.Nil(t, scheduler.Start(context.Background()))
	first := nextIteration(t, iterations)
	scheduler.Stop()

	// Verify ---
	assert := require.New(t)
	assert.False(first.SentAnything)
	assert.Equal(2, first.Interval)
	assert.GreaterOrEqual(log.CountLevel(logging.ERROR), 1)
}

func TestNilArgumentsPanic(t *testing.T) {
	var service services.Service[sendduereminders.Input, sendduereminders.Result] = &stubSendService{}
	require.Panics(t, func() { New(nil, service) })
	require.Panics(t, func() { New(logging.NewFakeLogger(), nil) })
}
