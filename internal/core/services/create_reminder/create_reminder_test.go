package createreminder

import (
	"context"
	"errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/core/services"
	"testing"

	"github.com/stretchr/testify/suite"
)

const (
	NOW          = reminder.Timestamp(1_000)
	RECIPIENT_ID = reminder.RecipientID(42)
)

type testSuite struct {
	suite.Suite
	logger     *logging.FakeLogger
	repository *reminder.TestReminderRepository
	scheduler  *reminder.TestReminderScheduler
	clock      *reminder.FakeClock
	service    services.Service[Input, Result]
	interval   services.Service[IntervalInput, Result]
}

func (suite *testSuite) SetupTest() {
	suite.logger = logging.NewFakeLogger()
	suite.repository = reminder.NewTestReminderRepository()
	suite.scheduler = reminder.NewTestReminderScheduler()
	suite.clock = reminder.NewFakeClock(NOW)
	suite.service = New(suite.logger, suite.repository, suite.scheduler, suite.clock)
	suite.interval = NewWithInterval(suite.clock, suite.service)
}

func TestCreateReminderService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestCreateWithDueDate() {
	cases := []struct {
		id    string
		dueAt reminder.Timestamp
	}{
		{id: "1", dueAt: NOW + 60},
		{id: "2", dueAt: NOW},
		{id: "3", dueAt: NOW - 60},
		{id: "4", dueAt: 0},
	}

	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			// Setup ---
			repository := reminder.NewTestReminderRepository()
			scheduler := reminder.NewTestReminderScheduler()
			service := New(logging.NewFakeLogger(), repository, scheduler, reminder.NewFakeClock(NOW))

			// Exercise ---
			result, err := service.Run(
				context.Background(),
				Input{Message: "Hello", DueAt: testcase.dueAt, RecipientID: RECIPIENT_ID},
			)

			// Verify ---
			assert := s.Require()
			assert.Nil(err)
			assert.Equal(testcase.dueAt, result.Reminder.DueAt)
			assert.Equal("Hello", result.Reminder.Message)
			assert.Equal(RECIPIENT_ID, result.Reminder.RecipientID)
			assert.False(result.Reminder.Sent)
			assert.Equal(
				[]reminder.CreateInput{{
					Message:     "Hello",
					DueAt:       testcase.dueAt,
					RecipientID: RECIPIENT_ID,
					CreatedAt:   NOW,
				}},
				repository.CreateWith,
			)
			assert.Equal([]reminder.Reminder{result.Reminder}, scheduler.Scheduled)
		})
	}
}

func (s *testSuite) TestCreateWithInterval() {
	cases := []struct {
		id       string
		interval int64
		expected reminder.Timestamp
	}{
		{id: "1", interval: 60, expected: NOW + 60},
		{id: "2", interval: 1, expected: NOW + 1},
		{id: "3", interval: 0, expected: NOW},
		{id: "4", interval: -30, expected: NOW - 30},
	}

	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			// Setup ---
			repository := reminder.NewTestReminderRepository()
			clock := reminder.NewFakeClock(NOW)
			service := NewWithInterval(
				clock,
				New(logging.NewFakeLogger(), repository, reminder.NewTestReminderScheduler(), clock),
			)

			// Exercise ---
			result, err := service.Run(
				context.Background(),
				IntervalInput{Message: "Hi", Interval: testcase.interval, RecipientID: RECIPIENT_ID},
			)

			// Verify ---
			assert := s.Require()
			assert.Nil(err)
			assert.Equal(testcase.expected, result.Reminder.DueAt)
			assert.Len(repository.CreateWith, 1)
			assert.Equal(testcase.expected, repository.CreateWith[0].DueAt)
		})
	}
}

func (s *testSuite) TestIntervalIsCountedFromCurrentTime() {
	// Setup ---
	s.clock.AdvanceBy(45)

	// Exercise ---
	result, err := s.interval.Run(
		context.Background(),
		IntervalInput{Message: "Hi", Interval: 30, RecipientID: RECIPIENT_ID},
	)

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(NOW+75, result.Reminder.DueAt)
	assert.Equal(NOW+45, result.Reminder.CreatedAt)
}

func (s *testSuite) TestSchedulerErrorDoesNotFailCreation() {
	// Setup ---
	s.scheduler.Error = errors.New("scheduler is stopped")

	// Exercise ---
	result, err := s.service.Run(
		context.Background(),
		Input{Message: "Hello", DueAt: NOW, RecipientID: RECIPIENT_ID},
	)

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.Equal("Hello", result.Reminder.Message)
	assert.Len(s.repository.CreateWith, 1)
	assert.Equal(1, s.logger.CountLevel(logging.ERROR))
}

func (s *testSuite) TestNilArgumentsPanic() {
	assert := s.Require()
	assert.Panics(func() { New(nil, s.repository, s.scheduler, s.clock) })
	assert.Panics(func() { New(s.logger, nil, s.scheduler, s.clock) })
	assert.Panics(func() { New(s.logger, s.repository, nil, s.clock) })
	assert.Panics(func() { New(s.logger, s.repository, s.scheduler, nil) })
	assert.Panics(func() { NewWithInterval(nil, s.service) })
	assert.Panics(func() { NewWithInterval(s.clock, nil) })
}
