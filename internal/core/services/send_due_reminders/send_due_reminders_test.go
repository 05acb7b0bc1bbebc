package sendduereminders

import (
	"context"
	"errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/core/services"
	createreminder "ponger/internal/core/services/create_reminder"
	memreminder "ponger/internal/inmemory/reminder"
	"testing"

	"github.com/stretchr/testify/suite"
)

const RECIPIENT_ID = reminder.RecipientID(1)

type testSuite struct {
	suite.Suite
	logger  *logging.FakeLogger
	clock   *reminder.FakeClock
	sender  *reminder.TestReminderSender
	create  services.Service[createreminder.IntervalInput, createreminder.Result]
	service services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.logger = logging.NewFakeLogger()
	suite.clock = reminder.NewFakeClock(0)
	suite.sender = reminder.NewTestReminderSender()
	repository := memreminder.NewInMemoryReminderRepository(suite.clock)
	suite.create = createreminder.NewWithInterval(
		suite.clock,
		createreminder.New(suite.logger, repository, reminder.NewTestReminderScheduler(), suite.clock),
	)
	suite.service = New(suite.logger, repository, suite.sender)
}

func TestSendDueRemindersService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) givenReminder(message string, interval int64) {
	_, err := s.create.Run(
		context.Background(),
		createreminder.IntervalInput{Message: message, Interval: interval, RecipientID: RECIPIENT_ID},
	)
	s.Require().Nil(err)
}

func (s *testSuite) whenTimeIsAdvancedBy(seconds int64) Result {
	s.sender.Forget()
	s.clock.AdvanceBy(seconds)
	result, err := s.service.Run(context.Background(), Input{})
	s.Require().Nil(err)
	return result
}

func (s *testSuite) TestReminderIsNotSentImmediately() {
	s.givenReminder("Hello", 60)

	result := s.whenTimeIsAdvancedBy(0)

	s.False(result.SentAnything)
	s.Empty(s.sender.Sent())
}

func (s *testSuite) TestReminderIsNotSentSecondBeforeDue() {
	s.givenReminder("Hello", 60)

	result := s.whenTimeIsAdvancedBy(59)

	s.False(result.SentAnything)
	s.Empty(s.sender.Sent())
}

func (s *testSuite) TestReminderIsSentRightOnTime() {
	s.givenReminder("Hello", 60)

	result := s.whenTimeIsAdvancedBy(60)

	s.True(result.SentAnything)
	s.Equal([]string{"Hello"}, s.sender.SentMessages())
	s.Equal(RECIPIENT_ID, s.sender.Sent()[0].RecipientID)
}

func (s *testSuite) TestRemindersWithDifferentIntervals() {
	s.givenReminder("Hi", 30)
	s.givenReminder("Hello", 60)

	s.whenTimeIsAdvancedBy(45)
	s.Contains(s.sender.SentMessages(), "Hi")
	s.NotContains(s.sender.SentMessages(), "Hello")

	s.whenTimeIsAdvancedBy(15)
	s.Equal([]string{"Hello"}, s.sender.SentMessages())
}

func (s *testSuite) TestReminderIsSentOnlyOnce() {
	s.givenReminder("Hello", 30)

	s.clock.AdvanceBy(60)
	first, err := s.service.Run(context.Background(), Input{})
	s.Require().Nil(err)
	s.True(first.SentAnything)
	s.Len(s.sender.Sent(), 1)

	second, err := s.service.Run(context.Background(), Input{})
	s.Require().Nil(err)
	s.False(second.SentAnything)
	s.Len(s.sender.Sent(), 1)
}

func (s *testSuite) TestRemindersCanBeSentOutOfOrder() {
	s.givenReminder("A", 60)
	s.givenReminder("B", 30)

	s.whenTimeIsAdvancedBy(45)
	s.Equal([]string{"B"}, s.sender.SentMessages())

	s.whenTimeIsAdvancedBy(45)
	s.Equal([]string{"A"}, s.sender.SentMessages())
}

func (s *testSuite) TestNonPositiveIntervalIsDueImmediately() {
	s.givenReminder("now", 0)
	s.givenReminder("past", -10)

	result := s.whenTimeIsAdvancedBy(0)

	s.True(result.SentAnything)
	s.Equal([]string{"past", "now"}, s.sender.SentMessages())
}

func (s *testSuite) TestSimultaneouslyDueRemindersAreOrderedByDueDate() {
	s.givenReminder("third", 20)
	s.givenReminder("first", 10)
	s.givenReminder("second", 20)

	result := s.whenTimeIsAdvancedBy(100)

	s.Equal([]string{"first", "third", "second"}, s.sender.SentMessages())
	s.Len(result.Sent, 3)
}

func (s *testSuite) TestSendingErrorDoesNotBlockOtherReminders() {
	s.sender.SentError["broken"] = errors.New("chat not found")
	s.givenReminder("broken", 10)
	s.givenReminder("fine", 20)

	result := s.whenTimeIsAdvancedBy(30)

	s.True(result.SentAnything)
	s.Equal([]string{"broken", "fine"}, s.sender.SentMessages())
	s.Equal(1, s.logger.CountLevel(logging.ERROR))

	// The failed reminder stays sent.
	result = s.whenTimeIsAdvancedBy(30)
	s.False(result.SentAnything)
	s.Empty(s.sender.Sent())
}

func (s *testSuite) TestRepositoryResultIsReturned() {
	// Setup ---
	repository := reminder.NewTestReminderRepository()
	repository.DueResult = []reminder.Reminder{
		{ID: reminder.ID(1), Message: "A", RecipientID: RECIPIENT_ID},
		{ID: reminder.ID(2), Message: "B", RecipientID: RECIPIENT_ID},
	}
	sender := reminder.NewTestReminderSender()
	service := New(logging.NewFakeLogger(), repository, sender)

	// Exercise ---
	result, err := service.Run(context.Background(), Input{})

	// Verify ---
	assert := s.Require()
	assert.Nil(err)
	assert.True(result.SentAnything)
	assert.Len(result.Sent, 2)
	assert.Equal([]string{"A", "B"}, sender.SentMessages())
	for _, rem := range sender.Sent() {
		assert.True(rem.Sent)
	}
}
