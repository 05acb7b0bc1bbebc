package reminder

import (
	"context"
	"sync"
)

type FakeClock struct {
	current Timestamp
	lock    sync.Mutex
}

func NewFakeClock(current Timestamp) *FakeClock {
	return &FakeClock{current: current}
}

func (c *FakeClock) Now() Timestamp {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.current
}

func (c *FakeClock) AdvanceBy(seconds int64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.current = c.current.Add(seconds)
}

func (c *FakeClock) Set(current Timestamp) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.current = current
}

type TestReminderRepository struct {
	CreateWith  []CreateInput
	DueResult   []Reminder
	CountResult Counts
	lastID      ID
	lock        sync.Mutex
}

func NewTestReminderRepository() *TestReminderRepository {
	return &TestReminderRepository{}
}

func (r *TestReminderRepository) Create(ctx context.Context, input CreateInput) Reminder {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.CreateWith = append(r.CreateWith, input)
	r.lastID++
	return Reminder{
		ID:          r.lastID,
		Message:     input.Message,
		DueAt:       input.DueAt,
		RecipientID: input.RecipientID,
		CreatedAt:   input.CreatedAt,
	}
}

func (r *TestReminderRepository) FetchDueAndMarkSent(ctx context.Context) []Reminder {
	r.lock.Lock()
	defer r.lock.Unlock()
	due := r.DueResult
	r.DueResult = nil
	for ix := range due {
		due[ix].MarkSent()
	}
	return due
}

func (r *TestReminderRepository) Count(ctx context.Context) Counts {
	return r.CountResult
}

type TestReminderScheduler struct {
	Scheduled []Reminder
	Error     error
	lock      sync.Mutex
}

func NewTestReminderScheduler() *TestReminderScheduler {
	return &TestReminderScheduler{}
}

func (s *TestReminderScheduler) ScheduleReminder(ctx context.Context, r Reminder) error {
	if s.Error != nil {
		return s.Error
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Scheduled = append(s.Scheduled, r)
	return nil
}

type TestReminderSender struct {
	sent []Reminder
	// SentError is returned for every reminder whose message equals a key.
	SentError map[string]error
	lock      sync.Mutex
}

func NewTestReminderSender() *TestReminderSender {
	return &TestReminderSender{SentError: make(map[string]error)}
}

func (s *TestReminderSender) SendReminder(ctx context.Context, r Reminder) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.sent = append(s.sent, r)
	return s.SentError[r.Message]
}

func (s *TestReminderSender) Sent() []Reminder {
	s.lock.Lock()
	defer s.lock.Unlock()
	sent := make([]Reminder, len(s.sent))
	copy(sent, s.sent)
	return sent
}

func (s *TestReminderSender) SentMessages() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	messages := make([]string, 0, len(s.sent))
	for _, r := range s.sent {
		messages = append(messages, r.Message)
	}
	return messages
}

func (s *TestReminderSender) Forget() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.sent = nil
}
