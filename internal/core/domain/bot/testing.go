package bot

import (
	"context"
	"sync"
)

type TestTelegramBotMessageSender struct {
	Sent  []TelegramBotMessage
	Error error
	lock  sync.Mutex
}

func NewTestTelegramBotMessageSender() *TestTelegramBotMessageSender {
	return &TestTelegramBotMessageSender{}
}

func (s *TestTelegramBotMessageSender) SendTelegramBotMessage(ctx context.Context, m TelegramBotMessage) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, m)
	return s.Error
}

type FakeUpdateDeduplicator struct {
	seen map[UpdateID]struct{}
	lock sync.Mutex
}

func NewFakeUpdateDeduplicator() *FakeUpdateDeduplicator {
	return &FakeUpdateDeduplicator{seen: make(map[UpdateID]struct{})}
}

func (d *FakeUpdateDeduplicator) IsFirstDelivery(ctx context.Context, id UpdateID) bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = struct{}{}
	return true
}
