package bot

import "context"

type ChatID int64

type TelegramBotMessage struct {
	ChatID ChatID
	Text   string
}

type TelegramBotMessageSender interface {
	SendTelegramBotMessage(ctx context.Context, m TelegramBotMessage) error
}

// UpdateID is the identifier Telegram assigns to every incoming update.
type UpdateID int64

// UpdateDeduplicator filters out updates that have already been handled.
// Telegram redelivers webhook updates that were not acknowledged in time.
type UpdateDeduplicator interface {
	IsFirstDelivery(ctx context.Context, id UpdateID) bool
}
