package remindersender

import (
	"context"
	"ponger/internal/core/domain/bot"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/reminder"
)

// TelegramSender sends the reminder text back to the chat it came from.
type TelegramSender struct {
	botMessageSender bot.TelegramBotMessageSender
}

func NewTelegram(botMessageSender bot.TelegramBotMessageSender) *TelegramSender {
	if botMessageSender == nil {
		panic(e.NewNilArgumentError("botMessageSender"))
	}
	return &TelegramSender{botMessageSender: botMessageSender}
}

func (s *TelegramSender) SendReminder(ctx context.Context, rem reminder.Reminder) error {
	return s.botMessageSender.SendTelegramBotMessage(
		ctx,
		bot.TelegramBotMessage{
			ChatID: bot.ChatID(rem.RecipientID),
			Text:   rem.Message,
		},
	)
}
