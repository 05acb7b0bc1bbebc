package telegrampoller

import (
	"context"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	"ponger/internal/core/services"
	handlemessage "ponger/internal/core/services/handle_message"
	"time"

	tele "gopkg.in/telebot.v4"
)

type Settings struct {
	Token   string
	URL     string
	Timeout time.Duration
}

// Poller receives text messages with Bot API long polling and turns each of
// them into a reminder.
type Poller struct {
	log           logging.Logger
	bot           *tele.Bot
	handleMessage services.Service[handlemessage.Input, handlemessage.Result]
}

func New(
	log logging.Logger,
	settings Settings,
	handleMessage services.Service[handlemessage.Input, handlemessage.Result],
) (*Poller, error) {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  settings.Token,
		URL:    settings.URL,
		Poller: &tele.LongPoller{Timeout: timeout, AllowedUpdates: []string{"message"}},
		OnError: func(err error, c tele.Context) {
			logging.Error(context.Background(), log, err)
		},
	})
	if err != nil {
		return nil, err
	}
	return NewWithBot(log, b, handleMessage), nil
}

// NewWithBot registers the message handler on an existing bot.
func NewWithBot(
	log logging.Logger,
	b *tele.Bot,
	handleMessage services.Service[handlemessage.Input, handlemessage.Result],
) *Poller {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if b == nil {
		panic(e.NewNilArgumentError("bot"))
	}
	if handleMessage == nil {
		panic(e.NewNilArgumentError("handleMessage"))
	}
	p := &Poller{log: log, bot: b, handleMessage: handleMessage}
	b.Handle(tele.OnText, p.HandleText)
	return p
}

func (p *Poller) HandleText(c tele.Context) error {
	m := c.Message()
	if m == nil || m.Chat == nil {
		return nil
	}
	_, err := p.handleMessage.Run(context.Background(), handlemessage.Input{
		Text:        m.Text,
		RecipientID: reminder.RecipientID(m.Chat.ID),
	})
	return err
}

// Start blocks until Stop is called.
func (p *Poller) Start() {
	p.log.Info(context.Background(), "Telegram polling has started.")
	p.bot.Start()
	p.log.Info(context.Background(), "Telegram polling has stopped.")
}

func (p *Poller) Stop() {
	p.bot.Stop()
}
