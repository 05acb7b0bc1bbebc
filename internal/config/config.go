package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	TRANSPORT_POLLING = "polling"
	TRANSPORT_WEBHOOK = "webhook"

	SENDER_TELEGRAM = "telegram"
	SENDER_AMQP     = "amqp"
	SENDER_SSE      = "sse"

	MIN_SECRET_LEN = 16
)

var (
	ErrTooManyArguments = errors.New("expected at most one argument: bot token")
	ErrTokenNotSet      = errors.New("bot token must be passed as the argument or TELEGRAM_BOT_TOKEN")
)

type Config struct {
	TelegramBotToken       string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramBaseURL        url.URL       `env:"TELEGRAM_BASE_URL" envDefault:"https://api.telegram.org"`
	TelegramRequestTimeout time.Duration `env:"TELEGRAM_REQUEST_TIMEOUT" envDefault:"10s"`
	TelegramRateLimit      int           `env:"TELEGRAM_RATE_LIMIT" envDefault:"25"`
	TelegramURLSecret      string        `env:"TELEGRAM_URL_SECRET"`

	Transport      string   `env:"TRANSPORT" envDefault:"polling"`
	Port           int      `env:"PORT" envDefault:"9090"`
	BaseURL        *url.URL `env:"BASE_URL"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	// ApiToken authorizes the JSON API, which is disabled when it is empty.
	ApiToken          string `env:"API_TOKEN"`
	EventsTokenSecret string `env:"EVENTS_TOKEN_SECRET"`

	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	SchedulerUnit time.Duration `env:"SCHEDULER_UNIT" envDefault:"1s"`
	Senders       []string      `env:"SENDERS" envDefault:"telegram" envSeparator:","`

	RedisURL       string        `env:"REDIS_URL"`
	UpdateDedupTTL time.Duration `env:"UPDATE_DEDUP_TTL" envDefault:"24h"`

	RabbitmqURL               string `env:"RABBITMQ_URL"`
	RabbitmqNotificationQueue string `env:"RABBITMQ_NOTIFICATION_QUEUE" envDefault:"ponger.notifications"`

	SentryDsn *url.URL `env:"SENTRY_DSN"`
}

// Load reads the configuration from the environment. The bot token may be
// passed as the only command line argument, which takes precedence over
// TELEGRAM_BOT_TOKEN.
func Load(args []string) (*Config, error) {
	if len(args) > 1 {
		return nil, ErrTooManyArguments
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		cfg.TelegramBotToken = args[0]
	}
	if cfg.TelegramBotToken == "" {
		return nil, ErrTokenNotSet
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Transport, validation.Required, validation.In(TRANSPORT_POLLING, TRANSPORT_WEBHOOK)),
		validation.Field(
			&c.TelegramURLSecret,
			validation.By(requiredIf(c.Transport == TRANSPORT_WEBHOOK, "TELEGRAM_URL_SECRET")),
		),
		validation.Field(&c.ApiToken, validation.Length(MIN_SECRET_LEN, 0)),
		validation.Field(
			&c.EventsTokenSecret,
			validation.By(requiredIf(c.HasSender(SENDER_SSE), "EVENTS_TOKEN_SECRET")),
			validation.Length(MIN_SECRET_LEN, 0),
		),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.SchedulerUnit, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.UpdateDedupTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Senders, validation.Required, validation.By(validSenders)),
		validation.Field(
			&c.RabbitmqURL,
			validation.By(requiredIf(c.HasSender(SENDER_AMQP), "RABBITMQ_URL")),
		),
	)
}

func (c *Config) HasSender(name string) bool {
	for _, sender := range c.Senders {
		if sender == name {
			return true
		}
	}
	return false
}

// WebhookURL is the address Telegram pushes updates to.
func (c *Config) WebhookURL() (*url.URL, error) {
	if c.BaseURL == nil {
		return nil, errors.New("BASE_URL must be set")
	}
	if c.TelegramURLSecret == "" {
		return nil, errors.New("TELEGRAM_URL_SECRET must be set")
	}
	return c.BaseURL.JoinPath("telegram", "updates", c.TelegramURLSecret), nil
}

func requiredIf(condition bool, name string) validation.RuleFunc {
	return func(value interface{}) error {
		if condition && value.(string) == "" {
			return fmt.Errorf("%s must be set", name)
		}
		return nil
	}
}

func validSenders(value interface{}) error {
	seen := make(map[string]bool)
	for _, sender := range value.([]string) {
		switch sender {
		case SENDER_TELEGRAM, SENDER_AMQP, SENDER_SSE:
		default:
			return fmt.Errorf("unknown sender %q", sender)
		}
		if seen[sender] {
			return fmt.Errorf("duplicated sender %q", sender)
		}
		seen[sender] = true
	}
	return nil
}
