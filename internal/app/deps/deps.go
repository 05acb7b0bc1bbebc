package deps

import (
	"context"
	"fmt"
	"ponger/internal/config"
	"ponger/internal/core/domain/bot"
	dl "ponger/internal/core/domain/logging"
	"ponger/internal/core/domain/reminder"
	internalchanneltoken "ponger/internal/implementations/internal_channel_token"
	"ponger/internal/implementations/logging"
	remindersender "ponger/internal/implementations/reminder_sender"
	telegrambotmessagesender "ponger/internal/implementations/telegram_bot_message_sender"
	updatededuplicator "ponger/internal/implementations/update_deduplicator"
	memreminder "ponger/internal/inmemory/reminder"
	"ponger/internal/rabbitmq"
	remindernotification "ponger/internal/rabbitmq/publishers/reminder_notification"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v9"
	"github.com/r3labs/sse/v2"
)

type Deps struct {
	Config *config.Config
	Logger dl.Logger

	Redis     *redis.Client
	Rabbitmq  *rabbitmq.Connection
	SseServer    *sse.Server
	StreamTokens reminder.StreamTokenIssuer

	Clock              reminder.Clock
	ReminderRepository reminder.ReminderRepository

	TelegramBotMessageSender *telegrambotmessagesender.TelegramBotMessageSender
	UpdateDeduplicator       bot.UpdateDeduplicator
	ReminderSender           reminder.Sender
}

func InitDeps(cfg *config.Config) (*Deps, func()) {
	deps := &Deps{Config: cfg}

	closeLogger := deps.initLogger()
	flushSentry := deps.initSentry()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()
	closeSseServer := deps.initSseServer()

	deps.Clock = reminder.NewSystemClock()
	deps.ReminderRepository = memreminder.NewInMemoryReminderRepository(deps.Clock)

	deps.TelegramBotMessageSender = telegrambotmessagesender.New(
		deps.Config.TelegramBaseURL,
		deps.Config.TelegramBotToken,
		deps.Config.TelegramRequestTimeout,
		deps.Config.TelegramRateLimit,
	)
	deps.initUpdateDeduplicator()
	closeReminderSender := deps.initReminderSender()

	return deps, func() {
		closeFuncs := []func(){
			closeSseServer,
			closeReminderSender,
			closeRabbitmqConn,
			closeRedisClient,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
		flushSentry()
		closeLogger()
	}
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.LogLevel)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initRedisClient() func() {
	if deps.Config.RedisURL == "" {
		deps.Logger.Info(context.Background(), "Redis is disabled.")
		return func() {}
	}
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	if deps.Config.RabbitmqURL == "" {
		deps.Logger.Info(context.Background(), "RabbitMQ is disabled.")
		return func() {}
	}
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initSseServer() func() {
	if !deps.Config.HasSender(config.SENDER_SSE) {
		return func() {}
	}
	deps.SseServer = sse.New()
	deps.SseServer.AutoStream = false
	deps.SseServer.AutoReplay = false
	deps.StreamTokens = internalchanneltoken.NewHMAC(deps.Config.EventsTokenSecret)
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down SSE server.")
		deps.SseServer.Close()
		deps.Logger.Info(context.Background(), "SSE server shut down.")
	}
}

func (deps *Deps) initUpdateDeduplicator() {
	if deps.Redis != nil {
		deps.UpdateDeduplicator = updatededuplicator.NewRedis(
			deps.Redis,
			deps.Logger,
			deps.Config.UpdateDedupTTL,
		)
		return
	}
	deps.UpdateDeduplicator = updatededuplicator.NewInMemory(deps.Config.UpdateDedupTTL, time.Now)
}

// RabbitmqChannel opens a channel and declares the notification queue on it.
func (deps *Deps) RabbitmqChannel() (*rabbitmq.Channel, error) {
	if deps.Rabbitmq == nil {
		return nil, fmt.Errorf("RabbitMQ is disabled")
	}
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		return nil, err
	}
	if err := rabbitmqChannel.DeclareQueue(deps.Config.RabbitmqNotificationQueue); err != nil {
		rabbitmqChannel.Close()
		return nil, err
	}
	return rabbitmqChannel, nil
}

func (deps *Deps) initReminderSender() func() {
	sender := remindersender.New(deps.Logger)
	closeFunc := func() {}

	for _, name := range deps.Config.Senders {
		switch name {
		case config.SENDER_TELEGRAM:
			sender.With(name, remindersender.NewTelegram(deps.TelegramBotMessageSender))
		case config.SENDER_SSE:
			sender.With(name, remindersender.NewSSE(deps.SseServer))
		case config.SENDER_AMQP:
			rabbitmqChannel, err := deps.RabbitmqChannel()
			if err != nil {
				deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
				panic(err)
			}
			sender.With(name, remindernotification.NewRabbitMQ(
				deps.Logger,
				rabbitmqChannel,
				"",
				deps.Config.RabbitmqNotificationQueue,
			))
			closeFunc = func() {
				deps.Logger.Info(context.Background(), "Shutting down notification publisher.")
				rabbitmqChannel.Close()
				deps.Logger.Info(context.Background(), "Notification publisher shut down.")
			}
		}
	}

	deps.Logger.Info(context.Background(), "Reminder senders are ready.", dl.Entry("channels", sender.Channels()))
	deps.ReminderSender = sender
	return closeFunc
}

func (deps *Deps) initSentry() func() {
	if deps.Config.SentryDsn != nil {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              deps.Config.SentryDsn.String(),
			TracesSampleRate: 0.01,
		})
		if err != nil {
			panic(fmt.Sprintf("could not init Sentry: %v\n", err))
		}
		deps.Logger = logging.NewSentryLogger(deps.Logger, sentry.CurrentHub())
		deps.Logger.Info(context.Background(), "Sentry has been successfully initialized.")
		return func() {
			ok := sentry.Flush(5 * time.Second)
			deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
		}
	}

	deps.Logger.Info(context.Background(), "Sentry is disabled.")
	return func() {}
}
