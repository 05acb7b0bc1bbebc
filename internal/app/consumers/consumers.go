package consumers

import (
	"context"
	"ponger/internal/app/deps"
	dl "ponger/internal/core/domain/logging"
	remindersender "ponger/internal/implementations/reminder_sender"
	remindernotification "ponger/internal/rabbitmq/consumers/reminder_notification"
)

func initReminderNotificationConsumer(ctx context.Context, deps *deps.Deps) func() {
	rabbitmqChannel, err := deps.RabbitmqChannel()
	if err != nil {
		deps.Logger.Error(ctx, "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitmqNotificationQueue
	consumer := remindernotification.New(
		deps.Logger,
		rabbitmqChannel,
		queue,
		remindersender.NewTelegram(deps.TelegramBotMessageSender),
	)
	done, err := consumer.Consume(ctx)
	if err != nil {
		deps.Logger.Error(
			ctx,
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(ctx, "Consumer has started.", dl.Entry("queue", queue))
	return func() {
		rabbitmqChannel.Close()
		<-done
	}
}

func InitConsumers(ctx context.Context, deps *deps.Deps) func() {
	shutdownReminderNotificationConsumer := initReminderNotificationConsumer(ctx, deps)

	return func() {
		shutdownReminderNotificationConsumer()
	}
}
