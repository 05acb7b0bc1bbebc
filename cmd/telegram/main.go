package main

import (
	"context"
	"fmt"
	"os"
	"ponger/internal/config"
	telegrambotmessagesender "ponger/internal/implementations/telegram_bot_message_sender"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	url, err := cfg.WebhookURL()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	client := telegrambotmessagesender.New(
		cfg.TelegramBaseURL,
		cfg.TelegramBotToken,
		cfg.TelegramRequestTimeout,
		cfg.TelegramRateLimit,
	)
	if err := client.SetWebhook(context.Background(), url.String()); err != nil {
		fmt.Fprintf(os.Stderr, "could not register telegram webhook, error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Webhook %s successfully registered\n", url)
}
