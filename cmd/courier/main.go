package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"ponger/internal/app/consumers"
	"ponger/internal/app/deps"
	"ponger/internal/config"
	"syscall"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if cfg.RabbitmqURL == "" {
		fmt.Fprintln(os.Stderr, "error: RABBITMQ_URL must be set")
		os.Exit(1)
	}

	deps, shutdownDeps := deps.InitDeps(cfg)
	defer shutdownDeps()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shutdownConsumers := consumers.InitConsumers(ctx, deps)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopCh

	deps.Logger.Info(ctx, "Courier is stopping.")
	shutdownConsumers()
}
