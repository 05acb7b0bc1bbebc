package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"ponger/internal/app"
	"ponger/internal/app/deps"
	"ponger/internal/app/services"
	"ponger/internal/config"
	telegrampoller "ponger/internal/implementations/telegram_poller"
	"syscall"
	"time"

	dl "ponger/internal/core/domain/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	deps, shutdownDeps := deps.InitDeps(cfg)
	services := services.InitServices(deps)

	if err := services.Scheduler.Start(context.Background()); err != nil {
		panic(err)
	}

	httpServer := app.InitHttpServer(deps, services)
	go start(httpServer, deps)

	poller := app.InitTelegramPoller(deps, services)
	if poller != nil {
		go poller.Start()
	}

	stopCh, closeCh := createChannel()
	defer closeCh()

	<-stopCh
	shutdown(context.Background(), httpServer, poller, services, deps, shutdownDeps)
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}

func start(server *http.Server, deps *deps.Deps) {
	deps.Logger.Info(
		context.Background(),
		"HTTP server has started.",
		dl.Entry("address", server.Addr),
		dl.Entry("transport", deps.Config.Transport),
		dl.Entry("senders", deps.Config.Senders),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	} else {
		deps.Logger.Info(context.Background(), "HTTP service is stopping gracefully.")
	}
}

func shutdown(
	ctx context.Context,
	server *http.Server,
	poller *telegrampoller.Poller,
	services *services.Services,
	deps *deps.Deps,
	shutDownDeps func(),
) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if poller != nil {
		poller.Stop()
	}
	if err := server.Shutdown(ctx); err != nil {
		panic(err)
	}
	services.Scheduler.Stop()
	deps.Logger.Info(ctx, "Ponger has shutdowned.")

	shutDownDeps()
}
