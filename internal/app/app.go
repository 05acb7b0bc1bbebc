package app

import (
	"context"
	"fmt"
	"net/http"
	"ponger/internal/app/deps"
	"ponger/internal/app/services"
	"ponger/internal/config"
	dl "ponger/internal/core/domain/logging"
	telegrampoller "ponger/internal/implementations/telegram_poller"
	"ponger/internal/http/handlers/auth"
	"ponger/internal/http/handlers/events"
	"ponger/internal/http/handlers/health"
	createreminder "ponger/internal/http/handlers/reminders/create_reminder"
	"ponger/internal/http/handlers/telegram"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	router.Method(http.MethodGet, "/health", health.New(deps.ReminderRepository))
	if deps.Config.ApiToken != "" {
		router.Group(func(r chi.Router) {
			r.Use(auth.RequireToken(deps.Config.ApiToken))
			r.Method(
				http.MethodPost,
				"/reminders",
				createreminder.New(s.CreateReminder, s.CreateReminderWithInterval, deps.Clock),
			)
			if deps.StreamTokens != nil {
				r.Method(http.MethodGet, "/events/token", events.NewTokenHandler(deps.StreamTokens))
			}
		})
	} else {
		deps.Logger.Info(context.Background(), "JSON API is disabled.", dl.Entry("reason", "API_TOKEN is not set"))
	}
	if deps.SseServer != nil {
		router.Method(http.MethodGet, "/events", events.New(deps.Logger, deps.SseServer, deps.StreamTokens))
	}
	if deps.Config.Transport == config.TRANSPORT_WEBHOOK {
		router.Method(
			http.MethodPost,
			fmt.Sprintf("/telegram/updates/{%s}", telegram.URL_SECRET_PARAM),
			telegram.New(deps.Logger, deps.Config.TelegramURLSecret, deps.UpdateDeduplicator, s.HandleMessage),
		)
	}

	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler:           router,
		Addr:              address,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// InitTelegramPoller returns nil unless updates are received with long polling.
func InitTelegramPoller(deps *deps.Deps, s *services.Services) *telegrampoller.Poller {
	if deps.Config.Transport != config.TRANSPORT_POLLING {
		return nil
	}
	poller, err := telegrampoller.New(
		deps.Logger,
		telegrampoller.Settings{
			Token:   deps.Config.TelegramBotToken,
			URL:     deps.Config.TelegramBaseURL.String(),
			Timeout: deps.Config.TelegramRequestTimeout,
		},
		s.HandleMessage,
	)
	if err != nil {
		panic(err)
	}
	return poller
}
