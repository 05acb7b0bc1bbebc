package logging

import (
	"context"
	"fmt"
	e "ponger/internal/core/domain/errors"
	"ponger/internal/core/domain/logging"

	"github.com/getsentry/sentry-go"
)

// SentryLogger reports every error record of the wrapped logger to Sentry.
// An error value among the entries is captured as an exception, otherwise
// the message itself is captured.
type SentryLogger struct {
	logging.Logger
	hub *sentry.Hub
}

func NewSentryLogger(log logging.Logger, hub *sentry.Hub) *SentryLogger {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if hub == nil {
		panic(e.NewNilArgumentError("hub"))
	}
	return &SentryLogger{Logger: log, hub: hub}
}

func (l *SentryLogger) Error(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.Logger.Error(ctx, msg, entries...)

	var captured error
	l.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		for _, entry := range entries {
			if err, ok := entry.Value.(error); ok {
				if captured == nil {
					captured = err
				}
				scope.SetExtra(entry.Key, err.Error())
				continue
			}
			scope.SetExtra(entry.Key, fmt.Sprint(entry.Value))
		}
		if captured != nil {
			scope.SetExtra("msg", msg)
			l.hub.CaptureException(captured)
			return
		}
		l.hub.CaptureMessage(msg)
	})
}
