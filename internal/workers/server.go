// internal/workers/server.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
)

const (
	baseRetryDelay = time.Second
	maxRetryDelay  = 10 * time.Minute
)

// RetryDelay backs off exponentially from one second up to ten minutes
func RetryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n < 0 {
		n = 0
	}
	if n > 20 {
		return maxRetryDelay
	}
	delay := baseRetryDelay * time.Duration(1<<uint(n))
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

// ErrorHandler logs failed tasks with their payload
func ErrorHandler(logger *slog.Logger) asynq.ErrorHandler {
	return asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		logger.ErrorContext(ctx, "task processing failed",
			slog.String("type", task.Type()),
			slog.String("payload", string(task.Payload())),
			slog.Int("retried", retried),
			slog.Int("max_retry", maxRetry),
			slog.String("error", err.Error()))
	})
}

// AsynqLogger adapts slog for asynq
type AsynqLogger struct {
	logger *slog.Logger
}

func NewAsynqLogger(logger *slog.Logger) *AsynqLogger {
	return &AsynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *AsynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *AsynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *AsynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *AsynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *AsynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
