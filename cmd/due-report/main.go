// Command due-report publishes a reminder for every user with flashcards due
// for review. It is intended to be invoked by an external cron job, not as an
// in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/brainq-backend/internal/adapter/postgres"
	"github.com/heartmarshall/brainq-backend/internal/adapter/postgres/performance"
	"github.com/heartmarshall/brainq-backend/internal/app"
	"github.com/heartmarshall/brainq-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	sink, rdb, err := app.NewEventSink(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Error("create event sink", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close() //nolint:errcheck
	}

	asOf := time.Now().UTC()

	report, err := app.SendDueReminders(ctx, performance.New(pool), sink, asOf, cfg.Quiz.DueReminderMin, logger)
	if err != nil {
		logger.Error("due report failed",
			slog.String("error", err.Error()),
			slog.Time("as_of", asOf),
		)
		os.Exit(1)
	}

	logger.Info("due report completed",
		slog.Int("users", report.Users),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
		slog.Time("as_of", asOf),
	)
	if report.Failed > 0 {
		os.Exit(1)
	}
}
