package app

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/brainq-backend/internal/adapter/redis/events"
	"github.com/heartmarshall/brainq-backend/internal/config"
	"github.com/heartmarshall/brainq-backend/internal/domain"
)

// EventSink receives the events the quiz engine and the due report emit.
type EventSink interface {
	PublishSessionFinished(ctx context.Context, event domain.SessionFinishedEvent) error
	PublishDueReminder(ctx context.Context, event domain.DueReminderEvent) error
}

// NewEventSink returns a Redis publisher when Redis is enabled and a
// log-only sink otherwise. The returned client is nil when Redis is off;
// the caller closes it.
func NewEventSink(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (EventSink, *goredis.Client, error) {
	if !cfg.Enabled {
		logger.Info("redis disabled, events are only logged")
		return events.NewLogPublisher(logger), nil, nil
	}

	rdb, err := events.Connect(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("publishing events to redis",
		slog.String("addr", cfg.Addr),
		slog.String("channel", cfg.Channel),
	)
	return events.NewPublisher(rdb, cfg.Channel, logger), rdb, nil
}
