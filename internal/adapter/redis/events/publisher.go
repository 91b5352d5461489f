// Package events publishes quiz engine events for out-of-process
// collaborators (achievements, notifications) over Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/brainq-backend/internal/domain"
)

// Event types carried in Envelope.Type.
const (
	TypeSessionFinished = "quiz.session_finished"
	TypeDueReminder     = "quiz.due_reminder"
)

// Envelope is the JSON message written to the channel.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type sessionFinishedPayload struct {
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	DeckID        string    `json:"deck_id"`
	PerfectQuiz   bool      `json:"perfect_quiz"`
	CorrectCount  int       `json:"correct_count"`
	TotalAnswered int       `json:"total_answered"`
	FinishedAt    time.Time `json:"finished_at"`
}

type dueReminderPayload struct {
	UserID   string    `json:"user_id"`
	DueCount int       `json:"due_count"`
	AsOf     time.Time `json:"as_of"`
}

// redisPublisher is the subset of *goredis.Client used here.
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *goredis.IntCmd
}

// Publisher writes events to a single Redis channel.
type Publisher struct {
	rdb     redisPublisher
	channel string
	log     *slog.Logger
}

// NewPublisher creates a Publisher on an existing client.
func NewPublisher(rdb redisPublisher, channel string, log *slog.Logger) *Publisher {
	return &Publisher{
		rdb:     rdb,
		channel: channel,
		log:     log.With("adapter", "redis_events"),
	}
}

// Connect opens a Redis client and verifies it with PING.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// PublishSessionFinished announces that a session reached its terminal state.
func (p *Publisher) PublishSessionFinished(ctx context.Context, ev domain.SessionFinishedEvent) error {
	return p.publish(ctx, TypeSessionFinished, ev.FinishedAt, sessionFinishedPayload{
		SessionID:     ev.SessionID.String(),
		UserID:        ev.UserID.String(),
		DeckID:        ev.DeckID.String(),
		PerfectQuiz:   ev.PerfectQuiz,
		CorrectCount:  ev.CorrectCount,
		TotalAnswered: ev.TotalAnswered,
		FinishedAt:    ev.FinishedAt,
	})
}

// PublishDueReminder asks the notification collaborator to remind a user
// about due cards.
func (p *Publisher) PublishDueReminder(ctx context.Context, ev domain.DueReminderEvent) error {
	return p.publish(ctx, TypeDueReminder, ev.AsOf, dueReminderPayload{
		UserID:   ev.UserID.String(),
		DueCount: ev.DueCount,
		AsOf:     ev.AsOf,
	})
}

func (p *Publisher) publish(ctx context.Context, eventType string, at time.Time, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}

	msg, err := json.Marshal(Envelope{Type: eventType, OccurredAt: at, Payload: raw})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	receivers, err := p.rdb.Publish(ctx, p.channel, msg).Result()
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	p.log.DebugContext(ctx, "event published",
		slog.String("type", eventType),
		slog.String("channel", p.channel),
		slog.Int64("receivers", receivers),
	)
	return nil
}

// LogPublisher is used when Redis is disabled. It only logs the events.
type LogPublisher struct {
	log *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With("adapter", "log_events")}
}

// PublishSessionFinished logs the event.
func (p *LogPublisher) PublishSessionFinished(ctx context.Context, ev domain.SessionFinishedEvent) error {
	p.log.InfoContext(ctx, "session finished",
		slog.String("session_id", ev.SessionID.String()),
		slog.String("user_id", ev.UserID.String()),
		slog.Bool("perfect_quiz", ev.PerfectQuiz),
	)
	return nil
}

// PublishDueReminder logs the event.
func (p *LogPublisher) PublishDueReminder(ctx context.Context, ev domain.DueReminderEvent) error {
	p.log.InfoContext(ctx, "due reminder",
		slog.String("user_id", ev.UserID.String()),
		slog.Int("due_count", ev.DueCount),
	)
	return nil
}
