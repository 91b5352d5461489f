package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/brainq-backend/internal/domain"
)

const reminderConcurrency = 8

type dueCounter interface {
	CountDueByUser(ctx context.Context, asOf time.Time, minDue int) ([]domain.DueReminderEvent, error)
}

type reminderSink interface {
	PublishDueReminder(ctx context.Context, event domain.DueReminderEvent) error
}

// DueReport summarizes one run of SendDueReminders.
type DueReport struct {
	Users  int
	Sent   int
	Failed int
}

// SendDueReminders publishes one reminder per user with at least minDue
// cards due at asOf. A failed publish is logged and counted; it does not
// stop the other users.
func SendDueReminders(ctx context.Context, counter dueCounter, sink reminderSink, asOf time.Time, minDue int, logger *slog.Logger) (DueReport, error) {
	reminders, err := counter.CountDueByUser(ctx, asOf, minDue)
	if err != nil {
		return DueReport{}, fmt.Errorf("count due cards: %w", err)
	}

	var sent, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reminderConcurrency)

	for _, ev := range reminders {
		g.Go(func() error {
			if err := sink.PublishDueReminder(gctx, ev); err != nil {
				failed.Add(1)
				logger.WarnContext(gctx, "publish due reminder",
					slog.String("user_id", ev.UserID.String()),
					slog.String("error", err.Error()),
				)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DueReport{}, err
	}

	return DueReport{
		Users:  len(reminders),
		Sent:   int(sent.Load()),
		Failed: int(failed.Load()),
	}, nil
}
