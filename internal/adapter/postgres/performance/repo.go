// Package performance persists the per-user memory state of flashcards.
package performance

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/heartmarshall/brainq-backend/internal/adapter/postgres"
	"github.com/heartmarshall/brainq-backend/internal/domain"
)

// Repo provides flashcard performance persistence.
type Repo struct {
	db postgres.DB
}

// New creates a new performance repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

var columns = []string{
	"user_id", "flashcard_id", "correct_count", "incorrect_count", "avg_response_time",
	"user_difficulty", "easiness", "interval_days", "repetitions",
	"last_reviewed", "next_review_due", "updated_at",
}

const returning = `
RETURNING user_id, flashcard_id, correct_count, incorrect_count, avg_response_time,
          user_difficulty, easiness, interval_days, repetitions,
          last_reviewed, next_review_due, updated_at`

// GetByCardIDs returns the existing performance rows of a user for the given
// cards, keyed by flashcard id. Cards never graded are absent from the map.
func (r *Repo) GetByCardIDs(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (map[uuid.UUID]domain.FlashcardPerformance, error) {
	result := make(map[uuid.UUID]domain.FlashcardPerformance, len(cardIDs))
	if len(cardIDs) == 0 {
		return result, nil
	}

	query, args, err := postgres.Builder().
		Select(columns...).
		From("flashcard_performance").
		Where(sq.Eq{"user_id": userID, "flashcard_id": cardIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "flashcard_performance", userID)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flashcard_performance: %w", err)
		}
		result[p.FlashcardID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "flashcard_performance", userID)
	}

	return result, nil
}

const ensureSQL = `
INSERT INTO flashcard_performance (user_id, flashcard_id)
VALUES ($1, $2)
ON CONFLICT (user_id, flashcard_id) DO NOTHING`

const selectForUpdateSQL = `
SELECT user_id, flashcard_id, correct_count, incorrect_count, avg_response_time,
       user_difficulty, easiness, interval_days, repetitions,
       last_reviewed, next_review_due, updated_at
FROM flashcard_performance
WHERE user_id = $1 AND flashcard_id = $2
FOR UPDATE`

// GetForUpdate returns the performance row of (user, card), creating it with
// the initial memory state when missing, and locks it until the surrounding
// transaction ends.
func (r *Repo) GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.FlashcardPerformance, error) {
	if !postgres.InTx(ctx) {
		return nil, errors.New("flashcard_performance: row lock requested outside a transaction")
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, ensureSQL, userID, cardID); err != nil {
		return nil, postgres.MapError(err, "flashcard_performance", cardID)
	}

	p, err := scanPerformance(q.QueryRow(ctx, selectForUpdateSQL, userID, cardID))
	if err != nil {
		return nil, postgres.MapError(err, "flashcard_performance", cardID)
	}
	return p, nil
}

const saveSQL = `
UPDATE flashcard_performance
SET correct_count     = $3,
    incorrect_count   = $4,
    avg_response_time = $5,
    user_difficulty   = $6,
    easiness          = $7,
    interval_days     = $8,
    repetitions       = $9,
    last_reviewed     = $10,
    next_review_due   = $11,
    updated_at        = now()
WHERE user_id = $1 AND flashcard_id = $2` + returning

// Save writes the memory state produced by a graded answer.
func (r *Repo) Save(ctx context.Context, p *domain.FlashcardPerformance) (*domain.FlashcardPerformance, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	saved, err := scanPerformance(q.QueryRow(ctx, saveSQL,
		p.UserID, p.FlashcardID, p.CorrectCount, p.IncorrectCount, p.AvgResponseTime,
		string(p.UserDifficulty), p.Easiness, p.Interval, p.Repetitions,
		p.LastReviewed, p.NextReviewDue,
	))
	if err != nil {
		return nil, postgres.MapError(err, "flashcard_performance", p.FlashcardID)
	}
	return saved, nil
}

const listByDeckSQL = `
SELECT p.user_id, p.flashcard_id, p.correct_count, p.incorrect_count, p.avg_response_time,
       p.user_difficulty, p.easiness, p.interval_days, p.repetitions,
       p.last_reviewed, p.next_review_due, p.updated_at
FROM flashcard_performance p
JOIN flashcards f ON f.id = p.flashcard_id
WHERE p.user_id = $1 AND f.deck_id = $2
ORDER BY p.next_review_due ASC NULLS FIRST, f.created_at, f.id`

// ListByDeck returns the performance rows of a user for the cards of a deck,
// most urgent first.
func (r *Repo) ListByDeck(ctx context.Context, userID, deckID uuid.UUID) ([]domain.FlashcardPerformance, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listByDeckSQL, userID, deckID)
	if err != nil {
		return nil, postgres.MapError(err, "deck", deckID)
	}
	defer rows.Close()

	perfs := []domain.FlashcardPerformance{}
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flashcard_performance: %w", err)
		}
		perfs = append(perfs, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "deck", deckID)
	}

	return perfs, nil
}

const countDueByUserSQL = `
SELECT user_id, count(*)
FROM flashcard_performance
WHERE next_review_due IS NOT NULL AND next_review_due <= $1
GROUP BY user_id
HAVING count(*) >= $2
ORDER BY user_id`

// CountDueByUser returns, for every user with at least minDue scheduled cards
// due at asOf, a reminder carrying the due count.
func (r *Repo) CountDueByUser(ctx context.Context, asOf time.Time, minDue int) ([]domain.DueReminderEvent, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, countDueByUserSQL, asOf, minDue)
	if err != nil {
		return nil, postgres.MapError(err, "flashcard_performance", uuid.Nil)
	}
	defer rows.Close()

	reminders := []domain.DueReminderEvent{}
	for rows.Next() {
		ev := domain.DueReminderEvent{AsOf: asOf}
		if err := rows.Scan(&ev.UserID, &ev.DueCount); err != nil {
			return nil, fmt.Errorf("scan due count: %w", err)
		}
		reminders = append(reminders, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "flashcard_performance", uuid.Nil)
	}

	return reminders, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPerformance(row scanner) (*domain.FlashcardPerformance, error) {
	var (
		p          domain.FlashcardPerformance
		difficulty string
	)
	err := row.Scan(
		&p.UserID, &p.FlashcardID, &p.CorrectCount, &p.IncorrectCount, &p.AvgResponseTime,
		&difficulty, &p.Easiness, &p.Interval, &p.Repetitions,
		&p.LastReviewed, &p.NextReviewDue, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.UserDifficulty = domain.Difficulty(difficulty)
	return &p, nil
}
