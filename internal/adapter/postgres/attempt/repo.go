// Package attempt persists per-card quiz attempts.
package attempt

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/brainq-backend/internal/adapter/postgres"
	"github.com/heartmarshall/brainq-backend/internal/domain"
)

// Repo provides quiz attempt persistence.
type Repo struct {
	db postgres.DB
}

// New creates a new attempt repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

const ensureInsertSQL = `
INSERT INTO quiz_session_flashcards (session_id, flashcard_id)
VALUES ($1, $2)
ON CONFLICT (session_id, flashcard_id) DO NOTHING`

const selectSQL = `
SELECT session_id, flashcard_id, answered, correct, answer_given, answered_at, graded, created_at
FROM quiz_session_flashcards
WHERE session_id = $1 AND flashcard_id = $2`

// Ensure returns the attempt for (session, card), creating an unanswered one
// the first time the card is presented.
func (r *Repo) Ensure(ctx context.Context, sessionID, flashcardID uuid.UUID) (*domain.QuizAttempt, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, ensureInsertSQL, sessionID, flashcardID); err != nil {
		return nil, postgres.MapError(err, "quiz_attempt", flashcardID)
	}

	a, err := scanAttempt(q.QueryRow(ctx, selectSQL, sessionID, flashcardID))
	if err != nil {
		return nil, postgres.MapError(err, "quiz_attempt", flashcardID)
	}
	return a, nil
}

// Get returns the attempt for (session, card) without creating it.
func (r *Repo) Get(ctx context.Context, sessionID, flashcardID uuid.UUID) (*domain.QuizAttempt, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	a, err := scanAttempt(q.QueryRow(ctx, selectSQL, sessionID, flashcardID))
	if err != nil {
		return nil, postgres.MapError(err, "quiz_attempt", flashcardID)
	}
	return a, nil
}

const saveSQL = `
UPDATE quiz_session_flashcards
SET answered     = $3,
    correct      = $4,
    answer_given = $5,
    answered_at  = $6,
    graded       = $7
WHERE session_id = $1 AND flashcard_id = $2
RETURNING session_id, flashcard_id, answered, correct, answer_given, answered_at, graded, created_at`

// Save writes the outcome of an attempt. The attempt must have been created
// by Ensure.
func (r *Repo) Save(ctx context.Context, a *domain.QuizAttempt) (*domain.QuizAttempt, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	saved, err := scanAttempt(q.QueryRow(ctx, saveSQL,
		a.SessionID, a.FlashcardID, a.Answered, a.Correct, a.AnswerGiven, a.AnsweredAt, a.Graded,
	))
	if err != nil {
		return nil, postgres.MapError(err, "quiz_attempt", a.FlashcardID)
	}
	return saved, nil
}

const listBySessionSQL = `
SELECT a.session_id, a.flashcard_id, a.answered, a.correct, a.answer_given,
       a.answered_at, a.graded, a.created_at, f.question, f.answer
FROM quiz_session_flashcards a
JOIN flashcards f ON f.id = a.flashcard_id
WHERE a.session_id = $1
ORDER BY a.created_at, a.flashcard_id`

// ListBySession returns every attempt of a session in presentation order,
// joined with the flashcard text.
func (r *Repo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.AttemptDetail, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listBySessionSQL, sessionID)
	if err != nil {
		return nil, postgres.MapError(err, "quiz_session", sessionID)
	}
	defer rows.Close()

	details := []domain.AttemptDetail{}
	for rows.Next() {
		var d domain.AttemptDetail
		if err := rows.Scan(
			&d.SessionID, &d.FlashcardID, &d.Answered, &d.Correct, &d.AnswerGiven,
			&d.AnsweredAt, &d.Graded, &d.CreatedAt, &d.Question, &d.CorrectAnswer,
		); err != nil {
			return nil, fmt.Errorf("scan quiz_attempt: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "quiz_session", sessionID)
	}

	return details, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row scanner) (*domain.QuizAttempt, error) {
	var a domain.QuizAttempt
	err := row.Scan(&a.SessionID, &a.FlashcardID, &a.Answered, &a.Correct,
		&a.AnswerGiven, &a.AnsweredAt, &a.Graded, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
