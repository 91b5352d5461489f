// Package quizsession persists quiz sessions in PostgreSQL.
package quizsession

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/heartmarshall/brainq-backend/internal/adapter/postgres"
	"github.com/heartmarshall/brainq-backend/internal/domain"
)

// Repo provides quiz session persistence.
type Repo struct {
	db postgres.DB
}

// New creates a new quiz session repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

var columns = []string{
	"id", "user_id", "deck_id", "mode", "adaptive_mode", "srs_enabled",
	"started_at", "finished_at", "is_paused", "correct_count", "total_answered",
	"current_index", "card_order", "time_per_card", "updated_at",
}

const returning = `
RETURNING id, user_id, deck_id, mode, adaptive_mode, srs_enabled,
          started_at, finished_at, is_paused, correct_count, total_answered,
          current_index, card_order, time_per_card, updated_at`

const selectSQL = `
SELECT id, user_id, deck_id, mode, adaptive_mode, srs_enabled,
       started_at, finished_at, is_paused, correct_count, total_answered,
       current_index, card_order, time_per_card, updated_at
FROM quiz_sessions
WHERE id = $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a session by primary key.
func (r *Repo) GetByID(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	s, err := scanSession(q.QueryRow(ctx, selectSQL, sessionID))
	if err != nil {
		return nil, postgres.MapError(err, "quiz_session", sessionID)
	}
	return s, nil
}

// GetByIDForUpdate returns a session and locks its row until the surrounding
// transaction ends. It must be called inside TxManager.RunInTx.
func (r *Repo) GetByIDForUpdate(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error) {
	if !postgres.InTx(ctx) {
		return nil, errors.New("quiz_session: row lock requested outside a transaction")
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	s, err := scanSession(q.QueryRow(ctx, selectSQL+"\nFOR UPDATE", sessionID))
	if err != nil {
		return nil, postgres.MapError(err, "quiz_session", sessionID)
	}
	return s, nil
}

// List returns one page of a user's sessions, newest first, and the total
// number of sessions matching the filter.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter domain.SessionFilter) ([]*domain.QuizSession, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	countSQL, countArgs, err := applyFilter(postgres.Builder().Select("count(*)").From("quiz_sessions"), userID, filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "quiz_session", uuid.Nil)
	}

	page := applyFilter(postgres.Builder().Select(columns...).From("quiz_sessions"), userID, filter).
		OrderBy("started_at DESC", "id")
	if filter.Limit > 0 {
		page = page.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		page = page.Offset(uint64(filter.Offset))
	}

	listSQL, listArgs, err := page.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, postgres.MapError(err, "quiz_session", uuid.Nil)
	}
	defer rows.Close()

	sessions := []*domain.QuizSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quiz_session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, postgres.MapError(err, "quiz_session", uuid.Nil)
	}

	return sessions, total, nil
}

func applyFilter(b sq.SelectBuilder, userID uuid.UUID, filter domain.SessionFilter) sq.SelectBuilder {
	b = b.Where(sq.Eq{"user_id": userID})
	if filter.DeckID != nil {
		b = b.Where(sq.Eq{"deck_id": *filter.DeckID})
	}
	if filter.State != nil {
		switch *filter.State {
		case domain.SessionStateFinished:
			b = b.Where(sq.NotEq{"finished_at": nil})
		case domain.SessionStatePaused:
			b = b.Where(sq.Eq{"finished_at": nil, "is_paused": true})
		case domain.SessionStateActive:
			b = b.Where(sq.Eq{"finished_at": nil, "is_paused": false})
		}
	}
	return b
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const insertSQL = `
INSERT INTO quiz_sessions (id, user_id, deck_id, mode, adaptive_mode, srs_enabled,
                           started_at, is_paused, correct_count, total_answered,
                           current_index, card_order, time_per_card)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)` + returning

// Create inserts a new session.
func (r *Repo) Create(ctx context.Context, s *domain.QuizSession) (*domain.QuizSession, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	created, err := scanSession(q.QueryRow(ctx, insertSQL,
		s.ID, s.UserID, s.DeckID, string(s.Mode), s.AdaptiveMode, s.SRSEnabled,
		s.StartedAt, s.IsPaused, s.CorrectCount, s.TotalAnswered,
		s.CurrentIndex, orderOrEmpty(s.Order), s.TimePerCard,
	))
	if err != nil {
		return nil, postgres.MapError(err, "quiz_session", s.ID)
	}
	return created, nil
}

const updateSQL = `
UPDATE quiz_sessions
SET mode           = $2,
    finished_at    = $3,
    is_paused      = $4,
    correct_count  = $5,
    total_answered = $6,
    current_index  = $7,
    card_order     = $8,
    time_per_card  = $9,
    updated_at     = now()
WHERE id = $1` + returning

// Update writes the mutable fields of a session. Owner, deck and flags
// chosen at start never change.
func (r *Repo) Update(ctx context.Context, s *domain.QuizSession) (*domain.QuizSession, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	updated, err := scanSession(q.QueryRow(ctx, updateSQL,
		s.ID, string(s.Mode), s.FinishedAt, s.IsPaused, s.CorrectCount,
		s.TotalAnswered, s.CurrentIndex, orderOrEmpty(s.Order), s.TimePerCard,
	))
	if err != nil {
		return nil, postgres.MapError(err, "quiz_session", s.ID)
	}
	return updated, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*domain.QuizSession, error) {
	var (
		s    domain.QuizSession
		mode string
	)
	err := row.Scan(
		&s.ID, &s.UserID, &s.DeckID, &mode, &s.AdaptiveMode, &s.SRSEnabled,
		&s.StartedAt, &s.FinishedAt, &s.IsPaused, &s.CorrectCount, &s.TotalAnswered,
		&s.CurrentIndex, &s.Order, &s.TimePerCard, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Mode = domain.QuizMode(mode)
	if s.Order == nil {
		s.Order = []uuid.UUID{}
	}
	return &s, nil
}

func orderOrEmpty(order []uuid.UUID) []uuid.UUID {
	if order == nil {
		return []uuid.UUID{}
	}
	return order
}
