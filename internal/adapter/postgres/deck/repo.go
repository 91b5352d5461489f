// Package deck reads decks and flashcards for the quiz engine. Deck content
// is owned by another part of the platform; this package never writes it.
package deck

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/brainq-backend/internal/adapter/postgres"
	"github.com/heartmarshall/brainq-backend/internal/domain"
)

// Repo provides read access to decks and flashcards.
type Repo struct {
	db postgres.DB
}

// New creates a new deck repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

const listCardsSQL = `
SELECT id, deck_id, question, answer, difficulty, created_at
FROM flashcards
WHERE deck_id = $1
ORDER BY created_at, id`

// ListCards returns the flashcards of a deck in creation order.
// An unknown deck yields an empty slice.
func (r *Repo) ListCards(ctx context.Context, deckID uuid.UUID) ([]domain.Flashcard, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listCardsSQL, deckID)
	if err != nil {
		return nil, postgres.MapError(err, "deck", deckID)
	}
	defer rows.Close()

	cards := []domain.Flashcard{}
	for rows.Next() {
		var (
			c          domain.Flashcard
			difficulty string
		)
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &difficulty, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan flashcard: %w", err)
		}
		c.Difficulty = domain.Difficulty(difficulty)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "deck", deckID)
	}

	return cards, nil
}

const countCardsSQL = `SELECT count(*) FROM flashcards WHERE deck_id = $1`

// CountCards returns the number of flashcards in a deck.
func (r *Repo) CountCards(ctx context.Context, deckID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var n int
	if err := q.QueryRow(ctx, countCardsSQL, deckID).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "deck", deckID)
	}
	return n, nil
}

// canAccessDeckSQL grants access to the owner, to everyone for public decks
// and to users the deck was shared with.
const canAccessDeckSQL = `
SELECT EXISTS (
    SELECT 1
    FROM decks d
    WHERE d.id = $2
      AND (d.owner_id = $1
           OR d.is_public
           OR EXISTS (SELECT 1 FROM deck_shares s WHERE s.deck_id = d.id AND s.user_id = $1))
)`

// CanAccessDeck reports whether the user may study the deck. An unknown
// deck is reported as not accessible.
func (r *Repo) CanAccessDeck(ctx context.Context, userID, deckID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var ok bool
	if err := q.QueryRow(ctx, canAccessDeckSQL, userID, deckID).Scan(&ok); err != nil {
		return false, postgres.MapError(err, "deck", deckID)
	}
	return ok, nil
}
