package testhelper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/brainq-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	suffix := uniqueSuffix()
	id := uuid.New()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, username) VALUES ($1, $2, $3)`,
		id, "testuser-"+suffix+"@example.com", "user-"+suffix,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}

	return id
}

// SeedDeck creates an empty deck owned by ownerID.
func SeedDeck(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID, public bool) domain.Deck {
	t.Helper()

	deck := domain.Deck{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     "Deck " + uniqueSuffix(),
		IsPublic:  public,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO decks (id, owner_id, title, is_public, created_at) VALUES ($1, $2, $3, $4, $5)`,
		deck.ID, deck.OwnerID, deck.Title, deck.IsPublic, deck.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDeck: %v", err)
	}

	return deck
}

// ShareDeck grants userID access to a private deck.
func ShareDeck(t *testing.T, pool *pgxpool.Pool, deckID, userID uuid.UUID) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO deck_shares (deck_id, user_id) VALUES ($1, $2)`, deckID, userID,
	)
	if err != nil {
		t.Fatalf("testhelper: ShareDeck: %v", err)
	}
}

// SeedFlashcards adds n cards to a deck, one second apart, and returns them in
// creation order. Card i has question "Q<i>" and answer "A<i>".
func SeedFlashcards(t *testing.T, pool *pgxpool.Pool, deckID uuid.UUID, n int) []domain.Flashcard {
	t.Helper()

	base := time.Now().UTC().Truncate(time.Second)
	cards := make([]domain.Flashcard, 0, n)

	for i := range n {
		c := domain.Flashcard{
			ID:         uuid.New(),
			DeckID:     deckID,
			Question:   fmt.Sprintf("Q%d", i),
			Answer:     fmt.Sprintf("A%d", i),
			Difficulty: domain.DifficultyMedium,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}

		_, err := pool.Exec(context.Background(),
			`INSERT INTO flashcards (id, deck_id, question, answer, difficulty, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, c.DeckID, c.Question, c.Answer, string(c.Difficulty), c.CreatedAt,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedFlashcards[%d]: %v", i, err)
		}
		cards = append(cards, c)
	}

	return cards
}
