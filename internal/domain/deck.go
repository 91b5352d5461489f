package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deck is an ordered set of flashcards owned by a user. Decks are managed
// outside the quiz engine; the engine only reads them.
type Deck struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	IsPublic  bool
	CreatedAt time.Time
}

// Flashcard is a single question/answer pair of a deck.
type Flashcard struct {
	ID         uuid.UUID
	DeckID     uuid.UUID
	Question   string
	Answer     string
	Difficulty Difficulty
	CreatedAt  time.Time
}
