package quiz

import (
	"github.com/google/uuid"
	"github.com/heartmarshall/brainq-backend/internal/domain"
)

// Prompt is the card currently presented to the learner.
type Prompt struct {
	CardID      uuid.UUID
	Question    string
	Options     []string
	TimePerCard *int
	// Position is the zero-based index of the card within the session.
	Position int
	// DeckSize is the number of cards in the deck when the prompt was built.
	DeckSize int
}

// SessionView is a session together with its current prompt. Current is nil
// once the session is finished.
type SessionView struct {
	Session *domain.QuizSession
	Current *Prompt
}

// AnswerResult is the outcome of a submitted answer.
type AnswerResult struct {
	Correct       bool
	CorrectAnswer string
	Accuracy      float64
	Next          *Prompt
	Finished      bool
	TimePerCard   *int
}

// SkipResult is the outcome of a skipped card.
type SkipResult struct {
	Next     *Prompt
	Finished bool
}

// SessionResults summarizes a session.
type SessionResults struct {
	Session  *domain.QuizSession
	Accuracy float64
	Attempts []domain.AttemptDetail
	// Performance holds the memory state of the answered cards after the session.
	Performance []domain.FlashcardPerformance
}

// SessionList is one page of a user's session history.
type SessionList struct {
	Sessions []*domain.QuizSession
	Total    int
}
