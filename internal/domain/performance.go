package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultEasiness is the SM-2 easiness factor of a card that was never graded.
const DefaultEasiness = 2.5

// FlashcardPerformance is the durable cross-session memory of a user for one
// card. It is created by the first graded answer and updated by every graded
// answer after that; skips never touch it.
type FlashcardPerformance struct {
	UserID          uuid.UUID
	FlashcardID     uuid.UUID
	CorrectCount    int
	IncorrectCount  int
	AvgResponseTime float64
	UserDifficulty  Difficulty
	Easiness        float64
	Interval        int
	Repetitions     int
	LastReviewed    *time.Time
	NextReviewDue   *time.Time
	UpdatedAt       time.Time
}

// NewFlashcardPerformance returns the initial memory state for (user, card).
func NewFlashcardPerformance(userID, flashcardID uuid.UUID) FlashcardPerformance {
	return FlashcardPerformance{
		UserID:         userID,
		FlashcardID:    flashcardID,
		UserDifficulty: DifficultyMedium,
		Easiness:       DefaultEasiness,
	}
}

// TotalAttempts returns the number of graded answers recorded.
func (p *FlashcardPerformance) TotalAttempts() int {
	return p.CorrectCount + p.IncorrectCount
}

// Accuracy returns the lifetime share of correct answers (0 with no attempts).
func (p *FlashcardPerformance) Accuracy() float64 {
	total := p.TotalAttempts()
	if total == 0 {
		return 0
	}
	return float64(p.CorrectCount) / float64(total)
}

// IsDue reports whether the card should be reinforced at the given time.
// A row without a due date has never been scheduled and counts as due.
func (p *FlashcardPerformance) IsDue(now time.Time) bool {
	if p.NextReviewDue == nil {
		return true
	}
	return !p.NextReviewDue.After(now)
}

// DeckPerformance summarizes a user's memory state for one deck.
type DeckPerformance struct {
	DeckID     uuid.UUID
	TotalCards int
	DueCount   int
	NewCount   int
	Cards      []FlashcardPerformance
}
