package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// QuizSession is one attempt of a user at studying a deck.
//
// Order holds the card ids presented (or to be presented) by the session.
// Non-adaptive sessions build it eagerly at start; adaptive sessions grow it
// one card at a time. CurrentIndex never exceeds len(Order).
type QuizSession struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	DeckID        uuid.UUID
	Mode          QuizMode
	AdaptiveMode  bool
	SRSEnabled    bool
	StartedAt     time.Time
	FinishedAt    *time.Time
	IsPaused      bool
	CorrectCount  int
	TotalAnswered int
	CurrentIndex  int
	Order         []uuid.UUID
	TimePerCard   *int
	UpdatedAt     time.Time
}

// IsAdaptive reports whether the next card is chosen dynamically.
// SRS sessions are always adaptive.
func (s *QuizSession) IsAdaptive() bool {
	return s.AdaptiveMode || s.SRSEnabled
}

// IsFinished reports whether the session reached its terminal state.
func (s *QuizSession) IsFinished() bool {
	return s.FinishedAt != nil
}

// State derives the lifecycle state from FinishedAt and IsPaused.
func (s *QuizSession) State() SessionState {
	switch {
	case s.FinishedAt != nil:
		return SessionStateFinished
	case s.IsPaused:
		return SessionStatePaused
	default:
		return SessionStateActive
	}
}

// Accuracy returns CorrectCount / TotalAnswered, or 0 when nothing was answered.
func (s *QuizSession) Accuracy() float64 {
	if s.TotalAnswered == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.TotalAnswered)
}

// IsPerfect reports whether every answered card was answered correctly.
func (s *QuizSession) IsPerfect() bool {
	return s.TotalAnswered > 0 && s.CorrectCount == s.TotalAnswered
}

// CardAt returns Order[CurrentIndex] if it exists.
func (s *QuizSession) CardAt() (uuid.UUID, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Order) {
		return uuid.Nil, false
	}
	return s.Order[s.CurrentIndex], true
}

// HasPresented reports whether the card is already part of the session order.
func (s *QuizSession) HasPresented(cardID uuid.UUID) bool {
	return slices.Contains(s.Order, cardID)
}

// QuizAttempt is the per-card record of a session. It is created the first
// time a card is presented and updated when the card is answered or skipped.
// Graded is set once the answer has been applied to the memory model.
type QuizAttempt struct {
	SessionID   uuid.UUID
	FlashcardID uuid.UUID
	Answered    bool
	Correct     bool
	AnswerGiven string
	AnsweredAt  *time.Time
	Graded      bool
	CreatedAt   time.Time
}

// AttemptDetail is a QuizAttempt joined with its flashcard text.
type AttemptDetail struct {
	QuizAttempt
	Question      string
	CorrectAnswer string
}

// SessionFilter narrows a session listing.
type SessionFilter struct {
	DeckID *uuid.UUID
	State  *SessionState
	Limit  int
	Offset int
}
