package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionFinishedEvent is emitted once per session, when it becomes finished.
// The achievement collaborator derives streaks and badges from it.
type SessionFinishedEvent struct {
	SessionID     uuid.UUID
	UserID        uuid.UUID
	DeckID        uuid.UUID
	PerfectQuiz   bool
	CorrectCount  int
	TotalAnswered int
	FinishedAt    time.Time
}

// NewSessionFinishedEvent builds the event from a finished session.
func NewSessionFinishedEvent(s *QuizSession) SessionFinishedEvent {
	ev := SessionFinishedEvent{
		SessionID:     s.ID,
		UserID:        s.UserID,
		DeckID:        s.DeckID,
		PerfectQuiz:   s.IsPerfect(),
		CorrectCount:  s.CorrectCount,
		TotalAnswered: s.TotalAnswered,
	}
	if s.FinishedAt != nil {
		ev.FinishedAt = *s.FinishedAt
	}
	return ev
}

// DueReminderEvent asks the notification collaborator to remind a user about
// cards that are due for review.
type DueReminderEvent struct {
	UserID   uuid.UUID
	DueCount int
	AsOf     time.Time
}
