package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/brainq-backend/internal/domain"
	"github.com/heartmarshall/brainq-backend/internal/service/quiz"
)

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

type startSessionRequest struct {
	Mode         *string `json:"mode"`
	AdaptiveMode *bool   `json:"adaptiveMode"`
	SRSEnabled   *bool   `json:"srsEnabled"`
	TimePerCard  *int    `json:"timePerCard"`
}

type changeModeRequest struct {
	Mode        string `json:"mode"`
	TimePerCard *int   `json:"timePerCard"`
}

type answerRequest struct {
	CardID       *uuid.UUID `json:"cardId"`
	Answer       string     `json:"answer"`
	ResponseTime *float64   `json:"responseTime"`
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

type sessionResponse struct {
	ID            uuid.UUID  `json:"id"`
	DeckID        uuid.UUID  `json:"deckId"`
	Mode          string     `json:"mode"`
	AdaptiveMode  bool       `json:"adaptiveMode"`
	SRSEnabled    bool       `json:"srsEnabled"`
	State         string     `json:"state"`
	StartedAt     time.Time  `json:"startedAt"`
	FinishedAt    *time.Time `json:"finishedAt,omitempty"`
	CorrectCount  int        `json:"correctCount"`
	TotalAnswered int        `json:"totalAnswered"`
	CurrentIndex  int        `json:"currentIndex"`
	Presented     int        `json:"presented"`
	Accuracy      float64    `json:"accuracy"`
	TimePerCard   *int       `json:"timePerCard,omitempty"`
}

type promptResponse struct {
	CardID      uuid.UUID `json:"cardId"`
	Question    string    `json:"question"`
	Options     []string  `json:"options"`
	Position    int       `json:"position"`
	DeckSize    int       `json:"deckSize"`
	TimePerCard *int      `json:"timePerCard,omitempty"`
}

type sessionViewResponse struct {
	Session sessionResponse `json:"session"`
	Current *promptResponse `json:"current"`
}

type answerResponse struct {
	Correct       bool            `json:"correct"`
	CorrectAnswer string          `json:"correctAnswer"`
	Accuracy      float64         `json:"accuracy"`
	Finished      bool            `json:"finished"`
	Next          *promptResponse `json:"next"`
	TimePerCard   *int            `json:"timePerCard,omitempty"`
}

type skipResponse struct {
	Finished bool            `json:"finished"`
	Next     *promptResponse `json:"next"`
}

type attemptResponse struct {
	FlashcardID   uuid.UUID  `json:"flashcardId"`
	Question      string     `json:"question"`
	CorrectAnswer string     `json:"correctAnswer"`
	Answered      bool       `json:"answered"`
	Correct       bool       `json:"correct"`
	AnswerGiven   string     `json:"answerGiven,omitempty"`
	AnsweredAt    *time.Time `json:"answeredAt,omitempty"`
}

type performanceResponse struct {
	FlashcardID     uuid.UUID  `json:"flashcardId"`
	CorrectCount    int        `json:"correctCount"`
	IncorrectCount  int        `json:"incorrectCount"`
	Accuracy        float64    `json:"accuracy"`
	AvgResponseTime float64    `json:"avgResponseTime"`
	UserDifficulty  string     `json:"userDifficulty"`
	Easiness        float64    `json:"easiness"`
	Interval        int        `json:"interval"`
	Repetitions     int        `json:"repetitions"`
	LastReviewed    *time.Time `json:"lastReviewed,omitempty"`
	NextReviewDue   *time.Time `json:"nextReviewDue,omitempty"`
}

type resultsResponse struct {
	Session     sessionResponse       `json:"session"`
	Accuracy    float64               `json:"accuracy"`
	Attempts    []attemptResponse     `json:"attempts"`
	Performance []performanceResponse `json:"performance"`
}

type sessionListResponse struct {
	Sessions []sessionResponse `json:"sessions"`
	Total    int               `json:"total"`
}

type deckPerformanceResponse struct {
	DeckID     uuid.UUID             `json:"deckId"`
	TotalCards int                   `json:"totalCards"`
	DueCount   int                   `json:"dueCount"`
	NewCount   int                   `json:"newCount"`
	Cards      []performanceResponse `json:"cards"`
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

func toSessionResponse(s *domain.QuizSession) sessionResponse {
	return sessionResponse{
		ID:            s.ID,
		DeckID:        s.DeckID,
		Mode:          s.Mode.String(),
		AdaptiveMode:  s.AdaptiveMode,
		SRSEnabled:    s.SRSEnabled,
		State:         s.State().String(),
		StartedAt:     s.StartedAt,
		FinishedAt:    s.FinishedAt,
		CorrectCount:  s.CorrectCount,
		TotalAnswered: s.TotalAnswered,
		CurrentIndex:  s.CurrentIndex,
		Presented:     len(s.Order),
		Accuracy:      s.Accuracy(),
		TimePerCard:   s.TimePerCard,
	}
}

func toPromptResponse(p *quiz.Prompt) *promptResponse {
	if p == nil {
		return nil
	}
	return &promptResponse{
		CardID:      p.CardID,
		Question:    p.Question,
		Options:     p.Options,
		Position:    p.Position,
		DeckSize:    p.DeckSize,
		TimePerCard: p.TimePerCard,
	}
}

func toSessionViewResponse(v *quiz.SessionView) sessionViewResponse {
	return sessionViewResponse{
		Session: toSessionResponse(v.Session),
		Current: toPromptResponse(v.Current),
	}
}

func toPerformanceResponses(perfs []domain.FlashcardPerformance) []performanceResponse {
	out := make([]performanceResponse, len(perfs))
	for i := range perfs {
		p := &perfs[i]
		out[i] = performanceResponse{
			FlashcardID:     p.FlashcardID,
			CorrectCount:    p.CorrectCount,
			IncorrectCount:  p.IncorrectCount,
			Accuracy:        p.Accuracy(),
			AvgResponseTime: p.AvgResponseTime,
			UserDifficulty:  p.UserDifficulty.String(),
			Easiness:        p.Easiness,
			Interval:        p.Interval,
			Repetitions:     p.Repetitions,
			LastReviewed:    p.LastReviewed,
			NextReviewDue:   p.NextReviewDue,
		}
	}
	return out
}

func toResultsResponse(res *quiz.SessionResults) resultsResponse {
	attempts := make([]attemptResponse, len(res.Attempts))
	for i, a := range res.Attempts {
		attempts[i] = attemptResponse{
			FlashcardID:   a.FlashcardID,
			Question:      a.Question,
			CorrectAnswer: a.CorrectAnswer,
			Answered:      a.Answered,
			Correct:       a.Correct,
			AnswerGiven:   a.AnswerGiven,
			AnsweredAt:    a.AnsweredAt,
		}
	}
	return resultsResponse{
		Session:     toSessionResponse(res.Session),
		Accuracy:    res.Accuracy,
		Attempts:    attempts,
		Performance: toPerformanceResponses(res.Performance),
	}
}
