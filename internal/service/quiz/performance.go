package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/brainq-backend/internal/domain"
	"github.com/heartmarshall/brainq-backend/internal/service/quiz/sm2"
)

// perfToState converts a stored performance row to an sm2.State.
func perfToState(p *domain.FlashcardPerformance) sm2.State {
	return sm2.State{
		CorrectCount:    p.CorrectCount,
		IncorrectCount:  p.IncorrectCount,
		AvgResponseTime: p.AvgResponseTime,
		Difficulty:      sm2.Difficulty(p.UserDifficulty),
		Easiness:        p.Easiness,
		Interval:        p.Interval,
		Repetitions:     p.Repetitions,
		LastReviewed:    p.LastReviewed,
		NextReviewDue:   p.NextReviewDue,
	}
}

// applyState copies a reviewed sm2.State back onto the performance row.
func applyState(p *domain.FlashcardPerformance, st sm2.State) {
	p.CorrectCount = st.CorrectCount
	p.IncorrectCount = st.IncorrectCount
	p.AvgResponseTime = st.AvgResponseTime
	p.UserDifficulty = domain.Difficulty(st.Difficulty)
	p.Easiness = st.Easiness
	p.Interval = st.Interval
	p.Repetitions = st.Repetitions
	p.LastReviewed = st.LastReviewed
	p.NextReviewDue = st.NextReviewDue
}

// gradeAnswer applies one graded answer to the (user, card) memory state.
// The row is created on first use and locked for the rest of the transaction.
func (s *Service) gradeAnswer(ctx context.Context, userID, cardID uuid.UUID, correct bool, responseTime *float64, now time.Time) (*domain.FlashcardPerformance, error) {
	perf, err := s.perf.GetForUpdate(ctx, userID, cardID)
	if err != nil {
		return nil, fmt.Errorf("lock performance: %w", err)
	}

	applyState(perf, sm2.Review(perfToState(perf), correct, responseTime, now))

	saved, err := s.perf.Save(ctx, perf)
	if err != nil {
		return nil, fmt.Errorf("save performance: %w", err)
	}
	return saved, nil
}
