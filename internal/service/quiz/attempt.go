package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/brainq-backend/internal/domain"
	"github.com/heartmarshall/brainq-backend/pkg/ctxutil"
)

// Answer records an answer for the current card and advances the session.
// The answer is correct only if it equals the canonical answer exactly.
// Adaptive sessions grade each (session, card) pair at most once.
//
// When input.CardID names a card this session already answered, the answer
// replaces the recorded one; the memory model and the cursor stay untouched.
// When it names any other card than the current one, Answer fails with a
// validation error.
func (s *Service) Answer(ctx context.Context, input AnswerInput) (*AnswerResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()

	var (
		result   *AnswerResult
		cardID   uuid.UUID
		graded   bool
		finished *domain.QuizSession
		replayed bool
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.lockSession(txCtx, userID, input.SessionID)
		if err != nil {
			return err
		}

		if input.CardID != nil {
			prev, err := s.answeredAttempt(txCtx, session.ID, *input.CardID)
			if err != nil {
				return err
			}
			if prev != nil {
				cardID = prev.FlashcardID
				replayed = true
				result, err = s.replayAnswer(txCtx, session, prev, input.Answer, now)
				return err
			}
		}

		if err := checkAnswerable(session); err != nil {
			return err
		}

		cards, err := s.deckCards(txCtx, session.DeckID)
		if err != nil {
			return err
		}
		card, ok, err := s.resolveCurrent(txCtx, session, cards, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNoCurrentCard
		}
		if input.CardID != nil && *input.CardID != card.ID {
			return domain.NewValidationError("card_id", "is not the current card")
		}
		cardID = card.ID

		attempt, err := s.attempts.Ensure(txCtx, session.ID, card.ID)
		if err != nil {
			return fmt.Errorf("ensure attempt: %w", err)
		}

		correct := input.Answer == card.Answer
		attempt.Answered = true
		attempt.Correct = correct
		attempt.AnswerGiven = input.Answer
		attempt.AnsweredAt = &now

		if session.IsAdaptive() && !attempt.Graded {
			if _, err := s.gradeAnswer(txCtx, userID, card.ID, correct, input.ResponseTime, now); err != nil {
				return err
			}
			attempt.Graded = true
			graded = true
		}

		if _, err := s.attempts.Save(txCtx, attempt); err != nil {
			return fmt.Errorf("save attempt: %w", err)
		}

		session.TotalAnswered++
		if correct {
			session.CorrectCount++
		}

		next, done, err := s.advance(txCtx, session, cards, now)
		if err != nil {
			return err
		}

		updated, err := s.sessions.Update(txCtx, session)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		if done {
			finished = updated
		}

		result = &AnswerResult{
			Correct:       correct,
			CorrectAnswer: card.Answer,
			Accuracy:      updated.Accuracy(),
			Next:          next,
			Finished:      updated.IsFinished(),
			TimePerCard:   updated.TimePerCard,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if finished != nil {
		s.publishFinished(ctx, finished)
	}

	s.log.DebugContext(ctx, "answer recorded",
		slog.String("session_id", input.SessionID.String()),
		slog.String("card_id", cardID.String()),
		slog.Bool("correct", result.Correct),
		slog.Bool("graded", graded),
		slog.Bool("replayed", replayed),
	)

	return result, nil
}

// answeredAttempt returns the attempt for (session, card) when it has
// already been answered, nil otherwise.
func (s *Service) answeredAttempt(ctx context.Context, sessionID, cardID uuid.UUID) (*domain.QuizAttempt, error) {
	attempt, err := s.attempts.Get(ctx, sessionID, cardID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if !attempt.Answered {
		return nil, nil
	}
	return attempt, nil
}

// replayAnswer overwrites the outcome of an answered attempt and keeps the
// session counters in line with it. Finished and paused sessions accept the
// replay; Next is only built for active ones.
func (s *Service) replayAnswer(ctx context.Context, session *domain.QuizSession, attempt *domain.QuizAttempt, answer string, now time.Time) (*AnswerResult, error) {
	cards, err := s.deckCards(ctx, session.DeckID)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(cards, func(c domain.Flashcard) bool { return c.ID == attempt.FlashcardID })
	if idx < 0 {
		return nil, fmt.Errorf("flashcard %s: %w", attempt.FlashcardID, domain.ErrNotFound)
	}
	card := cards[idx]

	correct := answer == card.Answer
	switch {
	case correct && !attempt.Correct:
		session.CorrectCount++
	case !correct && attempt.Correct:
		session.CorrectCount--
	}

	attempt.Correct = correct
	attempt.AnswerGiven = answer
	attempt.AnsweredAt = &now
	if _, err := s.attempts.Save(ctx, attempt); err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	var next *Prompt
	if !session.IsFinished() && !session.IsPaused {
		if next, err = s.present(ctx, session, cards, now); err != nil {
			return nil, err
		}
	}

	updated, err := s.sessions.Update(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	return &AnswerResult{
		Correct:       correct,
		CorrectAnswer: card.Answer,
		Accuracy:      updated.Accuracy(),
		Next:          next,
		Finished:      updated.IsFinished(),
		TimePerCard:   updated.TimePerCard,
	}, nil
}

// Skip marks the current card as answered incorrectly without touching the
// memory model and advances the session.
func (s *Service) Skip(ctx context.Context, sessionID uuid.UUID) (*SkipResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	now := s.clock.Now()

	var (
		result   *SkipResult
		finished *domain.QuizSession
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.lockSession(txCtx, userID, sessionID)
		if err != nil {
			return err
		}
		if err := checkAnswerable(session); err != nil {
			return err
		}

		cards, err := s.deckCards(txCtx, session.DeckID)
		if err != nil {
			return err
		}
		card, ok, err := s.resolveCurrent(txCtx, session, cards, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNoCurrentCard
		}

		attempt, err := s.attempts.Ensure(txCtx, session.ID, card.ID)
		if err != nil {
			return fmt.Errorf("ensure attempt: %w", err)
		}
		attempt.Answered = true
		attempt.Correct = false
		attempt.AnswerGiven = ""
		attempt.AnsweredAt = &now
		if _, err := s.attempts.Save(txCtx, attempt); err != nil {
			return fmt.Errorf("save attempt: %w", err)
		}

		session.TotalAnswered++

		next, done, err := s.advance(txCtx, session, cards, now)
		if err != nil {
			return err
		}

		updated, err := s.sessions.Update(txCtx, session)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		if done {
			finished = updated
		}

		result = &SkipResult{Next: next, Finished: updated.IsFinished()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if finished != nil {
		s.publishFinished(ctx, finished)
	}
	return result, nil
}

// checkAnswerable rejects finished and paused sessions, in that order.
func checkAnswerable(session *domain.QuizSession) error {
	if session.IsFinished() {
		return domain.ErrSessionFinished
	}
	if session.IsPaused {
		return domain.ErrSessionPaused
	}
	return nil
}
