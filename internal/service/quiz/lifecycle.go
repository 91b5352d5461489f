package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/brainq-backend/internal/domain"
	"github.com/heartmarshall/brainq-backend/pkg/ctxutil"
)

// StartSession creates a quiz session for the caller and presents its first card.
func (s *Service) StartSession(ctx context.Context, input StartSessionInput) (*SessionView, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.cfg.MaxTimePerCard); err != nil {
		return nil, err
	}

	allowed, err := s.access.CanAccessDeck(ctx, userID, input.DeckID)
	if err != nil {
		return nil, fmt.Errorf("check deck access: %w", err)
	}
	if !allowed {
		return nil, domain.ErrNotAuthorized
	}

	cards, err := s.deckCards(ctx, input.DeckID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, domain.ErrEmptyDeck
	}

	now := s.clock.Now()
	session := &domain.QuizSession{
		ID:           uuid.New(),
		UserID:       userID,
		DeckID:       input.DeckID,
		Mode:         input.Mode,
		AdaptiveMode: input.AdaptiveMode,
		SRSEnabled:   input.SRSEnabled,
		StartedAt:    now,
		Order:        []uuid.UUID{},
	}
	if input.Mode == domain.QuizModeTimed {
		session.TimePerCard = input.TimePerCard
	}
	if !session.IsAdaptive() {
		session.Order = buildOrder(input.Mode, cards, s.rng)
	}

	var view *SessionView

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created, createErr := s.sessions.Create(txCtx, session)
		if createErr != nil {
			return fmt.Errorf("create session: %w", createErr)
		}

		current, presentErr := s.present(txCtx, created, cards, now)
		if presentErr != nil {
			return presentErr
		}

		if created.IsAdaptive() {
			created, createErr = s.sessions.Update(txCtx, created)
			if createErr != nil {
				return fmt.Errorf("update session: %w", createErr)
			}
		}

		view = &SessionView{Session: created, Current: current}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "quiz session started",
		slog.String("user_id", userID.String()),
		slog.String("session_id", view.Session.ID.String()),
		slog.String("deck_id", input.DeckID.String()),
		slog.String("mode", string(input.Mode)),
		slog.Bool("adaptive", input.AdaptiveMode),
		slog.Bool("srs", input.SRSEnabled),
	)

	return view, nil
}

// CurrentCard returns the prompt at the session cursor, or nil when the
// session has nothing left to present.
func (s *Service) CurrentCard(ctx context.Context, sessionID uuid.UUID) (*Prompt, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var (
		current  *Prompt
		finished *domain.QuizSession
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.lockSession(txCtx, userID, sessionID)
		if err != nil {
			return err
		}
		if session.IsFinished() {
			return nil
		}

		cards, err := s.deckCards(txCtx, session.DeckID)
		if err != nil {
			return err
		}

		presented := len(session.Order)
		var done bool
		current, done, err = s.presentOrFinish(txCtx, session, cards, s.clock.Now())
		if err != nil {
			return err
		}
		if len(session.Order) == presented && !done {
			return nil
		}

		updated, err := s.sessions.Update(txCtx, session)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		if done {
			finished = updated
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if finished != nil {
		s.publishFinished(ctx, finished)
	}
	return current, nil
}

// PauseSession pauses an active session. Pausing a paused session is a no-op.
func (s *Service) PauseSession(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var result *domain.QuizSession

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.lockSession(txCtx, userID, sessionID)
		if err != nil {
			return err
		}
		if session.IsFinished() {
			return domain.ErrInvalidState
		}
		if session.IsPaused {
			result = session
			return nil
		}

		session.IsPaused = true
		result, err = s.sessions.Update(txCtx, session)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "quiz session paused", slog.String("session_id", sessionID.String()))
	return result, nil
}

// ResumeSession resumes a paused session and returns its current prompt.
func (s *Service) ResumeSession(ctx context.Context, sessionID uuid.UUID) (*SessionView, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var (
		view     *SessionView
		finished *domain.QuizSession
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.lockSession(txCtx, userID, sessionID)
		if err != nil {
			return err
		}
		if session.IsFinished() {
			return domain.ErrInvalidState
		}

		cards, err := s.deckCards(txCtx, session.DeckID)
		if err != nil {
			return err
		}

		session.IsPaused = false
		current, done, err := s.presentOrFinish(txCtx, session, cards, s.clock.Now())
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
		view = &SessionView{Session: updated, Current: current}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if finished != nil {
		s.publishFinished(ctx, finished)
	}

	s.log.InfoContext(ctx, "quiz session resumed", slog.String("session_id", sessionID.String()))
	return view, nil
}

// ChangeMode switches the mode of an unfinished session and restarts its
// card order. Answer counters are kept.
func (s *Service) ChangeMode(ctx context.Context, input ChangeModeInput) (*SessionView, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.cfg.MaxTimePerCard); err != nil {
		return nil, err
	}

	var view *SessionView

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.lockSession(txCtx, userID, input.SessionID)
		if err != nil {
			return err
		}
		if session.IsFinished() {
			return domain.ErrSessionFinished
		}

		cards, err := s.deckCards(txCtx, session.DeckID)
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			return domain.ErrEmptyDeck
		}

		session.Mode = input.Mode
		switch {
		case input.Mode != domain.QuizModeTimed:
			session.TimePerCard = nil
		case input.TimePerCard != nil:
			session.TimePerCard = input.TimePerCard
		}

		session.CurrentIndex = 0
		if session.IsAdaptive() {
			session.Order = []uuid.UUID{}
		} else {
			session.Order = buildOrder(input.Mode, cards, s.rng)
		}

		current, err := s.present(txCtx, session, cards, s.clock.Now())
		if err != nil {
			return err
		}

		updated, err := s.sessions.Update(txCtx, session)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		view = &SessionView{Session: updated, Current: current}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "quiz mode changed",
		slog.String("session_id", input.SessionID.String()),
		slog.String("mode", string(input.Mode)),
	)

	return view, nil
}

// FinishSession ends a session. Finishing a finished session returns it unchanged.
func (s *Service) FinishSession(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	var (
		result       *domain.QuizSession
		transitioned bool
	)

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.lockSession(txCtx, userID, sessionID)
		if err != nil {
			return err
		}
		if session.IsFinished() {
			result = session
			return nil
		}

		now := s.clock.Now()
		session.FinishedAt = &now
		result, err = s.sessions.Update(txCtx, session)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		transitioned = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transitioned {
		s.publishFinished(ctx, result)
		s.log.InfoContext(ctx, "quiz session finished",
			slog.String("session_id", sessionID.String()),
			slog.Int("correct", result.CorrectCount),
			slog.Int("answered", result.TotalAnswered),
		)
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// lockSession loads the session with a row lock and checks the owner.
func (s *Service) lockSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.QuizSession, error) {
	session, err := s.sessions.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	if session.UserID != userID {
		return nil, domain.ErrNotAuthorized
	}
	return session, nil
}

// deckCards returns the cards of a deck in creation order.
func (s *Service) deckCards(ctx context.Context, deckID uuid.UUID) ([]domain.Flashcard, error) {
	cards, err := s.decks.ListCards(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("list deck cards: %w", err)
	}
	sortByCreation(cards)
	return cards, nil
}

// present resolves the card at the session cursor, records its attempt row
// and returns its prompt. It returns nil when no card is obtainable.
func (s *Service) present(ctx context.Context, session *domain.QuizSession, cards []domain.Flashcard, now time.Time) (*Prompt, error) {
	card, ok, err := s.resolveCurrent(ctx, session, cards, now)
	if err != nil || !ok {
		return nil, err
	}
	if _, err := s.attempts.Ensure(ctx, session.ID, card.ID); err != nil {
		return nil, fmt.Errorf("ensure attempt: %w", err)
	}
	return s.prompt(session, cards, card), nil
}

// presentOrFinish is present that marks the session finished when nothing is
// left. The boolean reports that transition.
func (s *Service) presentOrFinish(ctx context.Context, session *domain.QuizSession, cards []domain.Flashcard, now time.Time) (*Prompt, bool, error) {
	current, err := s.present(ctx, session, cards, now)
	if err != nil {
		return nil, false, err
	}
	if current == nil && !session.IsFinished() {
		session.FinishedAt = &now
		return nil, true, nil
	}
	return current, false, nil
}

// advance moves the cursor past the current card.
func (s *Service) advance(ctx context.Context, session *domain.QuizSession, cards []domain.Flashcard, now time.Time) (*Prompt, bool, error) {
	if session.CurrentIndex < len(session.Order) {
		session.CurrentIndex++
	}
	return s.presentOrFinish(ctx, session, cards, now)
}

// resolveCurrent maps the current card id to its flashcard.
func (s *Service) resolveCurrent(ctx context.Context, session *domain.QuizSession, cards []domain.Flashcard, now time.Time) (domain.Flashcard, bool, error) {
	id, ok, err := s.currentCardID(ctx, session, cards, now)
	if err != nil || !ok {
		return domain.Flashcard{}, false, err
	}
	for _, c := range cards {
		if c.ID == id {
			return c, true, nil
		}
	}
	return domain.Flashcard{}, false, fmt.Errorf("flashcard %s: %w", id, domain.ErrNotFound)
}
