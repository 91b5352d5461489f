package quiz

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/heartmarshall/brainq-backend/internal/domain"
	"github.com/heartmarshall/brainq-backend/pkg/ctxutil"
	"golang.org/x/sync/errgroup"
)

// GetResults returns the counters, accuracy and per-card attempts of a
// session, along with the memory state of the answered cards.
func (s *Service) GetResults(ctx context.Context, sessionID uuid.UUID) (*SessionResults, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != userID {
		return nil, domain.ErrNotAuthorized
	}

	var (
		attempts []domain.AttemptDetail
		perfs    map[uuid.UUID]domain.FlashcardPerformance
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		attempts, err = s.attempts.ListBySession(gctx, session.ID)
		if err != nil {
			return fmt.Errorf("list attempts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if len(session.Order) == 0 {
			return nil
		}
		var err error
		perfs, err = s.perf.GetByCardIDs(gctx, userID, session.Order)
		if err != nil {
			return fmt.Errorf("get performance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := &SessionResults{
		Session:  session,
		Accuracy: session.Accuracy(),
		Attempts: attempts,
	}
	for _, id := range session.Order {
		if p, ok := perfs[id]; ok {
			results.Performance = append(results.Performance, p)
		}
	}
	return results, nil
}

// ListSessions returns one page of the caller's session history.
func (s *Service) ListSessions(ctx context.Context, input ListSessionsInput) (*SessionList, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.cfg.DefaultListLimit
	}

	sessions, total, err := s.sessions.List(ctx, userID, domain.SessionFilter{
		DeckID: input.DeckID,
		State:  input.Status,
		Limit:  limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return &SessionList{Sessions: sessions, Total: total}, nil
}

// GetDeckPerformance returns the caller's memory state for every card of a
// deck they can access, with due and new counts.
func (s *Service) GetDeckPerformance(ctx context.Context, deckID uuid.UUID) (*domain.DeckPerformance, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	allowed, err := s.access.CanAccessDeck(ctx, userID, deckID)
	if err != nil {
		return nil, fmt.Errorf("check deck access: %w", err)
	}
	if !allowed {
		return nil, domain.ErrNotAuthorized
	}

	var (
		total int
		perfs []domain.FlashcardPerformance
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.decks.CountCards(gctx, deckID)
		if err != nil {
			return fmt.Errorf("count cards: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		perfs, err = s.perf.ListByDeck(gctx, userID, deckID)
		if err != nil {
			return fmt.Errorf("list performance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	result := &domain.DeckPerformance{
		DeckID:     deckID,
		TotalCards: total,
		NewCount:   max(0, total-len(perfs)),
		Cards:      perfs,
	}
	for i := range perfs {
		if perfs[i].IsDue(now) {
			result.DueCount++
		}
	}
	return result, nil
}
