package quiz

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/brainq-backend/internal/domain"
	"github.com/heartmarshall/brainq-backend/internal/service/quiz/sm2"
)

// sortByCreation orders cards by creation time, ties broken by id.
func sortByCreation(cards []domain.Flashcard) {
	slices.SortStableFunc(cards, func(a, b domain.Flashcard) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}

// buildOrder returns the full presentation order of a non-adaptive session.
// cards must already be in creation order.
func buildOrder(mode domain.QuizMode, cards []domain.Flashcard, rng randomizer) []uuid.UUID {
	order := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		order[i] = c.ID
	}
	if mode != domain.QuizModeSequential {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	return order
}

// currentCardID returns the card at the session cursor. Adaptive sessions
// whose cursor sits past the order select a new card and append it. The
// second result is false when no card is obtainable.
func (s *Service) currentCardID(ctx context.Context, session *domain.QuizSession, cards []domain.Flashcard, now time.Time) (uuid.UUID, bool, error) {
	if session.IsFinished() {
		return uuid.Nil, false, nil
	}
	if id, ok := session.CardAt(); ok {
		return id, true, nil
	}
	if !session.IsAdaptive() {
		return uuid.Nil, false, nil
	}

	remaining := make([]domain.Flashcard, 0, len(cards))
	for _, c := range cards {
		if !session.HasPresented(c.ID) {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		return uuid.Nil, false, nil
	}

	var perfs map[uuid.UUID]domain.FlashcardPerformance
	if session.SRSEnabled {
		ids := make([]uuid.UUID, len(remaining))
		for i, c := range remaining {
			ids[i] = c.ID
		}
		var err error
		perfs, err = s.perf.GetByCardIDs(ctx, session.UserID, ids)
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("get performance: %w", err)
		}
	}

	id := pickAdaptive(remaining, perfs, session.SRSEnabled, now, s.rng)
	session.Order = append(session.Order, id)
	return id, true, nil
}

// pickAdaptive chooses the next card among remaining. Due cards win over new
// cards, new cards over the rest. Due cards are drawn by weight, the others
// uniformly.
func pickAdaptive(remaining []domain.Flashcard, perfs map[uuid.UUID]domain.FlashcardPerformance, srsEnabled bool, now time.Time, rng randomizer) uuid.UUID {
	var (
		due     []uuid.UUID
		weights []int
		fresh   []uuid.UUID
	)
	for _, c := range remaining {
		p, ok := perfs[c.ID]
		if !srsEnabled || !ok {
			fresh = append(fresh, c.ID)
			continue
		}
		if p.IsDue(now) {
			due = append(due, c.ID)
			weights = append(weights, selectionWeight(&p))
		}
	}

	switch {
	case len(due) > 0:
		return pickWeighted(due, weights, rng)
	case len(fresh) > 0:
		return fresh[rng.IntN(len(fresh))]
	default:
		return remaining[rng.IntN(len(remaining))].ID
	}
}

// selectionWeight favors cards the user struggles with. The result is the
// number of tickets the card holds in the draw, at least one.
func selectionWeight(p *domain.FlashcardPerformance) int {
	w := 1.0
	if p.TotalAttempts() > 0 {
		switch acc := p.Accuracy(); {
		case acc < sm2.HardAccuracy:
			w *= 3
		case acc < sm2.EasyAccuracy:
			w *= 2
		}
	}
	switch p.UserDifficulty {
	case domain.DifficultyHard:
		w *= 2
	case domain.DifficultyEasy:
		w *= 0.5
	}
	return max(1, int(w))
}

// pickWeighted draws one id where ids[i] holds weights[i] tickets.
func pickWeighted(ids []uuid.UUID, weights []int, rng randomizer) uuid.UUID {
	cumulative := make([]int, len(weights))
	total := 0
	for i, w := range weights {
		total += w
		cumulative[i] = total
	}
	ticket := rng.IntN(total)
	// First index whose cumulative weight exceeds the ticket.
	i := sort.SearchInts(cumulative, ticket+1)
	return ids[i]
}
