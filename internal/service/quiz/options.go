package quiz

import "github.com/heartmarshall/brainq-backend/internal/domain"

// BuildOptions returns the multiple-choice options for card: three
// distractors drawn from the answers of the other deck cards plus the
// correct answer, shuffled.
func BuildOptions(card domain.Flashcard, deckCards []domain.Flashcard, rng randomizer) []string {
	return buildOptions(card, deckCards, rng, defaultDistractors)
}

func buildOptions(card domain.Flashcard, deckCards []domain.Flashcard, rng randomizer, n int) []string {
	pool := make([]string, 0, len(deckCards))
	for _, c := range deckCards {
		if c.ID != card.ID {
			pool = append(pool, c.Answer)
		}
	}

	options := make([]string, 0, n+1)
	switch {
	case len(pool) == 0:
	case len(pool) < n:
		// Small decks repeat their answers to fill the distractor slots.
		for i := range n {
			options = append(options, pool[i%len(pool)])
		}
	default:
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		options = append(options, pool[:n]...)
	}

	options = append(options, card.Answer)
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}

// prompt builds the presentation of card at the session cursor.
func (s *Service) prompt(session *domain.QuizSession, cards []domain.Flashcard, card domain.Flashcard) *Prompt {
	return &Prompt{
		CardID:      card.ID,
		Question:    card.Question,
		Options:     buildOptions(card, cards, s.rng, s.cfg.Distractors),
		TimePerCard: session.TimePerCard,
		Position:    session.CurrentIndex,
		DeckSize:    len(cards),
	}
}
