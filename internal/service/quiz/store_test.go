package quiz

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/brainq-backend/internal/domain"
	"github.com/heartmarshall/brainq-backend/pkg/ctxutil"
	"github.com/jonboulle/clockwork"
)

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type attemptKey struct{ session, card uuid.UUID }
type perfKey struct{ user, card uuid.UUID }

// memStore backs the repository mocks with maps so that service tests can
// run whole sessions.
type memStore struct {
	mu       sync.Mutex
	cards    map[uuid.UUID][]domain.Flashcard
	denied   map[uuid.UUID]bool
	sessions map[uuid.UUID]domain.QuizSession
	attempts map[attemptKey]domain.QuizAttempt
	perfs    map[perfKey]domain.FlashcardPerformance
	events   []domain.SessionFinishedEvent
}

func newMemStore() *memStore {
	return &memStore{
		cards:    make(map[uuid.UUID][]domain.Flashcard),
		denied:   make(map[uuid.UUID]bool),
		sessions: make(map[uuid.UUID]domain.QuizSession),
		attempts: make(map[attemptKey]domain.QuizAttempt),
		perfs:    make(map[perfKey]domain.FlashcardPerformance),
	}
}

func cloneSession(s domain.QuizSession) *domain.QuizSession {
	s.Order = slices.Clone(s.Order)
	return &s
}

func (m *memStore) session(id uuid.UUID) domain.QuizSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

func (m *memStore) perf(userID, cardID uuid.UUID) (domain.FlashcardPerformance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.perfs[perfKey{userID, cardID}]
	return p, ok
}

func (m *memStore) putPerf(p domain.FlashcardPerformance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perfs[perfKey{p.UserID, p.FlashcardID}] = p
}

func (m *memStore) attempt(sessionID, cardID uuid.UUID) (domain.QuizAttempt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptKey{sessionID, cardID}]
	return a, ok
}

func (m *memStore) deckMock() *deckProviderMock {
	return &deckProviderMock{
		ListCardsFunc: func(ctx context.Context, deckID uuid.UUID) ([]domain.Flashcard, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return slices.Clone(m.cards[deckID]), nil
		},
		CountCardsFunc: func(ctx context.Context, deckID uuid.UUID) (int, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return len(m.cards[deckID]), nil
		},
	}
}

func (m *memStore) accessMock() *deckAccessMock {
	return &deckAccessMock{
		CanAccessDeckFunc: func(ctx context.Context, userID, deckID uuid.UUID) (bool, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return !m.denied[deckID], nil
		},
	}
}

func (m *memStore) sessionMock(clock clockwork.Clock) *sessionRepoMock {
	get := func(id uuid.UUID) (*domain.QuizSession, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		s, ok := m.sessions[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return cloneSession(s), nil
	}
	return &sessionRepoMock{
		CreateFunc: func(ctx context.Context, session *domain.QuizSession) (*domain.QuizSession, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.sessions[session.ID]; ok {
				return nil, domain.ErrAlreadyExists
			}
			s := *cloneSession(*session)
			s.UpdatedAt = clock.Now()
			m.sessions[s.ID] = s
			return cloneSession(s), nil
		},
		GetByIDFunc: func(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error) {
			return get(sessionID)
		},
		GetByIDForUpdateFunc: func(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error) {
			return get(sessionID)
		},
		UpdateFunc: func(ctx context.Context, session *domain.QuizSession) (*domain.QuizSession, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.sessions[session.ID]; !ok {
				return nil, domain.ErrNotFound
			}
			if session.CurrentIndex < 0 || session.CurrentIndex > len(session.Order) {
				return nil, fmt.Errorf("current index %d out of bounds: %w", session.CurrentIndex, domain.ErrValidation)
			}
			s := *cloneSession(*session)
			s.UpdatedAt = clock.Now()
			m.sessions[s.ID] = s
			return cloneSession(s), nil
		},
		ListFunc: func(ctx context.Context, userID uuid.UUID, filter domain.SessionFilter) ([]*domain.QuizSession, int, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			var all []*domain.QuizSession
			for _, s := range m.sessions {
				if s.UserID != userID {
					continue
				}
				if filter.DeckID != nil && s.DeckID != *filter.DeckID {
					continue
				}
				if filter.State != nil && s.State() != *filter.State {
					continue
				}
				all = append(all, cloneSession(s))
			}
			total := len(all)
			if filter.Offset >= len(all) {
				return nil, total, nil
			}
			all = all[filter.Offset:]
			if filter.Limit < len(all) {
				all = all[:filter.Limit]
			}
			return all, total, nil
		},
	}
}

func (m *memStore) attemptMock(clock clockwork.Clock) *attemptRepoMock {
	return &attemptRepoMock{
		EnsureFunc: func(ctx context.Context, sessionID, flashcardID uuid.UUID) (*domain.QuizAttempt, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			key := attemptKey{sessionID, flashcardID}
			a, ok := m.attempts[key]
			if !ok {
				a = domain.QuizAttempt{SessionID: sessionID, FlashcardID: flashcardID, CreatedAt: clock.Now()}
				m.attempts[key] = a
			}
			return &a, nil
		},
		GetFunc: func(ctx context.Context, sessionID, flashcardID uuid.UUID) (*domain.QuizAttempt, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			a, ok := m.attempts[attemptKey{sessionID, flashcardID}]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return &a, nil
		},
		SaveFunc: func(ctx context.Context, attempt *domain.QuizAttempt) (*domain.QuizAttempt, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			a := *attempt
			m.attempts[attemptKey{a.SessionID, a.FlashcardID}] = a
			return &a, nil
		},
		ListBySessionFunc: func(ctx context.Context, sessionID uuid.UUID) ([]domain.AttemptDetail, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			s := m.sessions[sessionID]
			var out []domain.AttemptDetail
			for _, c := range m.cards[s.DeckID] {
				if a, ok := m.attempts[attemptKey{sessionID, c.ID}]; ok {
					out = append(out, domain.AttemptDetail{QuizAttempt: a, Question: c.Question, CorrectAnswer: c.Answer})
				}
			}
			return out, nil
		},
	}
}

func (m *memStore) perfMock() *performanceRepoMock {
	return &performanceRepoMock{
		GetByCardIDsFunc: func(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (map[uuid.UUID]domain.FlashcardPerformance, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			out := make(map[uuid.UUID]domain.FlashcardPerformance)
			for _, id := range cardIDs {
				if p, ok := m.perfs[perfKey{userID, id}]; ok {
					out[id] = p
				}
			}
			return out, nil
		},
		GetForUpdateFunc: func(ctx context.Context, userID, cardID uuid.UUID) (*domain.FlashcardPerformance, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			key := perfKey{userID, cardID}
			p, ok := m.perfs[key]
			if !ok {
				p = domain.NewFlashcardPerformance(userID, cardID)
				m.perfs[key] = p
			}
			return &p, nil
		},
		SaveFunc: func(ctx context.Context, perf *domain.FlashcardPerformance) (*domain.FlashcardPerformance, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			p := *perf
			m.perfs[perfKey{p.UserID, p.FlashcardID}] = p
			return &p, nil
		},
		ListByDeckFunc: func(ctx context.Context, userID, deckID uuid.UUID) ([]domain.FlashcardPerformance, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			var out []domain.FlashcardPerformance
			for _, c := range m.cards[deckID] {
				if p, ok := m.perfs[perfKey{userID, c.ID}]; ok {
					out = append(out, p)
				}
			}
			return out, nil
		},
	}
}

func (m *memStore) eventMock() *eventPublisherMock {
	return &eventPublisherMock{
		PublishSessionFinishedFunc: func(ctx context.Context, event domain.SessionFinishedEvent) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.events = append(m.events, event)
			return nil
		},
	}
}

func (m *memStore) publishedEvents() []domain.SessionFinishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.events)
}

// ---------------------------------------------------------------------------
// Test environment
// ---------------------------------------------------------------------------

type testEnv struct {
	svc      *Service
	store    *memStore
	clock    *clockwork.FakeClock
	decks    *deckProviderMock
	sessions *sessionRepoMock
	attempts *attemptRepoMock
	perf     *performanceRepoMock
	events   *eventPublisherMock
	tx       *txManagerMock
	userID   uuid.UUID
	deckID   uuid.UUID
	ctx      context.Context
}

// newTestEnv builds a service over an in-memory store holding one deck with
// the given answers, created one minute apart in the given order.
func newTestEnv(t *testing.T, rng randomizer, answers ...string) *testEnv {
	t.Helper()

	store := newMemStore()
	clock := clockwork.NewFakeClockAt(testStart)
	deckID := uuid.New()

	for i, a := range answers {
		store.cards[deckID] = append(store.cards[deckID], domain.Flashcard{
			ID:         uuid.New(),
			DeckID:     deckID,
			Question:   "Q" + a,
			Answer:     a,
			Difficulty: domain.DifficultyMedium,
			CreatedAt:  testStart.Add(time.Duration(i) * time.Minute),
		})
	}

	env := &testEnv{
		store:    store,
		clock:    clock,
		decks:    store.deckMock(),
		sessions: store.sessionMock(clock),
		attempts: store.attemptMock(clock),
		perf:     store.perfMock(),
		events:   store.eventMock(),
		tx: &txManagerMock{
			RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
				return fn(ctx)
			},
		},
		userID: uuid.New(),
		deckID: deckID,
	}
	env.ctx = ctxutil.WithUserID(context.Background(), env.userID)

	svc, err := NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		env.decks, store.accessMock(), env.sessions, env.attempts, env.perf, env.events, env.tx,
		clock, rng, Config{MaxTimePerCard: 300},
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	env.svc = svc
	return env
}

func (e *testEnv) cards() []domain.Flashcard {
	return slices.Clone(e.store.cards[e.deckID])
}

func (e *testEnv) card(id uuid.UUID) domain.Flashcard {
	for _, c := range e.store.cards[e.deckID] {
		if c.ID == id {
			return c
		}
	}
	panic("unknown card " + id.String())
}

// ---------------------------------------------------------------------------
// Deterministic randomness
// ---------------------------------------------------------------------------

// seqRand returns queued values from IntN (modulo n, 0 when drained) and
// leaves slices unshuffled.
type seqRand struct {
	mu     sync.Mutex
	values []int
}

func (r *seqRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

func (r *seqRand) Shuffle(n int, swap func(i, j int)) {}

// reverseRand reverses slices on shuffle.
type reverseRand struct{ seqRand }

func (r *reverseRand) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}
