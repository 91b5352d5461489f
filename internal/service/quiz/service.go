package quiz

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/heartmarshall/brainq-backend/internal/domain"
	"github.com/jonboulle/clockwork"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type deckProvider interface {
	ListCards(ctx context.Context, deckID uuid.UUID) ([]domain.Flashcard, error)
	CountCards(ctx context.Context, deckID uuid.UUID) (int, error)
}

type deckAccess interface {
	CanAccessDeck(ctx context.Context, userID, deckID uuid.UUID) (bool, error)
}

type sessionRepo interface {
	Create(ctx context.Context, session *domain.QuizSession) (*domain.QuizSession, error)
	GetByID(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error)
	GetByIDForUpdate(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error)
	Update(ctx context.Context, session *domain.QuizSession) (*domain.QuizSession, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.SessionFilter) ([]*domain.QuizSession, int, error)
}

type attemptRepo interface {
	Ensure(ctx context.Context, sessionID, flashcardID uuid.UUID) (*domain.QuizAttempt, error)
	Get(ctx context.Context, sessionID, flashcardID uuid.UUID) (*domain.QuizAttempt, error)
	Save(ctx context.Context, attempt *domain.QuizAttempt) (*domain.QuizAttempt, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.AttemptDetail, error)
}

type performanceRepo interface {
	GetByCardIDs(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (map[uuid.UUID]domain.FlashcardPerformance, error)
	GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.FlashcardPerformance, error)
	Save(ctx context.Context, perf *domain.FlashcardPerformance) (*domain.FlashcardPerformance, error)
	ListByDeck(ctx context.Context, userID, deckID uuid.UUID) ([]domain.FlashcardPerformance, error)
}

type eventPublisher interface {
	PublishSessionFinished(ctx context.Context, event domain.SessionFinishedEvent) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// randomizer is the randomness used for shuffles, option sampling and card
// selection. Implementations must be safe for concurrent use.
type randomizer interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

const (
	defaultListLimit   = 20
	defaultDistractors = 3
)

// Config holds quiz engine settings.
type Config struct {
	// Distractors is the number of wrong answers offered next to the correct one.
	Distractors int
	// MaxTimePerCard caps the advisory countdown of timed sessions, in seconds.
	MaxTimePerCard int
	// DefaultListLimit is used when a session listing has no limit.
	DefaultListLimit int
}

// Service implements the adaptive quiz session engine.
type Service struct {
	log      *slog.Logger
	decks    deckProvider
	access   deckAccess
	sessions sessionRepo
	attempts attemptRepo
	perf     performanceRepo
	events   eventPublisher
	tx       txManager
	clock    clockwork.Clock
	rng      randomizer
	cfg      Config
}

// NewService creates a new quiz service. A nil rng defaults to a
// clock-seeded LockedRand.
func NewService(
	log *slog.Logger,
	decks deckProvider,
	access deckAccess,
	sessions sessionRepo,
	attempts attemptRepo,
	perf performanceRepo,
	events eventPublisher,
	tx txManager,
	clock clockwork.Clock,
	rng randomizer,
	cfg Config,
) (*Service, error) {
	if cfg.Distractors == 0 {
		cfg.Distractors = defaultDistractors
	}
	if cfg.DefaultListLimit == 0 {
		cfg.DefaultListLimit = defaultListLimit
	}
	if cfg.Distractors < 0 {
		return nil, fmt.Errorf("invalid quiz config: distractors must be positive, got %d", cfg.Distractors)
	}
	if cfg.MaxTimePerCard < 0 {
		return nil, fmt.Errorf("invalid quiz config: max time per card must be non-negative, got %d", cfg.MaxTimePerCard)
	}
	if rng == nil {
		rng = NewLockedRand(uint64(clock.Now().UnixNano()))
	}

	return &Service{
		log:      log.With("service", "quiz"),
		decks:    decks,
		access:   access,
		sessions: sessions,
		attempts: attempts,
		perf:     perf,
		events:   events,
		tx:       tx,
		clock:    clock,
		rng:      rng,
		cfg:      cfg,
	}, nil
}
