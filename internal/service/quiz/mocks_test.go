package quiz

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/brainq-backend/internal/domain"
)

var _ deckProvider = &deckProviderMock{}

type deckProviderMock struct {
	ListCardsFunc  func(ctx context.Context, deckID uuid.UUID) ([]domain.Flashcard, error)
	CountCardsFunc func(ctx context.Context, deckID uuid.UUID) (int, error)

	calls struct {
		ListCards []struct {
			DeckID uuid.UUID
		}
		CountCards []struct {
			DeckID uuid.UUID
		}
	}
	lockListCards  sync.RWMutex
	lockCountCards sync.RWMutex
}

func (mock *deckProviderMock) ListCards(ctx context.Context, deckID uuid.UUID) ([]domain.Flashcard, error) {
	if mock.ListCardsFunc == nil {
		panic("deckProviderMock.ListCardsFunc: method is nil but deckProvider.ListCards was just called")
	}
	callInfo := struct {
		DeckID uuid.UUID
	}{DeckID: deckID}
	mock.lockListCards.Lock()
	mock.calls.ListCards = append(mock.calls.ListCards, callInfo)
	mock.lockListCards.Unlock()
	return mock.ListCardsFunc(ctx, deckID)
}

func (mock *deckProviderMock) ListCardsCalls() []struct {
	DeckID uuid.UUID
} {
	mock.lockListCards.RLock()
	calls := mock.calls.ListCards
	mock.lockListCards.RUnlock()
	return calls
}

func (mock *deckProviderMock) CountCards(ctx context.Context, deckID uuid.UUID) (int, error) {
	if mock.CountCardsFunc == nil {
		panic("deckProviderMock.CountCardsFunc: method is nil but deckProvider.CountCards was just called")
	}
	callInfo := struct {
		DeckID uuid.UUID
	}{DeckID: deckID}
	mock.lockCountCards.Lock()
	mock.calls.CountCards = append(mock.calls.CountCards, callInfo)
	mock.lockCountCards.Unlock()
	return mock.CountCardsFunc(ctx, deckID)
}

func (mock *deckProviderMock) CountCardsCalls() []struct {
	DeckID uuid.UUID
} {
	mock.lockCountCards.RLock()
	calls := mock.calls.CountCards
	mock.lockCountCards.RUnlock()
	return calls
}

var _ deckAccess = &deckAccessMock{}

type deckAccessMock struct {
	CanAccessDeckFunc func(ctx context.Context, userID uuid.UUID, deckID uuid.UUID) (bool, error)

	calls struct {
		CanAccessDeck []struct {
			UserID uuid.UUID
			DeckID uuid.UUID
		}
	}
	lockCanAccessDeck sync.RWMutex
}

func (mock *deckAccessMock) CanAccessDeck(ctx context.Context, userID uuid.UUID, deckID uuid.UUID) (bool, error) {
	if mock.CanAccessDeckFunc == nil {
		panic("deckAccessMock.CanAccessDeckFunc: method is nil but deckAccess.CanAccessDeck was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
		DeckID uuid.UUID
	}{UserID: userID, DeckID: deckID}
	mock.lockCanAccessDeck.Lock()
	mock.calls.CanAccessDeck = append(mock.calls.CanAccessDeck, callInfo)
	mock.lockCanAccessDeck.Unlock()
	return mock.CanAccessDeckFunc(ctx, userID, deckID)
}

func (mock *deckAccessMock) CanAccessDeckCalls() []struct {
	UserID uuid.UUID
	DeckID uuid.UUID
} {
	mock.lockCanAccessDeck.RLock()
	calls := mock.calls.CanAccessDeck
	mock.lockCanAccessDeck.RUnlock()
	return calls
}

var _ sessionRepo = &sessionRepoMock{}

type sessionRepoMock struct {
	CreateFunc           func(ctx context.Context, session *domain.QuizSession) (*domain.QuizSession, error)
	GetByIDFunc          func(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error)
	GetByIDForUpdateFunc func(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error)
	UpdateFunc           func(ctx context.Context, session *domain.QuizSession) (*domain.QuizSession, error)
	ListFunc             func(ctx context.Context, userID uuid.UUID, filter domain.SessionFilter) ([]*domain.QuizSession, int, error)

	calls struct {
		Create []struct {
			Session *domain.QuizSession
		}
		GetByID []struct {
			SessionID uuid.UUID
		}
		GetByIDForUpdate []struct {
			SessionID uuid.UUID
		}
		Update []struct {
			Session *domain.QuizSession
		}
		List []struct {
			UserID uuid.UUID
			Filter domain.SessionFilter
		}
	}
	lockCreate           sync.RWMutex
	lockGetByID          sync.RWMutex
	lockGetByIDForUpdate sync.RWMutex
	lockUpdate           sync.RWMutex
	lockList             sync.RWMutex
}

func (mock *sessionRepoMock) Create(ctx context.Context, session *domain.QuizSession) (*domain.QuizSession, error) {
	if mock.CreateFunc == nil {
		panic("sessionRepoMock.CreateFunc: method is nil but sessionRepo.Create was just called")
	}
	callInfo := struct {
		Session *domain.QuizSession
	}{Session: session}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, session)
}

func (mock *sessionRepoMock) CreateCalls() []struct {
	Session *domain.QuizSession
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *sessionRepoMock) GetByID(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error) {
	if mock.GetByIDFunc == nil {
		panic("sessionRepoMock.GetByIDFunc: method is nil but sessionRepo.GetByID was just called")
	}
	callInfo := struct {
		SessionID uuid.UUID
	}{SessionID: sessionID}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, sessionID)
}

func (mock *sessionRepoMock) GetByIDCalls() []struct {
	SessionID uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *sessionRepoMock) GetByIDForUpdate(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error) {
	if mock.GetByIDForUpdateFunc == nil {
		panic("sessionRepoMock.GetByIDForUpdateFunc: method is nil but sessionRepo.GetByIDForUpdate was just called")
	}
	callInfo := struct {
		SessionID uuid.UUID
	}{SessionID: sessionID}
	mock.lockGetByIDForUpdate.Lock()
	mock.calls.GetByIDForUpdate = append(mock.calls.GetByIDForUpdate, callInfo)
	mock.lockGetByIDForUpdate.Unlock()
	return mock.GetByIDForUpdateFunc(ctx, sessionID)
}

func (mock *sessionRepoMock) GetByIDForUpdateCalls() []struct {
	SessionID uuid.UUID
} {
	mock.lockGetByIDForUpdate.RLock()
	calls := mock.calls.GetByIDForUpdate
	mock.lockGetByIDForUpdate.RUnlock()
	return calls
}

func (mock *sessionRepoMock) Update(ctx context.Context, session *domain.QuizSession) (*domain.QuizSession, error) {
	if mock.UpdateFunc == nil {
		panic("sessionRepoMock.UpdateFunc: method is nil but sessionRepo.Update was just called")
	}
	callInfo := struct {
		Session *domain.QuizSession
	}{Session: session}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, session)
}

func (mock *sessionRepoMock) UpdateCalls() []struct {
	Session *domain.QuizSession
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *sessionRepoMock) List(ctx context.Context, userID uuid.UUID, filter domain.SessionFilter) ([]*domain.QuizSession, int, error) {
	if mock.ListFunc == nil {
		panic("sessionRepoMock.ListFunc: method is nil but sessionRepo.List was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
		Filter domain.SessionFilter
	}{UserID: userID, Filter: filter}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, userID, filter)
}

func (mock *sessionRepoMock) ListCalls() []struct {
	UserID uuid.UUID
	Filter domain.SessionFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

var _ attemptRepo = &attemptRepoMock{}

type attemptRepoMock struct {
	EnsureFunc        func(ctx context.Context, sessionID uuid.UUID, flashcardID uuid.UUID) (*domain.QuizAttempt, error)
	GetFunc           func(ctx context.Context, sessionID uuid.UUID, flashcardID uuid.UUID) (*domain.QuizAttempt, error)
	SaveFunc          func(ctx context.Context, attempt *domain.QuizAttempt) (*domain.QuizAttempt, error)
	ListBySessionFunc func(ctx context.Context, sessionID uuid.UUID) ([]domain.AttemptDetail, error)

	calls struct {
		Ensure []struct {
			SessionID   uuid.UUID
			FlashcardID uuid.UUID
		}
		Get []struct {
			SessionID   uuid.UUID
			FlashcardID uuid.UUID
		}
		Save []struct {
			Attempt *domain.QuizAttempt
		}
		ListBySession []struct {
			SessionID uuid.UUID
		}
	}
	lockEnsure        sync.RWMutex
	lockGet           sync.RWMutex
	lockSave          sync.RWMutex
	lockListBySession sync.RWMutex
}

func (mock *attemptRepoMock) Ensure(ctx context.Context, sessionID uuid.UUID, flashcardID uuid.UUID) (*domain.QuizAttempt, error) {
	if mock.EnsureFunc == nil {
		panic("attemptRepoMock.EnsureFunc: method is nil but attemptRepo.Ensure was just called")
	}
	callInfo := struct {
		SessionID   uuid.UUID
		FlashcardID uuid.UUID
	}{SessionID: sessionID, FlashcardID: flashcardID}
	mock.lockEnsure.Lock()
	mock.calls.Ensure = append(mock.calls.Ensure, callInfo)
	mock.lockEnsure.Unlock()
	return mock.EnsureFunc(ctx, sessionID, flashcardID)
}

func (mock *attemptRepoMock) EnsureCalls() []struct {
	SessionID   uuid.UUID
	FlashcardID uuid.UUID
} {
	mock.lockEnsure.RLock()
	calls := mock.calls.Ensure
	mock.lockEnsure.RUnlock()
	return calls
}

func (mock *attemptRepoMock) Get(ctx context.Context, sessionID uuid.UUID, flashcardID uuid.UUID) (*domain.QuizAttempt, error) {
	if mock.GetFunc == nil {
		panic("attemptRepoMock.GetFunc: method is nil but attemptRepo.Get was just called")
	}
	callInfo := struct {
		SessionID   uuid.UUID
		FlashcardID uuid.UUID
	}{SessionID: sessionID, FlashcardID: flashcardID}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, sessionID, flashcardID)
}

func (mock *attemptRepoMock) GetCalls() []struct {
	SessionID   uuid.UUID
	FlashcardID uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *attemptRepoMock) Save(ctx context.Context, attempt *domain.QuizAttempt) (*domain.QuizAttempt, error) {
	if mock.SaveFunc == nil {
		panic("attemptRepoMock.SaveFunc: method is nil but attemptRepo.Save was just called")
	}
	callInfo := struct {
		Attempt *domain.QuizAttempt
	}{Attempt: attempt}
	mock.lockSave.Lock()
	mock.calls.Save = append(mock.calls.Save, callInfo)
	mock.lockSave.Unlock()
	return mock.SaveFunc(ctx, attempt)
}

func (mock *attemptRepoMock) SaveCalls() []struct {
	Attempt *domain.QuizAttempt
} {
	mock.lockSave.RLock()
	calls := mock.calls.Save
	mock.lockSave.RUnlock()
	return calls
}

func (mock *attemptRepoMock) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.AttemptDetail, error) {
	if mock.ListBySessionFunc == nil {
		panic("attemptRepoMock.ListBySessionFunc: method is nil but attemptRepo.ListBySession was just called")
	}
	callInfo := struct {
		SessionID uuid.UUID
	}{SessionID: sessionID}
	mock.lockListBySession.Lock()
	mock.calls.ListBySession = append(mock.calls.ListBySession, callInfo)
	mock.lockListBySession.Unlock()
	return mock.ListBySessionFunc(ctx, sessionID)
}

func (mock *attemptRepoMock) ListBySessionCalls() []struct {
	SessionID uuid.UUID
} {
	mock.lockListBySession.RLock()
	calls := mock.calls.ListBySession
	mock.lockListBySession.RUnlock()
	return calls
}

var _ performanceRepo = &performanceRepoMock{}

type performanceRepoMock struct {
	GetByCardIDsFunc func(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (map[uuid.UUID]domain.FlashcardPerformance, error)
	GetForUpdateFunc func(ctx context.Context, userID uuid.UUID, cardID uuid.UUID) (*domain.FlashcardPerformance, error)
	SaveFunc         func(ctx context.Context, perf *domain.FlashcardPerformance) (*domain.FlashcardPerformance, error)
	ListByDeckFunc   func(ctx context.Context, userID uuid.UUID, deckID uuid.UUID) ([]domain.FlashcardPerformance, error)

	calls struct {
		GetByCardIDs []struct {
			UserID  uuid.UUID
			CardIDs []uuid.UUID
		}
		GetForUpdate []struct {
			UserID uuid.UUID
			CardID uuid.UUID
		}
		Save []struct {
			Perf *domain.FlashcardPerformance
		}
		ListByDeck []struct {
			UserID uuid.UUID
			DeckID uuid.UUID
		}
	}
	lockGetByCardIDs sync.RWMutex
	lockGetForUpdate sync.RWMutex
	lockSave         sync.RWMutex
	lockListByDeck   sync.RWMutex
}

func (mock *performanceRepoMock) GetByCardIDs(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (map[uuid.UUID]domain.FlashcardPerformance, error) {
	if mock.GetByCardIDsFunc == nil {
		panic("performanceRepoMock.GetByCardIDsFunc: method is nil but performanceRepo.GetByCardIDs was just called")
	}
	callInfo := struct {
		UserID  uuid.UUID
		CardIDs []uuid.UUID
	}{UserID: userID, CardIDs: cardIDs}
	mock.lockGetByCardIDs.Lock()
	mock.calls.GetByCardIDs = append(mock.calls.GetByCardIDs, callInfo)
	mock.lockGetByCardIDs.Unlock()
	return mock.GetByCardIDsFunc(ctx, userID, cardIDs)
}

func (mock *performanceRepoMock) GetByCardIDsCalls() []struct {
	UserID  uuid.UUID
	CardIDs []uuid.UUID
} {
	mock.lockGetByCardIDs.RLock()
	calls := mock.calls.GetByCardIDs
	mock.lockGetByCardIDs.RUnlock()
	return calls
}

func (mock *performanceRepoMock) GetForUpdate(ctx context.Context, userID uuid.UUID, cardID uuid.UUID) (*domain.FlashcardPerformance, error) {
	if mock.GetForUpdateFunc == nil {
		panic("performanceRepoMock.GetForUpdateFunc: method is nil but performanceRepo.GetForUpdate was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
		CardID uuid.UUID
	}{UserID: userID, CardID: cardID}
	mock.lockGetForUpdate.Lock()
	mock.calls.GetForUpdate = append(mock.calls.GetForUpdate, callInfo)
	mock.lockGetForUpdate.Unlock()
	return mock.GetForUpdateFunc(ctx, userID, cardID)
}

func (mock *performanceRepoMock) GetForUpdateCalls() []struct {
	UserID uuid.UUID
	CardID uuid.UUID
} {
	mock.lockGetForUpdate.RLock()
	calls := mock.calls.GetForUpdate
	mock.lockGetForUpdate.RUnlock()
	return calls
}

func (mock *performanceRepoMock) Save(ctx context.Context, perf *domain.FlashcardPerformance) (*domain.FlashcardPerformance, error) {
	if mock.SaveFunc == nil {
		panic("performanceRepoMock.SaveFunc: method is nil but performanceRepo.Save was just called")
	}
	callInfo := struct {
		Perf *domain.FlashcardPerformance
	}{Perf: perf}
	mock.lockSave.Lock()
	mock.calls.Save = append(mock.calls.Save, callInfo)
	mock.lockSave.Unlock()
	return mock.SaveFunc(ctx, perf)
}

func (mock *performanceRepoMock) SaveCalls() []struct {
	Perf *domain.FlashcardPerformance
} {
	mock.lockSave.RLock()
	calls := mock.calls.Save
	mock.lockSave.RUnlock()
	return calls
}

func (mock *performanceRepoMock) ListByDeck(ctx context.Context, userID uuid.UUID, deckID uuid.UUID) ([]domain.FlashcardPerformance, error) {
	if mock.ListByDeckFunc == nil {
		panic("performanceRepoMock.ListByDeckFunc: method is nil but performanceRepo.ListByDeck was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
		DeckID uuid.UUID
	}{UserID: userID, DeckID: deckID}
	mock.lockListByDeck.Lock()
	mock.calls.ListByDeck = append(mock.calls.ListByDeck, callInfo)
	mock.lockListByDeck.Unlock()
	return mock.ListByDeckFunc(ctx, userID, deckID)
}

func (mock *performanceRepoMock) ListByDeckCalls() []struct {
	UserID uuid.UUID
	DeckID uuid.UUID
} {
	mock.lockListByDeck.RLock()
	calls := mock.calls.ListByDeck
	mock.lockListByDeck.RUnlock()
	return calls
}

var _ eventPublisher = &eventPublisherMock{}

type eventPublisherMock struct {
	PublishSessionFinishedFunc func(ctx context.Context, event domain.SessionFinishedEvent) error

	calls struct {
		PublishSessionFinished []struct {
			Event domain.SessionFinishedEvent
		}
	}
	lockPublishSessionFinished sync.RWMutex
}

func (mock *eventPublisherMock) PublishSessionFinished(ctx context.Context, event domain.SessionFinishedEvent) error {
	if mock.PublishSessionFinishedFunc == nil {
		panic("eventPublisherMock.PublishSessionFinishedFunc: method is nil but eventPublisher.PublishSessionFinished was just called")
	}
	callInfo := struct {
		Event domain.SessionFinishedEvent
	}{Event: event}
	mock.lockPublishSessionFinished.Lock()
	mock.calls.PublishSessionFinished = append(mock.calls.PublishSessionFinished, callInfo)
	mock.lockPublishSessionFinished.Unlock()
	return mock.PublishSessionFinishedFunc(ctx, event)
}

func (mock *eventPublisherMock) PublishSessionFinishedCalls() []struct {
	Event domain.SessionFinishedEvent
} {
	mock.lockPublishSessionFinished.RLock()
	calls := mock.calls.PublishSessionFinished
	mock.lockPublishSessionFinished.RUnlock()
	return calls
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct {
			Fn func(ctx context.Context) error
		}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	callInfo := struct {
		Fn func(ctx context.Context) error
	}{Fn: fn}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, callInfo)
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct {
	Fn func(ctx context.Context) error
} {
	mock.lockRunInTx.RLock()
	calls := mock.calls.RunInTx
	mock.lockRunInTx.RUnlock()
	return calls
}
