package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/brainq-backend/internal/domain"
	"github.com/heartmarshall/brainq-backend/internal/service/quiz"
)

var _ quizService = &quizServiceMock{}

type quizServiceMock struct {
	StartSessionFunc       func(ctx context.Context, input quiz.StartSessionInput) (*quiz.SessionView, error)
	CurrentCardFunc        func(ctx context.Context, sessionID uuid.UUID) (*quiz.Prompt, error)
	PauseSessionFunc       func(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error)
	ResumeSessionFunc      func(ctx context.Context, sessionID uuid.UUID) (*quiz.SessionView, error)
	ChangeModeFunc         func(ctx context.Context, input quiz.ChangeModeInput) (*quiz.SessionView, error)
	FinishSessionFunc      func(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error)
	AnswerFunc             func(ctx context.Context, input quiz.AnswerInput) (*quiz.AnswerResult, error)
	SkipFunc               func(ctx context.Context, sessionID uuid.UUID) (*quiz.SkipResult, error)
	GetResultsFunc         func(ctx context.Context, sessionID uuid.UUID) (*quiz.SessionResults, error)
	ListSessionsFunc       func(ctx context.Context, input quiz.ListSessionsInput) (*quiz.SessionList, error)
	GetDeckPerformanceFunc func(ctx context.Context, deckID uuid.UUID) (*domain.DeckPerformance, error)

	mu    sync.Mutex
	calls map[string]int
}

func (mock *quizServiceMock) record(name string) {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	if mock.calls == nil {
		mock.calls = make(map[string]int)
	}
	mock.calls[name]++
}

// Calls returns how many times the named method was called.
func (mock *quizServiceMock) Calls(name string) int {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.calls[name]
}

func (mock *quizServiceMock) StartSession(ctx context.Context, input quiz.StartSessionInput) (*quiz.SessionView, error) {
	if mock.StartSessionFunc == nil {
		panic("quizServiceMock.StartSessionFunc: method is nil but quizService.StartSession was just called")
	}
	mock.record("StartSession")
	return mock.StartSessionFunc(ctx, input)
}

func (mock *quizServiceMock) CurrentCard(ctx context.Context, sessionID uuid.UUID) (*quiz.Prompt, error) {
	if mock.CurrentCardFunc == nil {
		panic("quizServiceMock.CurrentCardFunc: method is nil but quizService.CurrentCard was just called")
	}
	mock.record("CurrentCard")
	return mock.CurrentCardFunc(ctx, sessionID)
}

func (mock *quizServiceMock) PauseSession(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error) {
	if mock.PauseSessionFunc == nil {
		panic("quizServiceMock.PauseSessionFunc: method is nil but quizService.PauseSession was just called")
	}
	mock.record("PauseSession")
	return mock.PauseSessionFunc(ctx, sessionID)
}

func (mock *quizServiceMock) ResumeSession(ctx context.Context, sessionID uuid.UUID) (*quiz.SessionView, error) {
	if mock.ResumeSessionFunc == nil {
		panic("quizServiceMock.ResumeSessionFunc: method is nil but quizService.ResumeSession was just called")
	}
	mock.record("ResumeSession")
	return mock.ResumeSessionFunc(ctx, sessionID)
}

func (mock *quizServiceMock) ChangeMode(ctx context.Context, input quiz.ChangeModeInput) (*quiz.SessionView, error) {
	if mock.ChangeModeFunc == nil {
		panic("quizServiceMock.ChangeModeFunc: method is nil but quizService.ChangeMode was just called")
	}
	mock.record("ChangeMode")
	return mock.ChangeModeFunc(ctx, input)
}

func (mock *quizServiceMock) FinishSession(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error) {
	if mock.FinishSessionFunc == nil {
		panic("quizServiceMock.FinishSessionFunc: method is nil but quizService.FinishSession was just called")
	}
	mock.record("FinishSession")
	return mock.FinishSessionFunc(ctx, sessionID)
}

func (mock *quizServiceMock) Answer(ctx context.Context, input quiz.AnswerInput) (*quiz.AnswerResult, error) {
	if mock.AnswerFunc == nil {
		panic("quizServiceMock.AnswerFunc: method is nil but quizService.Answer was just called")
	}
	mock.record("Answer")
	return mock.AnswerFunc(ctx, input)
}

func (mock *quizServiceMock) Skip(ctx context.Context, sessionID uuid.UUID) (*quiz.SkipResult, error) {
	if mock.SkipFunc == nil {
		panic("quizServiceMock.SkipFunc: method is nil but quizService.Skip was just called")
	}
	mock.record("Skip")
	return mock.SkipFunc(ctx, sessionID)
}

func (mock *quizServiceMock) GetResults(ctx context.Context, sessionID uuid.UUID) (*quiz.SessionResults, error) {
	if mock.GetResultsFunc == nil {
		panic("quizServiceMock.GetResultsFunc: method is nil but quizService.GetResults was just called")
	}
	mock.record("GetResults")
	return mock.GetResultsFunc(ctx, sessionID)
}

func (mock *quizServiceMock) ListSessions(ctx context.Context, input quiz.ListSessionsInput) (*quiz.SessionList, error) {
	if mock.ListSessionsFunc == nil {
		panic("quizServiceMock.ListSessionsFunc: method is nil but quizService.ListSessions was just called")
	}
	mock.record("ListSessions")
	return mock.ListSessionsFunc(ctx, input)
}

func (mock *quizServiceMock) GetDeckPerformance(ctx context.Context, deckID uuid.UUID) (*domain.DeckPerformance, error) {
	if mock.GetDeckPerformanceFunc == nil {
		panic("quizServiceMock.GetDeckPerformanceFunc: method is nil but quizService.GetDeckPerformance was just called")
	}
	mock.record("GetDeckPerformance")
	return mock.GetDeckPerformanceFunc(ctx, deckID)
}
