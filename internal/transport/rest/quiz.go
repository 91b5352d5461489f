package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/brainq-backend/internal/domain"
	"github.com/heartmarshall/brainq-backend/internal/service/quiz"
)

// quizService defines the quiz operations exposed over REST.
type quizService interface {
	StartSession(ctx context.Context, input quiz.StartSessionInput) (*quiz.SessionView, error)
	CurrentCard(ctx context.Context, sessionID uuid.UUID) (*quiz.Prompt, error)
	PauseSession(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error)
	ResumeSession(ctx context.Context, sessionID uuid.UUID) (*quiz.SessionView, error)
	ChangeMode(ctx context.Context, input quiz.ChangeModeInput) (*quiz.SessionView, error)
	FinishSession(ctx context.Context, sessionID uuid.UUID) (*domain.QuizSession, error)
	Answer(ctx context.Context, input quiz.AnswerInput) (*quiz.AnswerResult, error)
	Skip(ctx context.Context, sessionID uuid.UUID) (*quiz.SkipResult, error)
	GetResults(ctx context.Context, sessionID uuid.UUID) (*quiz.SessionResults, error)
	ListSessions(ctx context.Context, input quiz.ListSessionsInput) (*quiz.SessionList, error)
	GetDeckPerformance(ctx context.Context, deckID uuid.UUID) (*domain.DeckPerformance, error)
}

// SessionDefaults fills the fields a start request leaves out.
type SessionDefaults struct {
	Mode         domain.QuizMode
	AdaptiveMode bool
	SRSEnabled   bool
}

// QuizHandler serves the quiz REST endpoints.
type QuizHandler struct {
	svc      quizService
	defaults SessionDefaults
	log      *slog.Logger
}

// NewQuizHandler creates a QuizHandler.
func NewQuizHandler(svc quizService, defaults SessionDefaults, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{svc: svc, defaults: defaults, log: logger.With("handler", "quiz")}
}

// Register mounts the quiz routes on mux, each wrapped by protect.
func (h *QuizHandler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	routes := []struct {
		pattern string
		fn      http.HandlerFunc
	}{
		{"POST /api/decks/{deckID}/quiz", h.StartSession},
		{"GET /api/decks/{deckID}/performance", h.DeckPerformance},
		{"GET /api/quiz", h.ListSessions},
		{"GET /api/quiz/{sessionID}/current", h.CurrentCard},
		{"POST /api/quiz/{sessionID}/answer", h.Answer},
		{"POST /api/quiz/{sessionID}/skip", h.Skip},
		{"POST /api/quiz/{sessionID}/pause", h.Pause},
		{"POST /api/quiz/{sessionID}/resume", h.Resume},
		{"POST /api/quiz/{sessionID}/mode", h.ChangeMode},
		{"POST /api/quiz/{sessionID}/finish", h.Finish},
		{"GET /api/quiz/{sessionID}/results", h.Results},
	}
	for _, rt := range routes {
		mux.Handle(rt.pattern, protect(rt.fn))
	}
}

// StartSession handles POST /api/decks/{deckID}/quiz. The body is optional.
func (h *QuizHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	var req startSessionRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	input := quiz.StartSessionInput{
		DeckID:       deckID,
		Mode:         h.defaults.Mode,
		AdaptiveMode: h.defaults.AdaptiveMode,
		SRSEnabled:   h.defaults.SRSEnabled,
		TimePerCard:  req.TimePerCard,
	}
	if req.Mode != nil {
		input.Mode = parseMode(*req.Mode)
	}
	if req.AdaptiveMode != nil {
		input.AdaptiveMode = *req.AdaptiveMode
	}
	if req.SRSEnabled != nil {
		input.SRSEnabled = *req.SRSEnabled
	}

	view, err := h.svc.StartSession(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionViewResponse(view))
}

// CurrentCard handles GET /api/quiz/{sessionID}/current.
func (h *QuizHandler) CurrentCard(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	prompt, err := h.svc.CurrentCard(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPromptResponse(prompt))
}

// Answer handles POST /api/quiz/{sessionID}/answer.
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	var req answerRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	res, err := h.svc.Answer(r.Context(), quiz.AnswerInput{
		SessionID:    sessionID,
		CardID:       req.CardID,
		Answer:       req.Answer,
		ResponseTime: req.ResponseTime,
	})
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{
		Correct:       res.Correct,
		CorrectAnswer: res.CorrectAnswer,
		Accuracy:      res.Accuracy,
		Finished:      res.Finished,
		Next:          toPromptResponse(res.Next),
		TimePerCard:   res.TimePerCard,
	})
}

// Skip handles POST /api/quiz/{sessionID}/skip.
func (h *QuizHandler) Skip(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	res, err := h.svc.Skip(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, skipResponse{
		Finished: res.Finished,
		Next:     toPromptResponse(res.Next),
	})
}

// Pause handles POST /api/quiz/{sessionID}/pause.
func (h *QuizHandler) Pause(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	session, err := h.svc.PauseSession(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// Resume handles POST /api/quiz/{sessionID}/resume.
func (h *QuizHandler) Resume(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	view, err := h.svc.ResumeSession(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionViewResponse(view))
}

// ChangeMode handles POST /api/quiz/{sessionID}/mode.
func (h *QuizHandler) ChangeMode(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	var req changeModeRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	view, err := h.svc.ChangeMode(r.Context(), quiz.ChangeModeInput{
		SessionID:   sessionID,
		Mode:        parseMode(req.Mode),
		TimePerCard: req.TimePerCard,
	})
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionViewResponse(view))
}

// Finish handles POST /api/quiz/{sessionID}/finish.
func (h *QuizHandler) Finish(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	session, err := h.svc.FinishSession(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// Results handles GET /api/quiz/{sessionID}/results.
func (h *QuizHandler) Results(w http.ResponseWriter, r *http.Request) {
	sessionID, err := pathUUID(r, "sessionID")
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	res, err := h.svc.GetResults(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toResultsResponse(res))
}

// ListSessions handles GET /api/quiz?deck_id=&status=&limit=&offset=.
func (h *QuizHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	input, err := parseListQuery(r)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	list, err := h.svc.ListSessions(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	sessions := make([]sessionResponse, len(list.Sessions))
	for i, s := range list.Sessions {
		sessions[i] = toSessionResponse(s)
	}
	writeJSON(w, http.StatusOK, sessionListResponse{Sessions: sessions, Total: list.Total})
}

// DeckPerformance handles GET /api/decks/{deckID}/performance.
func (h *QuizHandler) DeckPerformance(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathUUID(r, "deckID")
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	perf, err := h.svc.GetDeckPerformance(r.Context(), deckID)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, deckPerformanceResponse{
		DeckID:     perf.DeckID,
		TotalCards: perf.TotalCards,
		DueCount:   perf.DueCount,
		NewCount:   perf.NewCount,
		Cards:      toPerformanceResponses(perf.Cards),
	})
}

func parseMode(raw string) domain.QuizMode {
	return domain.QuizMode(strings.ToLower(strings.TrimSpace(raw)))
}

func parseListQuery(r *http.Request) (quiz.ListSessionsInput, error) {
	q := r.URL.Query()
	var (
		input quiz.ListSessionsInput
		errs  []domain.FieldError
	)

	if raw := q.Get("deck_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "deck_id", Message: "must be a valid UUID"})
		} else {
			input.DeckID = &id
		}
	}
	if raw := q.Get("status"); raw != "" {
		state := domain.SessionState(strings.ToLower(raw))
		input.Status = &state
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &input.Limit}, {"offset", &input.Offset}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: p.name, Message: "must be an integer"})
			continue
		}
		*p.dst = n
	}

	if len(errs) > 0 {
		return input, domain.NewValidationErrors(errs)
	}
	return input, nil
}
