package quiz

import (
	"github.com/google/uuid"
	"github.com/heartmarshall/brainq-backend/internal/domain"
)

const maxListLimit = 100

// StartSessionInput holds the parameters for starting a quiz session.
type StartSessionInput struct {
	DeckID       uuid.UUID
	Mode         domain.QuizMode
	AdaptiveMode bool
	SRSEnabled   bool
	TimePerCard  *int
}

// Validate checks all fields and collects all errors. An invalid mode is
// reported as domain.ErrInvalidMode rather than a field error.
func (i *StartSessionInput) Validate(maxTimePerCard int) error {
	if !i.Mode.IsValid() {
		return domain.ErrInvalidMode
	}

	var errs []domain.FieldError

	if i.DeckID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "deck_id", Message: "required"})
	}
	errs = append(errs, validateTimePerCard(i.Mode, i.TimePerCard, maxTimePerCard)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ChangeModeInput holds the parameters for switching the mode of a session.
// TimePerCard only applies when switching to timed mode.
type ChangeModeInput struct {
	SessionID   uuid.UUID
	Mode        domain.QuizMode
	TimePerCard *int
}

// Validate checks all fields and collects all errors.
func (i *ChangeModeInput) Validate(maxTimePerCard int) error {
	if !i.Mode.IsValid() {
		return domain.ErrInvalidMode
	}

	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}
	errs = append(errs, validateTimePerCard(i.Mode, i.TimePerCard, maxTimePerCard)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AnswerInput holds a submitted answer for the current card. CardID is
// optional; when set it names the card the answer is meant for, so a resent
// answer for an already answered card is not applied to the next one.
type AnswerInput struct {
	SessionID    uuid.UUID
	CardID       *uuid.UUID
	Answer       string
	ResponseTime *float64 // seconds
}

// Validate checks all fields and collects all errors.
func (i *AnswerInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}
	if i.CardID != nil && *i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "must not be empty"})
	}
	if i.ResponseTime != nil && *i.ResponseTime < 0 {
		errs = append(errs, domain.FieldError{Field: "response_time", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListSessionsInput holds the parameters for the session history.
type ListSessionsInput struct {
	DeckID *uuid.UUID
	Status *domain.SessionState
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i *ListSessionsInput) Validate() error {
	var errs []domain.FieldError

	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be active, paused or finished"})
	}
	if i.Limit < 0 || i.Limit > maxListLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 100"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateTimePerCard(mode domain.QuizMode, timePerCard *int, maxTimePerCard int) []domain.FieldError {
	if timePerCard == nil || mode != domain.QuizModeTimed {
		return nil
	}
	if *timePerCard <= 0 {
		return []domain.FieldError{{Field: "time_per_card", Message: "must be positive"}}
	}
	if maxTimePerCard > 0 && *timePerCard > maxTimePerCard {
		return []domain.FieldError{{Field: "time_per_card", Message: "exceeds the maximum"}}
	}
	return nil
}
