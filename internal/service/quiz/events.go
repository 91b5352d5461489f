package quiz

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/brainq-backend/internal/domain"
)

// publishFinished notifies collaborators that a session became finished.
// It runs after commit; a failed delivery is logged and otherwise ignored.
func (s *Service) publishFinished(ctx context.Context, session *domain.QuizSession) {
	event := domain.NewSessionFinishedEvent(session)
	if err := s.events.PublishSessionFinished(ctx, event); err != nil {
		s.log.WarnContext(ctx, "publish session finished event",
			slog.String("session_id", session.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
