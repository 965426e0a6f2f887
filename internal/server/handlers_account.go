package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/interview-pilot/internal/server/middleware"
)

// ---------------------------------------------------------------------
// Account Deletion Handlers
//
// The deletion manager resolves the bearer token itself, so these
// routes sit outside the auth middleware.
// ---------------------------------------------------------------------

func (s *Server) handleScheduleDeletion(w http.ResponseWriter, r *http.Request) {
	result, err := s.deletionManager.ScheduleDeletion(r.Context(), middleware.BearerToken(r))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":         true,
		"scheduledFor":    result.ScheduledFor,
		"gracePeriodDays": result.GracePeriodDays,
		"email":           result.Email,
	})
}

func (s *Server) handleCancelDeletion(w http.ResponseWriter, r *http.Request) {
	if err := s.deletionManager.CancelDeletion(r.Context(), middleware.BearerToken(r)); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// handleFinalizeDeletions runs the sweep. The trigger authenticates with
// the operator secret, sent either as the x-cron-secret header or the
// secret query parameter.
func (s *Server) handleFinalizeDeletions(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("x-cron-secret")
	if secret == "" {
		secret = r.URL.Query().Get("secret")
	}

	report, err := s.deletionManager.FinalizeDue(r.Context(), secret)
	if err != nil {
		s.logger.Warn("deletion sweep rejected", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}
