package server

import (
	"net/http"
	"time"

	"github.com/jonathan/interview-pilot/internal/deletion"
	"github.com/jonathan/interview-pilot/internal/server/middleware"
	"github.com/jonathan/interview-pilot/internal/types"
)

// meResponse is the authenticated user's profile with their current
// deletion state.
type meResponse struct {
	User     *types.User    `json:"user"`
	Deletion deletion.State `json:"deletion"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	account, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if account == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	state := deletion.StateOf(deletion.Account{
		ID:                   account.ID.String(),
		Email:                account.Email,
		DeletionRequestedAt:  account.DeletionRequestedAt,
		DeletionScheduledFor: account.DeletionScheduledFor,
	}, time.Now().UTC())

	user := account.User
	s.jsonResponse(w, http.StatusOK, meResponse{User: &user, Deletion: state})
}
