package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/interview-pilot/internal/server/middleware"
	"github.com/jonathan/interview-pilot/internal/types"
)

// ---------------------------------------------------------------------
// Interview Plan Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RoleProfile == nil {
		s.errorResponse(w, http.StatusBadRequest, "roleProfile is required")
		return
	}

	plan, err := s.generator.GeneratePlan(r.Context(), &req)
	if err != nil {
		s.logger.Error("plan generation failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Plan generation failed: "+err.Error())
		return
	}

	stored := &types.StoredPlan{
		UserID:    userID,
		Language:  plan.Language,
		RoleTitle: plan.RoleProfile.Title,
		Plan:      plan,
	}
	if err := s.store.SavePlan(r.Context(), stored); err != nil {
		// The plan itself is still useful; persistence failure is logged
		// and the response degrades to an unsaved plan.
		s.logger.Warn("failed to save generated plan",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"plan": plan})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	plans, err := s.store.ListPlans(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if plans == nil {
		plans = []types.StoredPlan{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"plans": plans})
}
