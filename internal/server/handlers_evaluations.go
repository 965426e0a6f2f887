package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-pilot/internal/ranking"
	"github.com/jonathan/interview-pilot/internal/server/middleware"
	"github.com/jonathan/interview-pilot/internal/types"
)

// ---------------------------------------------------------------------
// Evaluation Handlers
// ---------------------------------------------------------------------

func (s *Server) handleSaveEvaluation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.SaveEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	eval := &types.Evaluation{
		UserID:        userID,
		Language:      types.NormalizeLanguage(req.Language),
		RoleTitle:     req.RoleTitle,
		CandidateName: req.CandidateName,
		Decision:      req.Decision,
		TotalScore:    req.TotalScore,
		Plan:          req.Plan,
	}
	if err := s.store.SaveEvaluation(r.Context(), eval); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{"evaluation": eval})
}

func (s *Server) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	evals, err := s.store.ListEvaluations(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if evals == nil {
		evals = []types.Evaluation{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"evaluations": evals})
}

func (s *Server) handleDeleteEvaluation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	evalID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid evaluation ID")
		return
	}

	deleted, err := s.store.DeleteEvaluation(r.Context(), userID, evalID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Evaluation not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

type rankRequest struct {
	Language string `json:"language,omitempty"`
}

// handleRankEvaluations asks the LLM to rank the caller's evaluations.
// A malformed model response degrades to zero rankings rather than an
// error; the caller falls back to its default ordering.
func (s *Server) handleRankEvaluations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req rankRequest
	if r.Body != nil {
		// Body is optional; a bare POST ranks with the default language.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	language := req.Language
	if language == "" {
		language = "ja"
	}

	evals, err := s.store.ListEvaluations(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	entries, err := s.ranker.Rank(r.Context(), types.Summaries(evals), language)
	if err != nil {
		s.logger.Warn("ranking failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		entries = []ranking.Entry{}
	}
	if entries == nil {
		entries = []ranking.Entry{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"rankings": entries})
}

// rankedResponse is the merged display view: all evaluations in display
// order plus the annotated top picks.
type rankedResponse struct {
	Evaluations []ranking.Summary `json:"evaluations"`
	Top         []ranking.Ranked  `json:"top"`
}

func (s *Server) handleRankedEvaluations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	order := ranking.ByRecency
	switch r.URL.Query().Get("order") {
	case "", "recency":
	case "score":
		order = ranking.ByScore
	default:
		s.errorResponse(w, http.StatusBadRequest, "order must be recency or score")
		return
	}

	top := ranking.DefaultTopCount
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		top = n
	}

	evals, err := s.store.ListEvaluations(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	summaries := types.Summaries(evals)

	entries, err := s.ranker.Rank(r.Context(), summaries, r.URL.Query().Get("language"))
	if err != nil {
		s.logger.Warn("ranking failed, falling back to default order",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		entries = nil
	}
	lookup := ranking.BuildLookup(entries)

	s.jsonResponse(w, http.StatusOK, rankedResponse{
		Evaluations: ranking.ComputeDisplayOrder(summaries, lookup, order),
		Top:         ranking.TopN(summaries, lookup, top),
	})
}
