package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-pilot/internal/types"
)

// ---------------------------------------------------------------------
// Candidate Analysis Handlers
// ---------------------------------------------------------------------

func (s *Server) handleAnalyzeCandidate(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.CandidateText) == "" {
		s.errorResponse(w, http.StatusBadRequest, "candidateText is required")
		return
	}

	profile, err := s.analyzer.AnalyzeCandidate(r.Context(), req.CandidateText, req.Language)
	if err != nil {
		s.logger.Error("candidate analysis failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Candidate analysis failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"candidateProfile": profile})
}
