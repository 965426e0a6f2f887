package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-pilot/internal/types"
)

// ---------------------------------------------------------------------
// Role Analysis Handlers
// ---------------------------------------------------------------------

func (s *Server) handleAnalyzeRole(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	description := strings.TrimSpace(req.JobDescription)
	sourceURL := strings.TrimSpace(req.SourceURL)
	if (description == "") == (sourceURL == "") {
		s.errorResponse(w, http.StatusBadRequest, "Exactly one of jobDescription or sourceUrl is required")
		return
	}

	if sourceURL != "" {
		fetched, err := s.fetcher.JobPosting(r.Context(), sourceURL)
		if err != nil {
			s.logger.Warn("job posting fetch failed",
				zap.String("url", sourceURL),
				zap.Error(err))
			s.errorResponse(w, http.StatusBadRequest, "Failed to fetch job posting: "+err.Error())
			return
		}
		description = fetched
	}

	profile, err := s.analyzer.AnalyzeRole(r.Context(), description, req.Language)
	if err != nil {
		s.logger.Error("role analysis failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Role analysis failed: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"roleProfile": profile})
}
