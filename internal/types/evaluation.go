package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-pilot/internal/ranking"
)

// Evaluation is a stored candidate evaluation: a completed interview plan
// plus the interviewer's verdict.
type Evaluation struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	Language      Language       `json:"language"`
	RoleTitle     string         `json:"role_title,omitempty"`
	CandidateName string         `json:"candidate_name,omitempty"`
	Decision      string         `json:"decision,omitempty"`
	TotalScore    *float64       `json:"total_score,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	Plan          *InterviewPlan `json:"plan,omitempty"`
}

// Summary converts the evaluation to the aggregator's read-only view.
func (e *Evaluation) Summary() ranking.Summary {
	return ranking.Summary{
		ID:            e.ID.String(),
		CreatedAt:     e.CreatedAt,
		RoleTitle:     e.RoleTitle,
		CandidateName: e.CandidateName,
		Decision:      e.Decision,
		TotalScore:    e.TotalScore,
	}
}

// Summaries converts a slice of evaluations, preserving order.
func Summaries(evals []Evaluation) []ranking.Summary {
	out := make([]ranking.Summary, len(evals))
	for i := range evals {
		out[i] = evals[i].Summary()
	}
	return out
}

// SaveEvaluationRequest is the request body for saving an evaluation.
type SaveEvaluationRequest struct {
	Language      string         `json:"language,omitempty"`
	RoleTitle     string         `json:"roleTitle,omitempty"`
	CandidateName string         `json:"candidateName,omitempty"`
	Decision      string         `json:"decision,omitempty"`
	TotalScore    *float64       `json:"totalScore,omitempty"`
	Plan          *InterviewPlan `json:"plan"`
}

// StoredPlan is a saved interview plan row.
type StoredPlan struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Language  Language       `json:"language"`
	RoleTitle string         `json:"role_title,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Plan      *InterviewPlan `json:"plan"`
}
