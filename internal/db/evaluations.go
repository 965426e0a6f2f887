package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/interview-pilot/internal/types"
)

// SaveEvaluation inserts a candidate evaluation. The generated ID and
// creation time are written back to eval.
func (db *DB) SaveEvaluation(ctx context.Context, eval *types.Evaluation) error {
	planJSON, err := json.Marshal(eval.Plan)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation plan: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO interview_evaluations
		 (user_id, language, role_title, candidate_name, decision, total_score, plan)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		eval.UserID, string(eval.Language), eval.RoleTitle, eval.CandidateName,
		eval.Decision, eval.TotalScore, planJSON,
	).Scan(&eval.ID, &eval.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}
	return nil
}

// ListEvaluations returns the user's evaluations newest first.
func (db *DB) ListEvaluations(ctx context.Context, userID uuid.UUID) ([]types.Evaluation, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, language, role_title, candidate_name, decision,
		        total_score, plan, created_at
		 FROM interview_evaluations
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	var evals []types.Evaluation
	for rows.Next() {
		var e types.Evaluation
		var lang string
		var planJSON []byte
		if err := rows.Scan(&e.ID, &e.UserID, &lang, &e.RoleTitle, &e.CandidateName,
			&e.Decision, &e.TotalScore, &planJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		e.Language = types.Language(lang)
		if len(planJSON) > 0 {
			var plan types.InterviewPlan
			if err := json.Unmarshal(planJSON, &plan); err == nil {
				e.Plan = &plan
			}
		}
		evals = append(evals, e)
	}
	return evals, rows.Err()
}

// DeleteEvaluation removes one of the user's evaluations. Returns false when
// no matching row exists.
func (db *DB) DeleteEvaluation(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM interview_evaluations WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete evaluation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
