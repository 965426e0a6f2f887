package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/interview-pilot/internal/types"
)

// SavePlan inserts a generated interview plan. The generated ID and creation
// time are written back to plan.
func (db *DB) SavePlan(ctx context.Context, plan *types.StoredPlan) error {
	planJSON, err := json.Marshal(plan.Plan)
	if err != nil {
		return fmt.Errorf("failed to marshal interview plan: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO interview_plans (user_id, language, role_title, plan)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		plan.UserID, string(plan.Language), plan.RoleTitle, planJSON,
	).Scan(&plan.ID, &plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save interview plan: %w", err)
	}
	return nil
}

// ListPlans returns the user's saved plans newest first.
func (db *DB) ListPlans(ctx context.Context, userID uuid.UUID) ([]types.StoredPlan, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, language, role_title, plan, created_at
		 FROM interview_plans
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview plans: %w", err)
	}
	defer rows.Close()

	var plans []types.StoredPlan
	for rows.Next() {
		var p types.StoredPlan
		var lang string
		var planJSON []byte
		if err := rows.Scan(&p.ID, &p.UserID, &lang, &p.RoleTitle, &planJSON, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interview plan: %w", err)
		}
		p.Language = types.Language(lang)
		if len(planJSON) > 0 {
			var plan types.InterviewPlan
			if err := json.Unmarshal(planJSON, &plan); err == nil {
				p.Plan = &plan
			}
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
