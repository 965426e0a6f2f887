// Package server provides the HTTP REST API for the interview pilot
// service.
package server

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-pilot/internal/types"
)

// Store is the persistence surface the server depends on. Both the Postgres
// store and the in-memory demo store implement it.
type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*types.UserAccount, error)
	GetUserByEmail(ctx context.Context, email string) (*types.UserAccount, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	SetDeletionSchedule(ctx context.Context, id uuid.UUID, requestedAt, scheduledFor time.Time) error
	ClearDeletionSchedule(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context, page, perPage int) ([]types.UserAccount, error)
	HardDeleteUser(ctx context.Context, id uuid.UUID) error

	SaveEvaluation(ctx context.Context, eval *types.Evaluation) error
	ListEvaluations(ctx context.Context, userID uuid.UUID) ([]types.Evaluation, error)
	DeleteEvaluation(ctx context.Context, userID, id uuid.UUID) (bool, error)

	SavePlan(ctx context.Context, plan *types.StoredPlan) error
	ListPlans(ctx context.Context, userID uuid.UUID) ([]types.StoredPlan, error)
}
