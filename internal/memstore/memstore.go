// Package memstore is the in-process fallback store used when no
// DATABASE_URL is configured (demo mode). Contents do not survive a restart
// and are not shared between instances.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-pilot/internal/types"
)

// Store holds all demo-mode data behind one mutex. Operations take a
// context for interface compatibility but never block.
type Store struct {
	mu    sync.Mutex
	users []types.UserAccount
	evals []types.Evaluation
	plans []types.StoredPlan
	now   func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{now: time.Now}
}

// CreateUser inserts a new user and returns its ID.
func (s *Store) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return uuid.Nil, fmt.Errorf("failed to create user: email taken")
		}
	}

	now := s.now().UTC()
	u := types.UserAccount{
		User: types.User{
			ID:        uuid.New(),
			Name:      name,
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: passwordHash,
	}
	s.users = append(s.users, u)
	return u.ID, nil
}

// GetUser retrieves a user by ID. Returns nil without error when not found.
func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*types.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// GetUserByEmail retrieves a user by email. Returns nil without error when
// not found.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*types.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// CheckEmailExists reports whether the email is already registered.
func (s *Store) CheckEmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Email == email {
			return true, nil
		}
	}
	return false, nil
}

// UpdatePassword replaces a user's password hash.
func (s *Store) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].PasswordHash = passwordHash
			s.users[i].UpdatedAt = s.now().UTC()
			return nil
		}
	}
	return fmt.Errorf("user not found: %s", id)
}

// SetDeletionSchedule persists both deletion timestamps as RFC3339 strings.
func (s *Store) SetDeletionSchedule(_ context.Context, id uuid.UUID, requestedAt, scheduledFor time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].DeletionRequestedAt = requestedAt.Format(time.RFC3339)
			s.users[i].DeletionScheduledFor = scheduledFor.Format(time.RFC3339)
			s.users[i].UpdatedAt = s.now().UTC()
			return nil
		}
	}
	return fmt.Errorf("user not found: %s", id)
}

// ClearDeletionSchedule removes both deletion timestamps.
func (s *Store) ClearDeletionSchedule(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].DeletionRequestedAt = ""
			s.users[i].DeletionScheduledFor = ""
			s.users[i].UpdatedAt = s.now().UTC()
			return nil
		}
	}
	return fmt.Errorf("user not found: %s", id)
}

// ListUsers returns one page of all users in insertion order. Pages are
// 1-based.
func (s *Store) ListUsers(_ context.Context, page, perPage int) ([]types.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(s.users) {
		return nil, nil
	}
	end := start + perPage
	if end > len(s.users) {
		end = len(s.users)
	}

	out := make([]types.UserAccount, end-start)
	copy(out, s.users[start:end])
	return out, nil
}

// HardDeleteUser permanently removes the user together with their plans and
// evaluations.
func (s *Store) HardDeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.users {
		if s.users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("user not found: %s", id)
	}
	s.users = append(s.users[:idx], s.users[idx+1:]...)

	kept := s.evals[:0]
	for _, e := range s.evals {
		if e.UserID != id {
			kept = append(kept, e)
		}
	}
	s.evals = kept

	keptPlans := s.plans[:0]
	for _, p := range s.plans {
		if p.UserID != id {
			keptPlans = append(keptPlans, p)
		}
	}
	s.plans = keptPlans

	return nil
}

// SaveEvaluation appends a candidate evaluation, assigning ID and creation
// time.
func (s *Store) SaveEvaluation(_ context.Context, eval *types.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	eval.ID = uuid.New()
	eval.CreatedAt = s.now().UTC()
	s.evals = append(s.evals, *eval)
	return nil
}

// ListEvaluations returns the user's evaluations newest first.
func (s *Store) ListEvaluations(_ context.Context, userID uuid.UUID) ([]types.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []types.Evaluation
	for _, e := range s.evals {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteEvaluation removes one of the user's evaluations. Returns false when
// no matching row exists.
func (s *Store) DeleteEvaluation(_ context.Context, userID, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.evals {
		if e.ID == id && e.UserID == userID {
			s.evals = append(s.evals[:i], s.evals[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// SavePlan appends a generated interview plan, assigning ID and creation
// time.
func (s *Store) SavePlan(_ context.Context, plan *types.StoredPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan.ID = uuid.New()
	plan.CreatedAt = s.now().UTC()
	s.plans = append(s.plans, *plan)
	return nil
}

// ListPlans returns the user's saved plans newest first.
func (s *Store) ListPlans(_ context.Context, userID uuid.UUID) ([]types.StoredPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []types.StoredPlan
	for _, p := range s.plans {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
