package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-pilot/internal/deletion"
	"github.com/jonathan/interview-pilot/internal/types"
)

// storeDirectory adapts the Store and JWTService to the deletion.Directory
// interface. Account IDs cross the boundary as strings.
type storeDirectory struct {
	store Store
	jwt   *JWTService
}

// NewDirectory creates a deletion.Directory backed by the given store and
// token service.
func NewDirectory(store Store, jwt *JWTService) deletion.Directory {
	return &storeDirectory{store: store, jwt: jwt}
}

func (d *storeDirectory) FindByToken(ctx context.Context, token string) (*deletion.Account, error) {
	claims, err := d.jwt.ValidateToken(token)
	if err != nil {
		// An unparseable token is an invalid credential, not a failure.
		return nil, nil
	}
	account, err := d.store.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", claims.UserID, err)
	}
	if account == nil {
		return nil, nil
	}
	mapped := toDirectoryAccount(*account)
	return &mapped, nil
}

func (d *storeDirectory) SetDeletionSchedule(ctx context.Context, id string, requestedAt, scheduledFor time.Time) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid account id %q: %w", id, err)
	}
	return d.store.SetDeletionSchedule(ctx, userID, requestedAt, scheduledFor)
}

func (d *storeDirectory) ClearDeletionSchedule(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid account id %q: %w", id, err)
	}
	return d.store.ClearDeletionSchedule(ctx, userID)
}

func (d *storeDirectory) ListAccounts(ctx context.Context, page, perPage int) ([]deletion.Account, error) {
	users, err := d.store.ListUsers(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	accounts := make([]deletion.Account, len(users))
	for i, u := range users {
		accounts[i] = toDirectoryAccount(u)
	}
	return accounts, nil
}

func (d *storeDirectory) HardDelete(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid account id %q: %w", id, err)
	}
	return d.store.HardDeleteUser(ctx, userID)
}

func toDirectoryAccount(u types.UserAccount) deletion.Account {
	return deletion.Account{
		ID:                   u.ID.String(),
		Email:                u.Email,
		DeletionRequestedAt:  u.DeletionRequestedAt,
		DeletionScheduledFor: u.DeletionScheduledFor,
	}
}
