package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-pilot/internal/types"
)

const userColumns = `id, name, email, password_hash,
	deletion_requested_at, deletion_scheduled_for, created_at, updated_at`

func scanUser(row pgx.Row) (*types.UserAccount, error) {
	var u types.UserAccount
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.DeletionRequestedAt, &u.DeletionScheduledFor, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user and returns its ID.
func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		name, email, passwordHash,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns nil without error when not found.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*types.UserAccount, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email. Returns nil without error when
// not found.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*types.UserAccount, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// CheckEmailExists reports whether the email is already registered.
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdatePassword replaces a user's password hash.
func (db *DB) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// SetDeletionSchedule persists both deletion timestamps as RFC3339 strings.
func (db *DB) SetDeletionSchedule(ctx context.Context, id uuid.UUID, requestedAt, scheduledFor time.Time) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users
		 SET deletion_requested_at = $1, deletion_scheduled_for = $2, updated_at = NOW()
		 WHERE id = $3`,
		requestedAt.Format(time.RFC3339), scheduledFor.Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set deletion schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// ClearDeletionSchedule removes both deletion timestamps. Clearing a user
// with no pending deletion is a no-op.
func (db *DB) ClearDeletionSchedule(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users
		 SET deletion_requested_at = '', deletion_scheduled_for = '', updated_at = NOW()
		 WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to clear deletion schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// ListUsers returns one page of all users ordered by creation time then ID,
// so pages stay stable across calls. Pages are 1-based.
func (db *DB) ListUsers(ctx context.Context, page, perPage int) ([]types.UserAccount, error) {
	if page < 1 {
		page = 1
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 ORDER BY created_at, id
		 LIMIT $1 OFFSET $2`,
		perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []types.UserAccount
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// HardDeleteUser permanently removes the user and, via cascade, their plans
// and evaluations.
func (db *DB) HardDeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}
