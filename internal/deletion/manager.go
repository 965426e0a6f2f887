package deletion

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DefaultGracePeriodDays is the grace period applied when none is configured.
const DefaultGracePeriodDays = 30

// sweepPageSize is how many accounts are fetched per directory page during
// a sweep. The directory offers no filter on deletion metadata, so due
// accounts are selected caller-side page by page.
const sweepPageSize = 1000

var (
	// ErrUnauthorized means the identity proof (user token or operator
	// secret) is missing or does not resolve to a valid caller.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotConfigured means a required operational setting is absent.
	// It is deliberately distinct from ErrUnauthorized so a missing
	// operator secret is never reported as a wrong one.
	ErrNotConfigured = errors.New("not configured")
)

// Account is the directory's view of a user as far as deletion is concerned.
// The two timestamp fields hold RFC3339 strings, empty when absent, exactly
// as stored in the account metadata.
type Account struct {
	ID                   string
	Email                string
	DeletionRequestedAt  string
	DeletionScheduledFor string
}

// Directory is the external user-record store consumed by the Manager.
type Directory interface {
	// FindByToken resolves an access token to the single account it
	// belongs to. Returns nil without error when the token is invalid.
	FindByToken(ctx context.Context, token string) (*Account, error)
	// SetDeletionSchedule persists both deletion timestamps.
	SetDeletionSchedule(ctx context.Context, id string, requestedAt, scheduledFor time.Time) error
	// ClearDeletionSchedule removes both deletion timestamps. Clearing an
	// account with no pending deletion is a no-op.
	ClearDeletionSchedule(ctx context.Context, id string) error
	// ListAccounts returns one page of the whole user population.
	// Pages are 1-based; a short page signals the end of the population.
	ListAccounts(ctx context.Context, page, perPage int) ([]Account, error)
	// HardDelete permanently destroys the account record.
	HardDelete(ctx context.Context, id string) error
}

// Template identifies a notification template.
type Template string

const (
	// TemplateScheduled is sent when a deletion has been scheduled.
	TemplateScheduled Template = "deletion_scheduled"
	// TemplateCompleted is sent after an account has been hard-deleted.
	TemplateCompleted Template = "deletion_completed"
)

// SendResult reports whether the mailer was configured and whether the
// message went out.
type SendResult struct {
	Configured bool `json:"configured"`
	Sent       bool `json:"sent"`
}

// Mailer is the best-effort notification side channel. Notification
// failures never fail the operation that triggered them.
type Mailer interface {
	Send(ctx context.Context, to string, template Template, params map[string]string) (SendResult, error)
}

// Config holds the manager's operational settings.
type Config struct {
	// GracePeriodDays is the delay between request and eligibility for
	// hard deletion. Values below 1 fall back to DefaultGracePeriodDays.
	GracePeriodDays int
	// CronSecret authenticates the finalize trigger. Empty means the
	// finalize endpoint is not configured.
	CronSecret string
}

// Manager drives the deletion lifecycle against a Directory and a Mailer.
type Manager struct {
	dir    Directory
	mailer Mailer
	logger *zap.Logger
	cfg    Config
	now    func() time.Time
}

// NewManager creates a Manager.
func NewManager(dir Directory, mailer Mailer, logger *zap.Logger, cfg Config) *Manager {
	if cfg.GracePeriodDays < 1 {
		cfg.GracePeriodDays = DefaultGracePeriodDays
	}
	return &Manager{
		dir:    dir,
		mailer: mailer,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// GracePeriodDays returns the configured grace period.
func (m *Manager) GracePeriodDays() int {
	return m.cfg.GracePeriodDays
}

// ScheduleResult is the acknowledgment returned by ScheduleDeletion.
type ScheduleResult struct {
	ScheduledFor    time.Time  `json:"scheduledFor"`
	GracePeriodDays int        `json:"gracePeriodDays"`
	Email           SendResult `json:"email"`
}

// ScheduleDeletion records a deletion request for the account the token
// resolves to. Scheduling while already scheduled re-issues the schedule
// with fresh timestamps, extending the grace period. The confirmation email
// is best-effort: the schedule is already durable when it is attempted.
func (m *Manager) ScheduleDeletion(ctx context.Context, token string) (*ScheduleResult, error) {
	account, err := m.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	requestedAt := m.now().UTC()
	scheduledFor := requestedAt.AddDate(0, 0, m.cfg.GracePeriodDays)

	if err := m.dir.SetDeletionSchedule(ctx, account.ID, requestedAt, scheduledFor); err != nil {
		return nil, fmt.Errorf("failed to schedule deletion for %s: %w", account.ID, err)
	}

	result := &ScheduleResult{
		ScheduledFor:    scheduledFor,
		GracePeriodDays: m.cfg.GracePeriodDays,
	}

	if account.Email != "" {
		sent, err := m.mailer.Send(ctx, account.Email, TemplateScheduled, map[string]string{
			"requested_at":      requestedAt.Format(time.RFC3339),
			"scheduled_for":     scheduledFor.Format(time.RFC3339),
			"grace_period_days": strconv.Itoa(m.cfg.GracePeriodDays),
		})
		if err != nil {
			m.logger.Warn("deletion scheduled email failed",
				zap.String("user_id", account.ID),
				zap.Error(err))
		} else {
			result.Email = sent
		}
	}

	m.logger.Info("account deletion scheduled",
		zap.String("user_id", account.ID),
		zap.Time("scheduled_for", scheduledFor))

	return result, nil
}

// CancelDeletion clears any pending deletion for the account the token
// resolves to. Cancelling when nothing is scheduled succeeds.
func (m *Manager) CancelDeletion(ctx context.Context, token string) error {
	account, err := m.resolve(ctx, token)
	if err != nil {
		return err
	}

	if err := m.dir.ClearDeletionSchedule(ctx, account.ID); err != nil {
		return fmt.Errorf("failed to cancel deletion for %s: %w", account.ID, err)
	}

	m.logger.Info("account deletion cancelled", zap.String("user_id", account.ID))
	return nil
}

func (m *Manager) resolve(ctx context.Context, token string) (*Account, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	account, err := m.dir.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	if account == nil {
		return nil, ErrUnauthorized
	}
	return account, nil
}

// SweepError records one failed step for one user during a sweep.
type SweepError struct {
	UserID string `json:"userId,omitempty"`
	Step   string `json:"step"`
	Error  string `json:"error"`
}

// Report is the aggregate result of one finalize sweep.
type Report struct {
	Success         bool         `json:"success"`
	GracePeriodDays int          `json:"gracePeriodDays"`
	ScannedUsers    int          `json:"scannedUsers"`
	DueUsers        int          `json:"dueUsers"`
	DeletedUsers    int          `json:"deletedUsers"`
	EmailSent       int          `json:"emailSent"`
	Errors          []SweepError `json:"errors"`
}

// FinalizeDue enumerates the whole user population page by page and
// hard-deletes every account whose grace period has elapsed. Per-user
// failures are collected and never abort the sweep; one bad record must not
// block deletion of the others. The sweep is idempotent: already-deleted
// accounts no longer appear in enumeration, so re-running after a partial
// failure only retries what is still due.
func (m *Manager) FinalizeDue(ctx context.Context, secret string) (*Report, error) {
	if m.cfg.CronSecret == "" {
		return nil, ErrNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(m.cfg.CronSecret)) != 1 {
		return nil, ErrUnauthorized
	}

	now := m.now().UTC()
	report := &Report{
		Success:         true,
		GracePeriodDays: m.cfg.GracePeriodDays,
		Errors:          []SweepError{},
	}

	for page := 1; ; page++ {
		accounts, err := m.dir.ListAccounts(ctx, page, sweepPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list users (page %d): %w", page, err)
		}

		report.ScannedUsers += len(accounts)

		for _, account := range accounts {
			state := StateOf(account, now)
			if state.Kind != StateDue {
				continue
			}
			report.DueUsers++

			if err := m.dir.HardDelete(ctx, account.ID); err != nil {
				m.logger.Error("hard delete failed",
					zap.String("user_id", account.ID),
					zap.Error(err))
				report.Errors = append(report.Errors, SweepError{
					UserID: account.ID,
					Step:   "deleteUser",
					Error:  err.Error(),
				})
				continue
			}
			report.DeletedUsers++

			if account.Email == "" {
				continue
			}
			sent, err := m.mailer.Send(ctx, account.Email, TemplateCompleted, map[string]string{
				"deleted_at": m.now().UTC().Format(time.RFC3339),
			})
			if err != nil {
				// The account is already gone; record and move on.
				report.Errors = append(report.Errors, SweepError{
					UserID: account.ID,
					Step:   "sendEmail",
					Error:  err.Error(),
				})
				continue
			}
			if sent.Configured && sent.Sent {
				report.EmailSent++
			}
		}

		if len(accounts) < sweepPageSize {
			break
		}
	}

	m.logger.Info("deletion sweep finished",
		zap.Int("scanned", report.ScannedUsers),
		zap.Int("due", report.DueUsers),
		zap.Int("deleted", report.DeletedUsers),
		zap.Int("errors", len(report.Errors)))

	return report, nil
}
