package deletion

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDirectory is an in-memory Directory with injectable failures.
type fakeDirectory struct {
	accounts    []*Account
	tokens      map[string]string // token -> account id
	setErr      error
	listErr     error
	deleteErr   map[string]error
	deleteCalls []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		tokens:    map[string]string{},
		deleteErr: map[string]error{},
	}
}

func (d *fakeDirectory) add(account Account, token string) {
	copied := account
	d.accounts = append(d.accounts, &copied)
	if token != "" {
		d.tokens[token] = account.ID
	}
}

func (d *fakeDirectory) find(id string) *Account {
	for _, a := range d.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (d *fakeDirectory) FindByToken(_ context.Context, token string) (*Account, error) {
	id, ok := d.tokens[token]
	if !ok {
		return nil, nil
	}
	account := d.find(id)
	if account == nil {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (d *fakeDirectory) SetDeletionSchedule(_ context.Context, id string, requestedAt, scheduledFor time.Time) error {
	if d.setErr != nil {
		return d.setErr
	}
	account := d.find(id)
	if account == nil {
		return fmt.Errorf("account not found: %s", id)
	}
	account.DeletionRequestedAt = requestedAt.Format(time.RFC3339)
	account.DeletionScheduledFor = scheduledFor.Format(time.RFC3339)
	return nil
}

func (d *fakeDirectory) ClearDeletionSchedule(_ context.Context, id string) error {
	account := d.find(id)
	if account == nil {
		return fmt.Errorf("account not found: %s", id)
	}
	account.DeletionRequestedAt = ""
	account.DeletionScheduledFor = ""
	return nil
}

func (d *fakeDirectory) ListAccounts(_ context.Context, page, perPage int) ([]Account, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	start := (page - 1) * perPage
	if start >= len(d.accounts) {
		return []Account{}, nil
	}
	end := start + perPage
	if end > len(d.accounts) {
		end = len(d.accounts)
	}
	out := make([]Account, 0, end-start)
	for _, a := range d.accounts[start:end] {
		out = append(out, *a)
	}
	return out, nil
}

func (d *fakeDirectory) HardDelete(_ context.Context, id string) error {
	d.deleteCalls = append(d.deleteCalls, id)
	if err := d.deleteErr[id]; err != nil {
		return err
	}
	for i, a := range d.accounts {
		if a.ID == id {
			d.accounts = append(d.accounts[:i], d.accounts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("account not found: %s", id)
}

// fakeMailer records sends and can fail on demand.
type fakeMailer struct {
	configured bool
	err        error
	sends      []Template
}

func (m *fakeMailer) Send(_ context.Context, _ string, template Template, _ map[string]string) (SendResult, error) {
	if m.err != nil {
		return SendResult{}, m.err
	}
	if !m.configured {
		return SendResult{}, nil
	}
	m.sends = append(m.sends, template)
	return SendResult{Configured: true, Sent: true}, nil
}

func newTestManager(dir *fakeDirectory, mailer *fakeMailer, cfg Config, now time.Time) *Manager {
	m := NewManager(dir, mailer, zap.NewNop(), cfg)
	m.now = func() time.Time { return now }
	return m
}

var testNow = time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)

func TestScheduleDeletion(t *testing.T) {
	t.Run("schedules now plus grace period", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(Account{ID: "u1", Email: "u1@example.com"}, "tok-1")
		mailer := &fakeMailer{configured: true}
		m := newTestManager(dir, mailer, Config{GracePeriodDays: 30}, testNow)

		result, err := m.ScheduleDeletion(context.Background(), "tok-1")
		require.NoError(t, err)
		assert.Equal(t, testNow.AddDate(0, 0, 30), result.ScheduledFor)
		assert.Equal(t, 30, result.GracePeriodDays)
		assert.True(t, result.Email.Sent)

		stored := dir.find("u1")
		assert.Equal(t, testNow.Format(time.RFC3339), stored.DeletionRequestedAt)
		assert.Equal(t, testNow.AddDate(0, 0, 30).Format(time.RFC3339), stored.DeletionScheduledFor)
		assert.Equal(t, []Template{TemplateScheduled}, mailer.sends)
	})

	t.Run("invalid token is unauthorized", func(t *testing.T) {
		dir := newFakeDirectory()
		m := newTestManager(dir, &fakeMailer{}, Config{}, testNow)

		_, err := m.ScheduleDeletion(context.Background(), "bogus")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("empty token is unauthorized", func(t *testing.T) {
		dir := newFakeDirectory()
		m := newTestManager(dir, &fakeMailer{}, Config{}, testNow)

		_, err := m.ScheduleDeletion(context.Background(), "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("email failure does not fail the request", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(Account{ID: "u1", Email: "u1@example.com"}, "tok-1")
		m := newTestManager(dir, &fakeMailer{err: fmt.Errorf("smtp down")}, Config{GracePeriodDays: 30}, testNow)

		result, err := m.ScheduleDeletion(context.Background(), "tok-1")
		require.NoError(t, err)
		assert.False(t, result.Email.Sent)
		assert.NotEmpty(t, dir.find("u1").DeletionScheduledFor)
	})

	t.Run("persistence failure fails the request", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(Account{ID: "u1"}, "tok-1")
		dir.setErr = fmt.Errorf("write refused")
		m := newTestManager(dir, &fakeMailer{}, Config{}, testNow)

		_, err := m.ScheduleDeletion(context.Background(), "tok-1")
		assert.Error(t, err)
	})

	t.Run("rescheduling extends the grace period", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(Account{ID: "u1"}, "tok-1")
		m := newTestManager(dir, &fakeMailer{}, Config{GracePeriodDays: 30}, testNow)

		first, err := m.ScheduleDeletion(context.Background(), "tok-1")
		require.NoError(t, err)

		m.now = func() time.Time { return testNow.AddDate(0, 0, 10) }
		second, err := m.ScheduleDeletion(context.Background(), "tok-1")
		require.NoError(t, err)

		assert.True(t, second.ScheduledFor.After(first.ScheduledFor))
	})

	t.Run("defaults grace period", func(t *testing.T) {
		m := NewManager(newFakeDirectory(), &fakeMailer{}, zap.NewNop(), Config{})
		assert.Equal(t, DefaultGracePeriodDays, m.GracePeriodDays())
	})
}

func TestCancelDeletion(t *testing.T) {
	t.Run("clears both timestamps", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(Account{
			ID:                   "u1",
			DeletionRequestedAt:  testNow.Format(time.RFC3339),
			DeletionScheduledFor: testNow.AddDate(0, 0, 30).Format(time.RFC3339),
		}, "tok-1")
		m := newTestManager(dir, &fakeMailer{}, Config{}, testNow)

		require.NoError(t, m.CancelDeletion(context.Background(), "tok-1"))

		stored := dir.find("u1")
		assert.Empty(t, stored.DeletionRequestedAt)
		assert.Empty(t, stored.DeletionScheduledFor)
	})

	t.Run("idempotent when nothing scheduled", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(Account{ID: "u1"}, "tok-1")
		m := newTestManager(dir, &fakeMailer{}, Config{}, testNow)

		require.NoError(t, m.CancelDeletion(context.Background(), "tok-1"))
		require.NoError(t, m.CancelDeletion(context.Background(), "tok-1"))
	})

	t.Run("invalid token is unauthorized", func(t *testing.T) {
		m := newTestManager(newFakeDirectory(), &fakeMailer{}, Config{}, testNow)
		assert.ErrorIs(t, m.CancelDeletion(context.Background(), "bogus"), ErrUnauthorized)
	})
}

func scheduledAccount(id, email string, scheduledFor time.Time) Account {
	return Account{
		ID:                   id,
		Email:                email,
		DeletionRequestedAt:  scheduledFor.AddDate(0, 0, -30).Format(time.RFC3339),
		DeletionScheduledFor: scheduledFor.Format(time.RFC3339),
	}
}

func TestFinalizeDue(t *testing.T) {
	cfg := Config{GracePeriodDays: 30, CronSecret: "s3cret"}

	t.Run("missing secret config is not configured", func(t *testing.T) {
		m := newTestManager(newFakeDirectory(), &fakeMailer{}, Config{GracePeriodDays: 30}, testNow)
		_, err := m.FinalizeDue(context.Background(), "whatever")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("wrong secret is unauthorized", func(t *testing.T) {
		m := newTestManager(newFakeDirectory(), &fakeMailer{}, cfg, testNow)
		_, err := m.FinalizeDue(context.Background(), "wrong")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("deletes due accounts only", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(scheduledAccount("due-1", "a@example.com", testNow.Add(-time.Hour)), "")
		dir.add(scheduledAccount("boundary", "", testNow), "")
		dir.add(scheduledAccount("future", "", testNow.Add(time.Second)), "")
		dir.add(Account{ID: "active"}, "")
		mailer := &fakeMailer{configured: true}
		m := newTestManager(dir, mailer, cfg, testNow)

		report, err := m.FinalizeDue(context.Background(), "s3cret")
		require.NoError(t, err)

		assert.True(t, report.Success)
		assert.Equal(t, 4, report.ScannedUsers)
		assert.Equal(t, 2, report.DueUsers)
		assert.Equal(t, 2, report.DeletedUsers)
		assert.Equal(t, 1, report.EmailSent) // only due-1 had an address
		assert.Empty(t, report.Errors)
		assert.ElementsMatch(t, []string{"due-1", "boundary"}, dir.deleteCalls)
		assert.NotNil(t, dir.find("future"))
		assert.NotNil(t, dir.find("active"))
	})

	t.Run("malformed metadata never triggers a delete", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(Account{
			ID:                   "broken",
			DeletionRequestedAt:  testNow.Format(time.RFC3339),
			DeletionScheduledFor: "garbage",
		}, "")
		dir.add(Account{
			ID:                   "half",
			DeletionScheduledFor: testNow.AddDate(0, 0, -1).Format(time.RFC3339),
		}, "")
		m := newTestManager(dir, &fakeMailer{}, cfg, testNow)

		report, err := m.FinalizeDue(context.Background(), "s3cret")
		require.NoError(t, err)

		assert.Equal(t, 2, report.ScannedUsers)
		assert.Zero(t, report.DueUsers)
		assert.Empty(t, dir.deleteCalls)
	})

	t.Run("partial failure continues the sweep", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(scheduledAccount("fails", "a@example.com", testNow.Add(-time.Hour)), "")
		dir.add(scheduledAccount("succeeds", "b@example.com", testNow.Add(-time.Hour)), "")
		dir.deleteErr["fails"] = fmt.Errorf("storage refused")
		mailer := &fakeMailer{configured: true}
		m := newTestManager(dir, mailer, cfg, testNow)

		report, err := m.FinalizeDue(context.Background(), "s3cret")
		require.NoError(t, err)

		assert.True(t, report.Success)
		assert.Equal(t, 2, report.DueUsers)
		assert.Equal(t, 1, report.DeletedUsers)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, "fails", report.Errors[0].UserID)
		assert.Equal(t, "deleteUser", report.Errors[0].Step)
		assert.Nil(t, dir.find("succeeds"))
		assert.NotNil(t, dir.find("fails"))
	})

	t.Run("email failure recorded but deletion stands", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(scheduledAccount("due-1", "a@example.com", testNow.Add(-time.Hour)), "")
		m := newTestManager(dir, &fakeMailer{err: fmt.Errorf("smtp down")}, cfg, testNow)

		report, err := m.FinalizeDue(context.Background(), "s3cret")
		require.NoError(t, err)

		assert.Equal(t, 1, report.DeletedUsers)
		assert.Zero(t, report.EmailSent)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, "sendEmail", report.Errors[0].Step)
		assert.Nil(t, dir.find("due-1"))
	})

	t.Run("unconfigured mailer counts no sends and no errors", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(scheduledAccount("due-1", "a@example.com", testNow.Add(-time.Hour)), "")
		m := newTestManager(dir, &fakeMailer{configured: false}, cfg, testNow)

		report, err := m.FinalizeDue(context.Background(), "s3cret")
		require.NoError(t, err)
		assert.Zero(t, report.EmailSent)
		assert.Empty(t, report.Errors)
	})

	t.Run("walks every page of the population", func(t *testing.T) {
		dir := newFakeDirectory()
		for i := 0; i < sweepPageSize; i++ {
			dir.add(Account{ID: fmt.Sprintf("filler-%d", i)}, "")
		}
		dir.add(scheduledAccount("due-last", "", testNow.Add(-time.Minute)), "")
		m := newTestManager(dir, &fakeMailer{}, cfg, testNow)

		report, err := m.FinalizeDue(context.Background(), "s3cret")
		require.NoError(t, err)

		assert.Equal(t, sweepPageSize+1, report.ScannedUsers)
		assert.Equal(t, 1, report.DeletedUsers)
	})

	t.Run("enumeration failure aborts the sweep", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.listErr = fmt.Errorf("store offline")
		m := newTestManager(dir, &fakeMailer{}, cfg, testNow)

		_, err := m.FinalizeDue(context.Background(), "s3cret")
		assert.Error(t, err)
	})
}

func TestDeletionLifecycleEndToEnd(t *testing.T) {
	cfg := Config{GracePeriodDays: 30, CronSecret: "s3cret"}
	day := func(n int) time.Time { return testNow.AddDate(0, 0, n) }

	t.Run("cancelled account survives a late sweep", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(Account{ID: "u1", Email: "u1@example.com"}, "tok-1")
		m := newTestManager(dir, &fakeMailer{configured: true}, cfg, day(0))

		_, err := m.ScheduleDeletion(context.Background(), "tok-1")
		require.NoError(t, err)

		m.now = func() time.Time { return day(10) }
		require.NoError(t, m.CancelDeletion(context.Background(), "tok-1"))

		m.now = func() time.Time { return day(31) }
		report, err := m.FinalizeDue(context.Background(), "s3cret")
		require.NoError(t, err)

		assert.Zero(t, report.DueUsers)
		assert.Empty(t, dir.deleteCalls)
		assert.NotNil(t, dir.find("u1"))
	})

	t.Run("uncancelled account is finalized once", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.add(Account{ID: "u1", Email: "u1@example.com"}, "tok-1")
		m := newTestManager(dir, &fakeMailer{configured: true}, cfg, day(0))

		_, err := m.ScheduleDeletion(context.Background(), "tok-1")
		require.NoError(t, err)

		m.now = func() time.Time { return day(31) }
		report, err := m.FinalizeDue(context.Background(), "s3cret")
		require.NoError(t, err)
		assert.Equal(t, 1, report.DeletedUsers)
		assert.Nil(t, dir.find("u1"))

		// Re-running is a no-op for the already-deleted account.
		again, err := m.FinalizeDue(context.Background(), "s3cret")
		require.NoError(t, err)
		assert.Zero(t, again.DueUsers)
		assert.Zero(t, again.DeletedUsers)
	})
}
