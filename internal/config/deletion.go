package config

import (
	"github.com/jonathan/interview-pilot/internal/deletion"
	"github.com/jonathan/interview-pilot/internal/mail"
)

// NewDeletionConfig reads the account-deletion settings from the
// environment. DELETION_GRACE_PERIOD_DAYS defaults to the built-in grace
// period; ACCOUNT_DELETION_CRON_SECRET is optional, but the finalize
// endpoint refuses to run without it.
func NewDeletionConfig() (deletion.Config, error) {
	days, err := envInt("DELETION_GRACE_PERIOD_DAYS", deletion.DefaultGracePeriodDays)
	if err != nil {
		return deletion.Config{}, err
	}

	return deletion.Config{
		GracePeriodDays: days,
		CronSecret:      envOr("ACCOUNT_DELETION_CRON_SECRET", ""),
	}, nil
}

// NewMailConfig reads the Resend settings from the environment. All of
// them are optional; an unconfigured mailer simply sends nothing.
func NewMailConfig() mail.Config {
	return mail.Config{
		APIKey:  envOr("RESEND_API_KEY", ""),
		From:    envOr("ACCOUNT_DELETION_FROM_EMAIL", ""),
		AppName: envOr("ACCOUNT_DELETION_APP_NAME", ""),
	}
}
