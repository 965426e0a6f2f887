// Package deletion implements the account-deletion lifecycle: scheduling a
// deletion with a grace period, cancelling it, and sweeping due accounts.
//
// The user directory stores the pending deletion as a pair of RFC3339
// timestamp strings inside the account metadata. Inside this package the
// pair is always converted to a tagged State first, so the two fields can
// never be interpreted independently.
package deletion

import "time"

// StateKind enumerates the lifecycle states of an account's deletion request.
type StateKind string

const (
	// StateActive means no deletion is pending.
	StateActive StateKind = "active"
	// StateScheduled means a deletion is pending and the grace period has
	// not elapsed yet.
	StateScheduled StateKind = "scheduled"
	// StateDue means the grace period has elapsed and the account is
	// eligible for hard deletion.
	StateDue StateKind = "due"
)

// State is the derived deletion state of an account. RequestedAt and
// ScheduledFor are only meaningful when Kind is StateScheduled or StateDue.
type State struct {
	Kind         StateKind  `json:"kind"`
	RequestedAt  *time.Time `json:"requested_at,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}

// StateOf derives the deletion state from the stored metadata pair.
// Metadata that is incomplete or fails to parse as RFC3339 yields
// StateActive: malformed metadata must never make an account due.
// A ScheduledFor exactly equal to now counts as due.
func StateOf(account Account, now time.Time) State {
	if account.DeletionRequestedAt == "" || account.DeletionScheduledFor == "" {
		return State{Kind: StateActive}
	}

	requestedAt, err := time.Parse(time.RFC3339, account.DeletionRequestedAt)
	if err != nil {
		return State{Kind: StateActive}
	}
	scheduledFor, err := time.Parse(time.RFC3339, account.DeletionScheduledFor)
	if err != nil {
		return State{Kind: StateActive}
	}

	kind := StateScheduled
	if !scheduledFor.After(now) {
		kind = StateDue
	}
	return State{Kind: kind, RequestedAt: &requestedAt, ScheduledFor: &scheduledFor}
}
