// Package store provides the durable state behind the bot: the provider
// credential pool, per-user regeneration sessions, and the user registry.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession signals that a user has never submitted input. Callers must
// treat it as a distinct, recoverable condition rather than an empty session.
var ErrNoSession = errors.New("store: no session for user")

// Session is the per-user regeneration context.
type Session struct {
	UserID int64 `db:"user_id" json:"user_id"`
	// LastInput is the most recently submitted plain name.
	LastInput string `db:"last_input" json:"last_input"`
	// LastResult is the styled text most recently shown to the user. It
	// feeds the anti-repetition constraint on regeneration.
	LastResult string    `db:"last_result" json:"last_result"`
	StyleTag   string    `db:"style_tag" json:"style_tag"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Credentials is the administrator-managed pool of provider API keys.
// Listing order is insertion order, which makes RemoveAt well-defined.
type Credentials interface {
	// Add persists a new credential. It reports false without error when an
	// equal value is already stored.
	Add(ctx context.Context, value string) (bool, error)
	// Remove deletes the matching credential and reports whether a row was
	// actually deleted.
	Remove(ctx context.Context, value string) (bool, error)
	// RemoveAt deletes by 1-based display position against insertion order.
	// It returns the removed value, or ok=false when pos is out of range.
	RemoveAt(ctx context.Context, pos int) (string, bool, error)
	List(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// Sessions stores per-user regeneration context.
type Sessions interface {
	// SetLastInput upserts the user's submitted name and clears the last
	// result, since it no longer corresponds to the new input.
	SetLastInput(ctx context.Context, userID int64, text string) error
	// SetLastResult records the styled text just rendered to the user.
	SetLastResult(ctx context.Context, userID int64, styled string) error
	// SetStyle records the user's chosen style tag.
	SetStyle(ctx context.Context, userID int64, tag string) error
	// Session returns the stored record or ErrNoSession.
	Session(ctx context.Context, userID int64) (Session, error)
}

// Users tracks known users and their generation counters.
type Users interface {
	// Register inserts the user if not yet known; repeated calls are no-ops.
	Register(ctx context.Context, userID int64, firstName string) error
	IncrementGenerations(ctx context.Context, userID int64) error
	// Totals reports the number of known users and the sum of generations.
	Totals(ctx context.Context) (users int64, generations int64, err error)
}
