package styler

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoCredentials means the pool is empty. This is a configuration
	// problem for the administrator, not a transient provider failure.
	ErrNoCredentials = errors.New("styler: no credentials configured")
	// ErrAllCredentialsExhausted means every credential in the pool failed
	// with a quota-classified error within a single generation call.
	ErrAllCredentialsExhausted = errors.New("styler: all credentials exhausted")
)

// QuotaError marks a provider failure caused by rate limits or usage quota.
// The rotation treats it as transient and moves on to the next credential.
type QuotaError struct {
	Err error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("styler: quota exhausted: %v", e.Err)
}

func (e *QuotaError) Unwrap() error {
	return e.Err
}

// IsQuota reports whether err should rotate to the next credential.
// Attempt timeouts count as quota-equivalent transient failures.
func IsQuota(err error) bool {
	if err == nil {
		return false
	}
	var q *QuotaError
	if errors.As(err, &q) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
