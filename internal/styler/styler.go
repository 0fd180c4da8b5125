// Package styler produces decorated variants of plain names through a pool
// of interchangeable provider credentials, rotating past quota failures.
package styler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aestyle/namestyler/core/logger"
	"github.com/aestyle/namestyler/internal/store"
)

// AdminNotifier pushes an out-of-band alert to the operator. Delivery is
// best effort; implementations must not return errors to the caller.
type AdminNotifier interface {
	Notify(ctx context.Context, text string)
}

// Options tunes a Styler.
type Options struct {
	// AttemptTimeout bounds a single provider call. Defaults to 9s.
	AttemptTimeout time.Duration
	// RetryAllErrors rotates past every provider failure instead of failing
	// fast on non-quota errors.
	RetryAllErrors bool
	// Notifier receives the alert when a call exhausts the whole pool.
	Notifier AdminNotifier
}

// Styler is the rotating generation client. The rotation cursor is owned by
// the instance; concurrent calls share it, which keeps selection best-effort
// round-robin rather than strictly fair.
type Styler struct {
	creds    store.Credentials
	provider Provider
	opts     Options

	mu     sync.Mutex
	cursor int
}

// New constructs a Styler over the credential pool and provider.
func New(creds store.Credentials, provider Provider, opts Options) *Styler {
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = 9 * time.Second
	}
	return &Styler{creds: creds, provider: provider, opts: opts}
}

// nextIndex returns the credential index for the current attempt. The first
// attempt of a call uses the cursor as-is; advance moves it after a failed
// attempt, so a successful call leaves the cursor on the credential that
// served it.
func (s *Styler) nextIndex(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= n {
		// Pool shrank since the cursor last moved.
		s.cursor = 0
	}
	return s.cursor
}

func (s *Styler) advance(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = (s.cursor + 1) % n
}

// Cursor exposes the rotation position for tests and diagnostics.
func (s *Styler) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Generate styles req.Name, trying each credential in the pool at most once.
// It returns ErrNoCredentials for an empty pool without contacting the
// provider, and ErrAllCredentialsExhausted (after notifying the operator
// exactly once) when every credential fails with a quota-classified error.
// Non-quota failures surface immediately unless RetryAllErrors is set.
func (s *Styler) Generate(ctx context.Context, req Request) (string, error) {
	// Snapshot once; the pool may change mid-call.
	creds, err := s.creds.List(ctx)
	if err != nil {
		return "", fmt.Errorf("styler: list credentials: %w", err)
	}
	if len(creds) == 0 {
		logger.GEN.Warn("generation rejected",
			slog.String("event", "generate.no_credentials"),
		)
		return "", ErrNoCredentials
	}

	prompt := BuildPrompt(req)
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= len(creds); attempt++ {
		idx := s.nextIndex(len(creds))
		credential := creds[idx]

		text, attemptErr := s.attempt(ctx, prompt, credential)
		if attemptErr == nil {
			logger.GEN.Debug("generation succeeded",
				slog.String("event", "generate.success"),
				slog.Int("attempt", attempt),
				slog.String("key_suffix", logger.KeySuffix(credential)),
				slog.Duration("duration", logger.Took(start)),
			)
			return strings.TrimSpace(text), nil
		}
		lastErr = attemptErr

		if !IsQuota(attemptErr) && !s.opts.RetryAllErrors {
			// Fail fast: non-transient failures do not burn the rest of
			// the pool.
			return "", fmt.Errorf("styler: generation failed: %w", attemptErr)
		}

		logger.GEN.Warn("credential failed, rotating",
			slog.String("event", "generate.rotate"),
			slog.Int("attempt", attempt),
			slog.Int("pool", len(creds)),
			slog.String("key_suffix", logger.KeySuffix(credential)),
			slog.String("err", attemptErr.Error()),
		)
		s.advance(len(creds))
	}

	logger.GEN.Error("credential pool exhausted",
		slog.String("event", "generate.exhausted"),
		slog.Int("pool", len(creds)),
		slog.Duration("duration", logger.Took(start)),
		slog.String("err", lastErr.Error()),
	)
	if s.opts.Notifier != nil {
		s.opts.Notifier.Notify(ctx, fmt.Sprintf(
			"⚠️ All %d Gemini keys are exhausted. Add fresh keys with /addkey.", len(creds)))
	}
	return "", ErrAllCredentialsExhausted
}

func (s *Styler) attempt(ctx context.Context, prompt, credential string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.opts.AttemptTimeout)
	defer cancel()
	return s.provider.Complete(attemptCtx, prompt, credential)
}
