package bot

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aestyle/namestyler/internal/store"
)

type recordingNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *recordingNotifier) Notify(_ context.Context, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
}

func (n *recordingNotifier) last(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.texts)
	return n.texts[len(n.texts)-1]
}

func TestStatsReportWindowsGenerations(t *testing.T) {
	ctx := context.Background()
	users := store.NewMemoryUsers()
	notifier := &recordingNotifier{}
	job := NewStatsJob(users, notifier)

	require.NoError(t, users.Register(ctx, 1, "Sam"))
	for i := 0; i < 5; i++ {
		require.NoError(t, users.IncrementGenerations(ctx, 1))
	}

	job.report()
	assert.Contains(t, notifier.last(t), "5 generations today")
	assert.Contains(t, notifier.last(t), "(5 total)")

	// The next report covers only the generations since the previous one.
	require.NoError(t, users.IncrementGenerations(ctx, 1))
	require.NoError(t, users.IncrementGenerations(ctx, 1))

	job.report()
	assert.Contains(t, notifier.last(t), "2 generations today")
	assert.Contains(t, notifier.last(t), "(7 total)")

	// A quiet day reports zero, not the lifetime figure.
	job.report()
	assert.Contains(t, notifier.last(t), "0 generations today")
}
