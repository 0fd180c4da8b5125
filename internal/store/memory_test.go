package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsAddDuplicate(t *testing.T) {
	ctx := context.Background()
	creds := NewMemoryCredentials()

	added, err := creds.Add(ctx, "key-a")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = creds.Add(ctx, "key-a")
	require.NoError(t, err)
	assert.False(t, added, "duplicate add reports false without error")

	count, err := creds.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCredentialsRemoveAt(t *testing.T) {
	ctx := context.Background()
	creds := NewMemoryCredentials("key-a", "key-b", "key-c")

	t.Run("middle position", func(t *testing.T) {
		removed, ok, err := creds.RemoveAt(ctx, 2)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "key-b", removed)

		values, err := creds.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"key-a", "key-c"}, values, "insertion order preserved")
	})

	t.Run("out of range", func(t *testing.T) {
		_, ok, err := creds.RemoveAt(ctx, 5)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = creds.RemoveAt(ctx, 0)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCredentialsRemoveByValue(t *testing.T) {
	ctx := context.Background()
	creds := NewMemoryCredentials("key-a", "key-b")

	removed, err := creds.Remove(ctx, "key-a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = creds.Remove(ctx, "key-a")
	require.NoError(t, err)
	assert.False(t, removed, "second removal finds nothing")
}

func TestSessionsLifecycle(t *testing.T) {
	ctx := context.Background()
	sessions := NewMemorySessions()

	_, err := sessions.Session(ctx, 42)
	require.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, sessions.SetLastInput(ctx, 42, "Sam"))
	require.NoError(t, sessions.SetLastResult(ctx, 42, "꧁Sam꧂"))
	require.NoError(t, sessions.SetStyle(ctx, 42, "dark"))

	sess, err := sessions.Session(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Sam", sess.LastInput)
	assert.Equal(t, "꧁Sam꧂", sess.LastResult)
	assert.Equal(t, "dark", sess.StyleTag)

	// New input overwrites and invalidates the previous result.
	require.NoError(t, sessions.SetLastInput(ctx, 42, "Alex"))
	sess, err = sessions.Session(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Alex", sess.LastInput)
	assert.Empty(t, sess.LastResult)
	assert.Equal(t, "dark", sess.StyleTag, "style tag survives new input")
}

func TestUsersTotals(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUsers()

	require.NoError(t, users.Register(ctx, 1, "Sam"))
	require.NoError(t, users.Register(ctx, 1, "Sam"))
	require.NoError(t, users.Register(ctx, 2, "Alex"))

	require.NoError(t, users.IncrementGenerations(ctx, 1))
	require.NoError(t, users.IncrementGenerations(ctx, 1))
	require.NoError(t, users.IncrementGenerations(ctx, 2))

	totalUsers, totalGenerations, err := users.Totals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totalUsers, "repeated registration is a no-op")
	assert.Equal(t, int64(3), totalGenerations)
}
