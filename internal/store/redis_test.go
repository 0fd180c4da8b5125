package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redisSessions dials the instance named by REDIS_TEST_URL, skipping the
// test when none is configured.
func redisSessions(t *testing.T) *RedisSessions {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("set REDIS_TEST_URL to run Redis store tests")
	}
	s, err := NewRedisSessions(context.Background(), url, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisSessionsRoundTrip(t *testing.T) {
	s := redisSessions(t)
	ctx := context.Background()
	userID := time.Now().UnixNano()

	_, err := s.Session(ctx, userID)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.SetLastInput(ctx, userID, "Sam"))
	require.NoError(t, s.SetLastResult(ctx, userID, "꧁Sam꧂"))
	require.NoError(t, s.SetStyle(ctx, userID, "dark"))

	sess, err := s.Session(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Sam", sess.LastInput)
	assert.Equal(t, "꧁Sam꧂", sess.LastResult)
	assert.Equal(t, "dark", sess.StyleTag)

	// New input invalidates the previous result.
	require.NoError(t, s.SetLastInput(ctx, userID, "Alex"))
	sess, err = s.Session(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Alex", sess.LastInput)
	assert.Empty(t, sess.LastResult)
}

func TestRedisSessionsConcurrentWritersKeepBothFields(t *testing.T) {
	s := redisSessions(t)
	ctx := context.Background()
	userID := time.Now().UnixNano()

	require.NoError(t, s.SetLastInput(ctx, userID, "Sam"))

	const rounds = 20
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			assert.NoError(t, s.SetStyle(ctx, userID, fmt.Sprintf("style-%d", i)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			assert.NoError(t, s.SetLastResult(ctx, userID, fmt.Sprintf("result-%d", i)))
		}
	}()
	wg.Wait()

	sess, err := s.Session(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("style-%d", rounds-1), sess.StyleTag,
		"style writes must survive interleaved result writes")
	assert.Equal(t, fmt.Sprintf("result-%d", rounds-1), sess.LastResult,
		"result writes must survive interleaved style writes")
	assert.Equal(t, "Sam", sess.LastInput)
}
