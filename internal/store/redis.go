package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisSessions implements Sessions on Redis, one JSON document per user
// with an optional TTL. Useful when the bot runs without long-lived session
// rows in Postgres.
type RedisSessions struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessions connects to Redis using a URL and verifies connectivity.
// A zero ttl disables expiry.
func NewRedisSessions(ctx context.Context, url string, ttl time.Duration) (*RedisSessions, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisSessions{client: client, ttl: ttl}, nil
}

// Close releases the underlying connection pool.
func (s *RedisSessions) Close() error {
	return s.client.Close()
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("%s%d", sessionKeyPrefix, userID)
}

func (s *RedisSessions) load(ctx context.Context, userID int64) (Session, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

// maxUpsertRetries bounds the optimistic-lock retry loop. Contention on a
// single user's session is rare, so a handful of attempts is plenty.
const maxUpsertRetries = 5

// upsert applies mutate under an optimistic WATCH transaction so that two
// concurrent writers never overwrite each other's fields.
func (s *RedisSessions) upsert(ctx context.Context, userID int64, mutate func(*Session)) error {
	key := sessionKey(userID)

	txf := func(tx *redis.Tx) error {
		var sess Session
		data, err := tx.Get(ctx, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			// First write for this user.
		case err != nil:
			return fmt.Errorf("load session: %w", err)
		default:
			if err := json.Unmarshal([]byte(data), &sess); err != nil {
				return fmt.Errorf("unmarshal session: %w", err)
			}
		}

		sess.UserID = userID
		mutate(&sess)
		sess.UpdatedAt = time.Now()

		payload, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpsertRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	}
	return fmt.Errorf("save session: %w", redis.TxFailedErr)
}

// SetLastInput upserts the submitted name and resets the last result.
func (s *RedisSessions) SetLastInput(ctx context.Context, userID int64, text string) error {
	return s.upsert(ctx, userID, func(sess *Session) {
		sess.LastInput = text
		sess.LastResult = ""
	})
}

// SetLastResult records the styled text last rendered for the user.
func (s *RedisSessions) SetLastResult(ctx context.Context, userID int64, styled string) error {
	return s.upsert(ctx, userID, func(sess *Session) { sess.LastResult = styled })
}

// SetStyle records the chosen style tag.
func (s *RedisSessions) SetStyle(ctx context.Context, userID int64, tag string) error {
	return s.upsert(ctx, userID, func(sess *Session) { sess.StyleTag = tag })
}

// Session returns the stored record or ErrNoSession.
func (s *RedisSessions) Session(ctx context.Context, userID int64) (Session, error) {
	return s.load(ctx, userID)
}
