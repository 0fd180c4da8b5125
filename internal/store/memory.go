package store

import (
	"context"
	"sync"
	"time"
)

// MemoryCredentials is an in-memory Credentials implementation for tests
// and development.
type MemoryCredentials struct {
	mu     sync.RWMutex
	values []string
}

// NewMemoryCredentials constructs an empty in-memory credential pool.
func NewMemoryCredentials(values ...string) *MemoryCredentials {
	return &MemoryCredentials{values: append([]string(nil), values...)}
}

// Add appends the value unless an equal one is already stored.
func (s *MemoryCredentials) Add(_ context.Context, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.values {
		if v == value {
			return false, nil
		}
	}
	s.values = append(s.values, value)
	return true, nil
}

// Remove deletes the matching value.
func (s *MemoryCredentials) Remove(_ context.Context, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.values {
		if v == value {
			s.values = append(s.values[:i], s.values[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// RemoveAt deletes by 1-based position against insertion order.
func (s *MemoryCredentials) RemoveAt(_ context.Context, pos int) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos < 1 || pos > len(s.values) {
		return "", false, nil
	}
	removed := s.values[pos-1]
	s.values = append(s.values[:pos-1], s.values[pos:]...)
	return removed, true, nil
}

// List returns values in insertion order.
func (s *MemoryCredentials) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.values...), nil
}

// Count returns the pool size.
func (s *MemoryCredentials) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values), nil
}

// MemorySessions is an in-memory Sessions implementation for tests
// and development.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemorySessions constructs an empty in-memory session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[int64]Session)}
}

func (s *MemorySessions) upsert(userID int64, mutate func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[userID]
	sess.UserID = userID
	mutate(&sess)
	sess.UpdatedAt = time.Now()
	s.sessions[userID] = sess
}

// SetLastInput upserts the submitted name and resets the last result.
func (s *MemorySessions) SetLastInput(_ context.Context, userID int64, text string) error {
	s.upsert(userID, func(sess *Session) {
		sess.LastInput = text
		sess.LastResult = ""
	})
	return nil
}

// SetLastResult records the styled text last rendered for the user.
func (s *MemorySessions) SetLastResult(_ context.Context, userID int64, styled string) error {
	s.upsert(userID, func(sess *Session) { sess.LastResult = styled })
	return nil
}

// SetStyle records the chosen style tag.
func (s *MemorySessions) SetStyle(_ context.Context, userID int64, tag string) error {
	s.upsert(userID, func(sess *Session) { sess.StyleTag = tag })
	return nil
}

// Session returns the stored record or ErrNoSession.
func (s *MemorySessions) Session(_ context.Context, userID int64) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// MemoryUsers is an in-memory Users implementation for tests and development.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[int64]*userRecord
}

type userRecord struct {
	firstName   string
	generations int64
}

// NewMemoryUsers constructs an empty in-memory user registry.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[int64]*userRecord)}
}

// Register inserts the user if not yet known.
func (s *MemoryUsers) Register(_ context.Context, userID int64, firstName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		s.users[userID] = &userRecord{firstName: firstName}
	}
	return nil
}

// IncrementGenerations bumps the per-user generation counter.
func (s *MemoryUsers) IncrementGenerations(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.generations++
	}
	return nil
}

// Totals reports user and generation totals.
func (s *MemoryUsers) Totals(_ context.Context) (int64, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var generations int64
	for _, u := range s.users {
		generations += u.generations
	}
	return int64(len(s.users)), generations, nil
}
