package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresCredentials implements Credentials on top of sqlx.
// The bigserial primary key fixes insertion order for listings.
type PostgresCredentials struct {
	db *sqlx.DB
}

// NewPostgresCredentials wraps an open database handle.
func NewPostgresCredentials(db *sqlx.DB) *PostgresCredentials {
	return &PostgresCredentials{db: db}
}

// Add persists a credential, reporting false on duplicate values.
func (s *PostgresCredentials) Add(ctx context.Context, value string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (value) VALUES ($1) ON CONFLICT (value) DO NOTHING`, value)
	if err != nil {
		return false, fmt.Errorf("add credential: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add credential: rows affected: %w", err)
	}
	return n > 0, nil
}

// Remove deletes the matching credential.
func (s *PostgresCredentials) Remove(ctx context.Context, value string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE value = $1`, value)
	if err != nil {
		return false, fmt.Errorf("remove credential: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove credential: rows affected: %w", err)
	}
	return n > 0, nil
}

// RemoveAt deletes by 1-based position against insertion order.
func (s *PostgresCredentials) RemoveAt(ctx context.Context, pos int) (string, bool, error) {
	if pos < 1 {
		return "", false, nil
	}
	var removed string
	err := s.db.GetContext(ctx, &removed,
		`DELETE FROM credentials
		 WHERE id = (SELECT id FROM credentials ORDER BY id OFFSET $1 LIMIT 1)
		 RETURNING value`, pos-1)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("remove credential at %d: %w", pos, err)
	}
	return removed, true, nil
}

// List returns credential values in insertion order.
func (s *PostgresCredentials) List(ctx context.Context) ([]string, error) {
	var values []string
	if err := s.db.SelectContext(ctx, &values,
		`SELECT value FROM credentials ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	return values, nil
}

// Count returns the pool size.
func (s *PostgresCredentials) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM credentials`); err != nil {
		return 0, fmt.Errorf("count credentials: %w", err)
	}
	return n, nil
}

// PostgresSessions implements Sessions on the sessions table.
type PostgresSessions struct {
	db *sqlx.DB
}

// NewPostgresSessions wraps an open database handle.
func NewPostgresSessions(db *sqlx.DB) *PostgresSessions {
	return &PostgresSessions{db: db}
}

// SetLastInput upserts the submitted name and resets the last result.
func (s *PostgresSessions) SetLastInput(ctx context.Context, userID int64, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, last_input, last_result, updated_at)
		 VALUES ($1, $2, '', now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET last_input = EXCLUDED.last_input, last_result = '', updated_at = now()`,
		userID, text)
	if err != nil {
		return fmt.Errorf("set last input: %w", err)
	}
	return nil
}

// SetLastResult records the styled text last rendered for the user.
func (s *PostgresSessions) SetLastResult(ctx context.Context, userID int64, styled string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, last_result, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET last_result = EXCLUDED.last_result, updated_at = now()`,
		userID, styled)
	if err != nil {
		return fmt.Errorf("set last result: %w", err)
	}
	return nil
}

// SetStyle records the chosen style tag.
func (s *PostgresSessions) SetStyle(ctx context.Context, userID int64, tag string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, style_tag, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id)
		 DO UPDATE SET style_tag = EXCLUDED.style_tag, updated_at = now()`,
		userID, tag)
	if err != nil {
		return fmt.Errorf("set style: %w", err)
	}
	return nil
}

// Session returns the stored record or ErrNoSession.
func (s *PostgresSessions) Session(ctx context.Context, userID int64) (Session, error) {
	var sess Session
	err := s.db.GetContext(ctx, &sess,
		`SELECT user_id, last_input, last_result, style_tag, updated_at
		 FROM sessions WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// PostgresUsers implements Users on the users table.
type PostgresUsers struct {
	db *sqlx.DB
}

// NewPostgresUsers wraps an open database handle.
func NewPostgresUsers(db *sqlx.DB) *PostgresUsers {
	return &PostgresUsers{db: db}
}

// Register inserts the user if not yet known.
func (s *PostgresUsers) Register(ctx context.Context, userID int64, firstName string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, first_name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		userID, firstName)
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	return nil
}

// IncrementGenerations bumps the per-user generation counter.
func (s *PostgresUsers) IncrementGenerations(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET total_generations = total_generations + 1 WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("increment generations: %w", err)
	}
	return nil
}

// Totals reports user and generation totals.
func (s *PostgresUsers) Totals(ctx context.Context) (int64, int64, error) {
	var row struct {
		Users       int64 `db:"users"`
		Generations int64 `db:"generations"`
	}
	err := s.db.GetContext(ctx, &row,
		`SELECT COUNT(*) AS users, COALESCE(SUM(total_generations), 0) AS generations FROM users`)
	if err != nil {
		return 0, 0, fmt.Errorf("user totals: %w", err)
	}
	return row.Users, row.Generations, nil
}
