// Package session keeps per-browser credentials in SQLite.
//
// Values are plain strings addressed by session id and key. The web host
// issues one session id per browser cookie; the terminal host uses
// DefaultID.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Well-known keys.
const (
	KeyAccessToken = "accessToken"
	KeyUserID      = "userId"
	KeyUserType    = "userType"
	KeyShopID      = "shopId"
)

// DefaultID is the session used by single-user hosts.
const DefaultID = "default"

// DefaultTTL is how long an untouched session stays valid.
const DefaultTTL = 24 * time.Hour

// timeFormat is fixed width so stored timestamps compare as strings.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// Store is a SQLite key/value store of session values.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTTL sets the session lifetime.
func WithTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.ttl = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// Open opens (or creates) the store at path. ":memory:" gives a private
// in-memory store. The returned store owns the connection.
func Open(path string, opts ...StoreOption) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	// A single connection keeps ":memory:" one database and serializes
	// writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.init(path != ":memory:"); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(wal bool) error {
	if wal {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	schema := `
	CREATE TABLE IF NOT EXISTS session_value (
		session_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (session_id, key)
	);
	CREATE INDEX IF NOT EXISTS idx_session_value_updated ON session_value(updated_at);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create session schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) cutoff() string {
	return s.now().Add(-s.ttl).UTC().Format(timeFormat)
}

// Get returns the value of key in session id. ok is false when the key is
// unset or the session expired.
func (s *Store) Get(ctx context.Context, id, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM session_value WHERE session_id = ? AND key = ? AND updated_at > ?`,
		id, key, s.cutoff(),
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get session value %s: %w", key, err)
	}
	return value, true, nil
}

// Values returns every live value of session id.
func (s *Store) Values(ctx context.Context, id string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM session_value WHERE session_id = ? AND updated_at > ?`,
		id, s.cutoff(),
	)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan session value: %w", err)
		}
		values[k] = v
	}
	return values, rows.Err()
}

// Set writes values into session id in one transaction and refreshes the
// session's expiry.
func (s *Store) Set(ctx context.Context, id string, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session write: %w", err)
	}
	defer tx.Rollback()

	now := s.now().UTC().Format(timeFormat)
	for k, v := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_value (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			id, k, v, now,
		); err != nil {
			return fmt.Errorf("set session value %s: %w", k, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE session_value SET updated_at = ? WHERE session_id = ?`, now, id,
	); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return tx.Commit()
}

// Delete removes session id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_value WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Purge removes expired sessions and reports how many values were dropped.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM session_value WHERE updated_at <= ?`, s.cutoff())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return res.RowsAffected()
}
