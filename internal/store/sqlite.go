package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// ErrKeyNotFound is returned by KV.Get when the key has never been put.
var ErrKeyNotFound = eris.New("store: key not found")

// KV is the opaque key-value persistence backend, implemented with
// modernc.org/sqlite. Exports are written as serialized blobs under fixed
// keys; there is no read-modify-write.
type KV struct {
	db *sql.DB
}

// OpenKV opens (or creates) the SQLite database at path and configures WAL
// mode.
func OpenKV(path string) (*KV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &KV{db: db}, nil
}

const kvMigration = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// Migrate creates the kv table if it does not exist.
func (s *KV) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, kvMigration)
	return eris.Wrap(err, "store: migrate")
}

// Put writes value under key, overwriting any previous value.
func (s *KV) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "store: put %s", key)
	}
	return nil
}

// Get returns the value stored under key.
func (s *KV) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", eris.Wrapf(ErrKeyNotFound, "key %s", key)
	}
	if err != nil {
		return "", eris.Wrapf(err, "store: get %s", key)
	}
	return value, nil
}

// Close closes the underlying database.
func (s *KV) Close() error {
	return s.db.Close()
}
