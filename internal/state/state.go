// Package state persists small string values: preferences and the play
// history.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/musicsite/internal/db"
)

const (
	appName    = "musicsite"
	dbFileName = "musicsite.db"
)

// Manager is the SQLite-backed store.
type Manager struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path. An empty path
// uses the XDG data directory.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		if path, err = getDBPath(); err != nil {
			return nil, err
		}
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps :memory: databases shared and writes serialized.
	conn.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := db.Pragmas(ctx, conn, "busy_timeout = 5000", "journal_mode = WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if err := initSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Manager{db: conn, now: time.Now}, nil
}

// Get returns the value for key.
func (m *Manager) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := m.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key.
func (m *Manager) Set(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx, upsertKV, key, value, m.now().UnixMilli())
	return err
}

// SetMany stores all values in one transaction.
func (m *Manager) SetMany(ctx context.Context, values map[string]string) error {
	now := m.now().UnixMilli()
	return db.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		for k, v := range values {
			if _, err := tx.ExecContext(ctx, upsertKV, k, v, now); err != nil {
				return fmt.Errorf("set %s: %w", k, err)
			}
		}
		return nil
	})
}

// Delete removes key. Missing keys are not an error.
func (m *Manager) Delete(ctx context.Context, key string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Close closes the database.
func (m *Manager) Close() error {
	return m.db.Close()
}

const upsertKV = `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
`

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
