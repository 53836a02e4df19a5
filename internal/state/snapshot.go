package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/sqlite"

	"github.com/jxwalker/tablemgr/internal/lockfile"
	"github.com/jxwalker/tablemgr/internal/table"
)

// DB is the optional on-disk snapshot of a session.
type DB struct {
	SQL  *sql.DB
	Path string
	lock *lockfile.LockFile
}

// Snapshot is everything needed to restore a session.
type Snapshot struct {
	Rows    []table.Row
	UI      UIState
	SavedAt time.Time
}

// Open opens (creating if needed) the snapshot database at path. A lock file
// next to it keeps two tablemgr processes from writing the same snapshot.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("general.state_db required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	lock, err := lockfile.Acquire(path + ".lock")
	if err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=journal_mode(WAL)", path)
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Release()
		return nil, err
	}
	if err := initSchema(sqldb); err != nil {
		_ = sqldb.Close()
		_ = lock.Release()
		return nil, err
	}
	return &DB{SQL: sqldb, Path: path, lock: lock}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			theme TEXT NOT NULL,
			search TEXT NOT NULL DEFAULT '',
			saved_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_columns (
			pos INTEGER PRIMARY KEY,
			col_key TEXT NOT NULL UNIQUE,
			label TEXT NOT NULL,
			visible INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_rows (
			pos INTEGER PRIMARY KEY,
			row_id TEXT NOT NULL,
			fields TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database and releases the lock.
func (db *DB) Close() error {
	err := db.SQL.Close()
	if db.lock != nil {
		if lerr := db.lock.Release(); err == nil {
			err = lerr
		}
	}
	return err
}

// SaveSnapshot replaces the stored session with snap in one transaction.
func (db *DB) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	tx, err := db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range []string{"session", "session_columns", "session_rows"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return err
		}
	}
	savedAt := snap.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO session(id, theme, search, saved_at) VALUES(1, ?, ?, ?)`,
		string(snap.UI.Theme), snap.UI.Search, savedAt.Unix()); err != nil {
		return err
	}
	for i, c := range snap.UI.Columns {
		if _, err := tx.ExecContext(ctx, `INSERT INTO session_columns(pos, col_key, label, visible) VALUES(?, ?, ?, ?)`,
			i, c.Key, c.Label, boolToInt(c.Visible)); err != nil {
			return fmt.Errorf("column %s: %w", c.Key, err)
		}
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO session_rows(pos, row_id, fields) VALUES(?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, r := range snap.Rows {
		b, err := r.MarshalFields()
		if err != nil {
			return fmt.Errorf("row %s: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, i, r.ID, string(b)); err != nil {
			return fmt.Errorf("row %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// LoadSnapshot returns the stored session. ok is false when nothing has been
// saved yet.
func (db *DB) LoadSnapshot(ctx context.Context) (snap Snapshot, ok bool, err error) {
	var theme, search string
	var savedAt int64
	err = db.SQL.QueryRowContext(ctx, `SELECT theme, search, saved_at FROM session WHERE id = 1`).
		Scan(&theme, &search, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	th, valid := table.ParseTheme(theme)
	if !valid {
		th = table.ThemeLight
	}
	snap.UI = UIState{Theme: th, Search: search}
	snap.SavedAt = time.Unix(savedAt, 0)

	crows, err := db.SQL.QueryContext(ctx, `SELECT col_key, label, visible FROM session_columns ORDER BY pos`)
	if err != nil {
		return Snapshot{}, false, err
	}
	defer crows.Close()
	for crows.Next() {
		var c table.Column
		var vis int
		if err := crows.Scan(&c.Key, &c.Label, &vis); err != nil {
			return Snapshot{}, false, err
		}
		c.Visible = vis != 0
		snap.UI.Columns = append(snap.UI.Columns, c)
	}
	if err := crows.Err(); err != nil {
		return Snapshot{}, false, err
	}

	rrows, err := db.SQL.QueryContext(ctx, `SELECT row_id, fields FROM session_rows ORDER BY pos`)
	if err != nil {
		return Snapshot{}, false, err
	}
	defer rrows.Close()
	for rrows.Next() {
		var id, fields string
		if err := rrows.Scan(&id, &fields); err != nil {
			return Snapshot{}, false, err
		}
		r, err := table.UnmarshalFields(id, []byte(fields))
		if err != nil {
			return Snapshot{}, false, err
		}
		snap.Rows = append(snap.Rows, r)
	}
	if err := rrows.Err(); err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
