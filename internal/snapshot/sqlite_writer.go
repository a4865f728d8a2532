// Package snapshot exports a resolved record snapshot to a SQLite database
// so it can be inspected with ordinary SQL tooling. The file is an output
// artifact only; restcli never reads it back.
package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/restcli/internal/graph"
)

var errNoTx = errors.New("no open transaction")

// SQLiteWriter streams records into a fresh database inside batched
// transactions.
type SQLiteWriter struct {
	db        *sql.DB
	tx        *sql.Tx
	stmt      *sql.Stmt
	batchSize int
	count     int
}

// NewSQLiteWriter opens dbPath and creates the records table.
func NewSQLiteWriter(dbPath string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Bulk insert tuning.
	for _, pragma := range []string{"PRAGMA synchronous = OFF", "PRAGMA journal_mode = MEMORY"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	schema := `
	DROP TABLE IF EXISTS records;
	CREATE TABLE records (
		path TEXT PRIMARY KEY,
		parent TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		deferred INTEGER NOT NULL DEFAULT 0,
		value JSON
	);
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &SQLiteWriter{db: db, batchSize: 10000}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLiteWriter) beginTx() error {
	tx, err := w.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO records (path, parent, name, kind, deferred, value)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	w.tx, w.stmt = tx, stmt
	return nil
}

// commitTx is a no-op when no transaction is open, e.g. after a failed
// beginTx.
func (w *SQLiteWriter) commitTx() error {
	if w.tx == nil {
		return nil
	}
	if w.stmt != nil {
		_ = w.stmt.Close()
		w.stmt = nil
	}
	tx := w.tx
	w.tx = nil
	return tx.Commit()
}

// Add writes one record.
func (w *SQLiteWriter) Add(rec graph.Record, deferred bool) error {
	if w.tx == nil {
		return errNoTx
	}
	parent, name := graph.SplitPath(rec.Path)
	body, err := rec.Value.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode %s: %w", rec.Path, err)
	}
	if _, err := w.stmt.Exec(rec.Path, parent, name, rec.Value.Kind().String(), deferred, string(body)); err != nil {
		return fmt.Errorf("insert %s: %w", rec.Path, err)
	}

	w.count++
	if w.count >= w.batchSize {
		if err := w.commitTx(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		if err := w.beginTx(); err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		w.count = 0
	}
	return nil
}

// SetMeta records a key/value describing the export.
func (w *SQLiteWriter) SetMeta(key, value string) error {
	if w.tx == nil {
		return errNoTx
	}
	_, err := w.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

func (w *SQLiteWriter) Close() error {
	if err := w.commitTx(); err != nil {
		_ = w.db.Close()
		return err
	}
	if _, err := w.db.Exec(`CREATE INDEX IF NOT EXISTS idx_parent_name ON records(parent, name)`); err != nil {
		_ = w.db.Close()
		return fmt.Errorf("create index: %w", err)
	}
	return w.db.Close()
}

// Export writes every record of snap, plus its root and expansion state,
// to the database at dbPath.
func Export(dbPath string, snap *graph.Snapshot) (err error) {
	w, err := NewSQLiteWriter(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	for _, rec := range snap.Records() {
		if err := w.Add(rec, snap.IsDeferred(rec.Path)); err != nil {
			return err
		}
	}
	meta := map[string]string{
		"root":        snap.Root(),
		"more":        strconv.FormatBool(snap.More()),
		"records":     strconv.Itoa(snap.Len()),
		"exported_at": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if err := w.SetMeta(k, v); err != nil {
			return fmt.Errorf("write meta %s: %w", k, err)
		}
	}
	return nil
}
