// Package store keeps annotated documents and run history in sqlite database,
// so repeated runs over the same sources could skip unchanged documents.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id       TEXT PRIMARY KEY,
	source   TEXT NOT NULL,
	started  TEXT NOT NULL,
	finished TEXT,
	ok       INTEGER NOT NULL DEFAULT 0,
	failed   INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS documents (
	fingerprint TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	run_id      TEXT NOT NULL REFERENCES runs(id),
	annotated   TEXT NOT NULL,
	created     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_run ON documents(run_id);
`

// ErrUnknownRun is returned when run id was never registered with BeginRun.
var ErrUnknownRun = errors.New("unknown run")

// Record is a single annotated document.
type Record struct {
	Fingerprint string
	Name        string
	RunID       string
	Annotated   string
	Created     time.Time
}

// Run describes single invocation of the batch processing.
type Run struct {
	ID       string
	Source   string
	Started  time.Time
	Finished time.Time // zero if run never finished
	OK       int
	Failed   int
}

// Store wraps single sqlite connection. Connection is not safe for concurrent
// use so all access is serialized.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	path string
}

// Open opens (creating if necessary) database at path and makes sure schema
// is in place.
func Open(path string) (*Store, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("prepare schema: %w", err)
	}
	return &Store{conn: conn, path: path}, nil
}

// Path returns location of the database.
func (s *Store) Path() string {
	return s.path
}

// Close closes underlying connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// BeginRun registers new run.
func (s *Store) BeginRun(id, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := sqlitex.Execute(s.conn, `INSERT INTO runs (id, source, started) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{id, source, stamp(time.Now())}})
	if err != nil {
		return fmt.Errorf("begin run %s: %w", id, err)
	}
	return nil
}

// FinishRun records run results.
func (s *Store) FinishRun(id string, ok, failed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := sqlitex.Execute(s.conn, `UPDATE runs SET finished = ?, ok = ?, failed = ? WHERE id = ?`,
		&sqlitex.ExecOptions{Args: []any{stamp(time.Now()), ok, failed, id}})
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	if s.conn.Changes() == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrUnknownRun)
	}
	return nil
}

// Lookup finds previously annotated document by its fingerprint.
func (s *Store) Lookup(fingerprint string) (rec Record, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err = sqlitex.Execute(s.conn, `SELECT fingerprint, name, run_id, annotated, created FROM documents WHERE fingerprint = ?`,
		&sqlitex.ExecOptions{
			Args: []any{fingerprint},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				rec = Record{
					Fingerprint: stmt.ColumnText(0),
					Name:        stmt.ColumnText(1),
					RunID:       stmt.ColumnText(2),
					Annotated:   stmt.ColumnText(3),
				}
				rec.Created, err = parseStamp(stmt.ColumnText(4))
				return err
			},
		})
	if err != nil {
		return Record{}, false, fmt.Errorf("lookup %s: %w", fingerprint, err)
	}
	return rec, found, nil
}

// Put stores annotated document replacing previous version with the same
// fingerprint.
func (s *Store) Put(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Created.IsZero() {
		rec.Created = time.Now()
	}
	err := sqlitex.Execute(s.conn, `INSERT INTO documents (fingerprint, name, run_id, annotated, created) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(fingerprint) DO UPDATE SET name = excluded.name, run_id = excluded.run_id, annotated = excluded.annotated, created = excluded.created`,
		&sqlitex.ExecOptions{Args: []any{rec.Fingerprint, rec.Name, rec.RunID, rec.Annotated, stamp(rec.Created)}})
	if err != nil {
		return fmt.Errorf("put %s: %w", rec.Name, err)
	}
	return nil
}

// Runs returns run history, oldest first.
func (s *Store) Runs() ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var runs []Run
	err := sqlitex.Execute(s.conn, `SELECT id, source, started, ifnull(finished, ''), ok, failed FROM runs ORDER BY started, id`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			r := Run{
				ID:     stmt.ColumnText(0),
				Source: stmt.ColumnText(1),
				OK:     stmt.ColumnInt(4),
				Failed: stmt.ColumnInt(5),
			}
			var err error
			if r.Started, err = parseStamp(stmt.ColumnText(2)); err != nil {
				return err
			}
			if finished := stmt.ColumnText(3); len(finished) != 0 {
				if r.Finished, err = parseStamp(finished); err != nil {
					return err
				}
			}
			runs = append(runs, r)
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseStamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}
