package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"
	"time"

	"github.com/phroun/lilduino/hal"
	"github.com/zeebo/blake3"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// ErrCorrupt is returned when a stored file no longer matches its digest.
var ErrCorrupt = errors.New("storage: file contents do not match digest")

const schema = `
CREATE TABLE IF NOT EXISTS entry (
	name     TEXT PRIMARY KEY,
	dir      INTEGER NOT NULL DEFAULT 0,
	data     BLOB,
	digest   BLOB,
	modified INTEGER NOT NULL
);
`

// SQLiteStore keeps a whole card image in one SQLite database. Every file
// carries a BLAKE3 digest that is checked on read.
type SQLiteStore struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	path string
}

// OpenSQLiteStore opens or creates the image at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite|sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open %s: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: cannot create schema in %s: %w", path, err)
	}
	return &SQLiteStore{conn: conn, path: path}, nil
}

// Path returns the database file
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

type entry struct {
	dir    bool
	data   []byte
	digest []byte
}

// lookup reads one entry; found is false when there is none.
func (s *SQLiteStore) lookup(name string) (e entry, found bool, err error) {
	err = sqlitex.Execute(s.conn, "SELECT dir, data, digest FROM entry WHERE name = ?;", &sqlitex.ExecOptions{
		Args: []any{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			e.dir = stmt.ColumnInt(0) != 0
			e.data = make([]byte, stmt.ColumnLen(1))
			stmt.ColumnBytes(1, e.data)
			e.digest = make([]byte, stmt.ColumnLen(2))
			stmt.ColumnBytes(2, e.digest)
			return nil
		},
	})
	return e, found, err
}

// checkParent requires the directory holding name to exist.
func (s *SQLiteStore) checkParent(name string) error {
	parent := path.Dir(name)
	if parent == "." {
		return nil
	}
	e, found, err := s.lookup(parent)
	if err != nil {
		return err
	}
	if !found || !e.dir {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return nil
}

func (s *SQLiteStore) ReadFile(name string) ([]byte, error) {
	key, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found, err := s.lookup(key)
	switch {
	case err != nil:
		return nil, err
	case !found:
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	case e.dir:
		return nil, fmt.Errorf("storage: %s is a directory", name)
	}
	sum := blake3.Sum256(e.data)
	if !bytes.Equal(sum[:], e.digest) {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, name)
	}
	return e.data, nil
}

func (s *SQLiteStore) WriteFile(name string, data []byte) (int, error) {
	key, err := cleanName(name)
	if err != nil {
		return 0, err
	}
	if key == "" {
		return 0, fmt.Errorf("storage: empty file name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkParent(key); err != nil {
		return 0, err
	}
	e, found, err := s.lookup(key)
	if err != nil {
		return 0, err
	}
	if found && e.dir {
		return 0, fmt.Errorf("storage: %s is a directory", name)
	}
	sum := blake3.Sum256(data)
	err = sqlitex.Execute(s.conn,
		"INSERT OR REPLACE INTO entry (name, dir, data, digest, modified) VALUES (?, 0, ?, ?, ?);",
		&sqlitex.ExecOptions{Args: []any{key, data, sum[:], time.Now().Unix()}})
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

func (s *SQLiteStore) Mkdir(name string) error {
	key, err := cleanName(name)
	if err != nil {
		return err
	}
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found, err := s.lookup(key)
	if err != nil {
		return err
	}
	if found {
		if e.dir {
			return nil
		}
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrExist}
	}
	if err := s.checkParent(key); err != nil {
		return err
	}
	return sqlitex.Execute(s.conn,
		"INSERT INTO entry (name, dir, modified) VALUES (?, 1, ?);",
		&sqlitex.ExecOptions{Args: []any{key, time.Now().Unix()}})
}

func (s *SQLiteStore) Remove(name string) error {
	key, err := cleanName(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found, err := s.lookup(key)
	if err != nil || !found {
		return err
	}
	if e.dir {
		return fmt.Errorf("storage: %s is a directory", name)
	}
	return sqlitex.Execute(s.conn, "DELETE FROM entry WHERE name = ?;", &sqlitex.ExecOptions{Args: []any{key}})
}

func (s *SQLiteStore) Rmdir(name string) error {
	key, err := cleanName(name)
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("storage: cannot remove the store root")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found, err := s.lookup(key)
	switch {
	case err != nil:
		return err
	case !found:
		return &fs.PathError{Op: "rmdir", Path: name, Err: fs.ErrNotExist}
	case !e.dir:
		return fmt.Errorf("storage: %s is not a directory", name)
	}

	// children sort between "key/" and "key0" ('0' follows '/')
	children := 0
	err = sqlitex.Execute(s.conn, "SELECT count(*) FROM entry WHERE name >= ? AND name < ?;", &sqlitex.ExecOptions{
		Args: []any{key + "/", key + "0"},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			children = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("storage: %s: %w", name, hal.ErrNotEmpty)
	}
	return sqlitex.Execute(s.conn, "DELETE FROM entry WHERE name = ?;", &sqlitex.ExecOptions{Args: []any{key}})
}

// Usage reports the number of files and their total size.
func (s *SQLiteStore) Usage() (files int, size int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err = sqlitex.Execute(s.conn, "SELECT count(*), coalesce(sum(length(data)), 0) FROM entry WHERE dir = 0;", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			files = stmt.ColumnInt(0)
			size = stmt.ColumnInt64(1)
			return nil
		},
	})
	return files, size, err
}
