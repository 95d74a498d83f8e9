package storage

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/phroun/lilduino/hal"
	"zombiezen.com/go/sqlite/sqlitex"
)

// backends runs fn against a fresh store of each kind.
func backends(t *testing.T, fn func(t *testing.T, s hal.FileStore)) {
	t.Run("dir", func(t *testing.T) {
		s, err := NewDirStore(filepath.Join(t.TempDir(), "sd"))
		if err != nil {
			t.Fatal(err)
		}
		fn(t, s)
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "card.db"))
		if err != nil {
			t.Fatal(err)
		}
		defer s.Close()
		fn(t, s)
	})
}

func TestWriteRead(t *testing.T) {
	backends(t, func(t *testing.T, s hal.FileStore) {
		n, err := s.WriteFile("boot.lil", []byte("print hi"))
		if err != nil || n != 8 {
			t.Fatalf("WriteFile = %d, %v", n, err)
		}
		if _, err := s.WriteFile("/boot.lil", []byte("print bye")); err != nil {
			t.Fatal(err)
		}
		data, err := s.ReadFile("boot.lil")
		if err != nil || string(data) != "print bye" {
			t.Errorf("ReadFile = %q, %v", data, err)
		}

		if _, err := s.ReadFile("missing.lil"); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("missing file: err = %v, want fs.ErrNotExist", err)
		}
		if _, err := s.WriteFile("nodir/x.txt", []byte("x")); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("missing parent: err = %v, want fs.ErrNotExist", err)
		}
	})
}

func TestDirectories(t *testing.T) {
	backends(t, func(t *testing.T, s hal.FileStore) {
		if err := s.Mkdir("logs"); err != nil {
			t.Fatal(err)
		}
		if err := s.Mkdir("logs"); err != nil {
			t.Errorf("second Mkdir: %v", err)
		}
		if _, err := s.WriteFile("logs/a.txt", []byte("a")); err != nil {
			t.Fatal(err)
		}

		if err := s.Rmdir("logs"); !errors.Is(err, hal.ErrNotEmpty) {
			t.Errorf("Rmdir non-empty: err = %v, want ErrNotEmpty", err)
		}
		if err := s.Remove("logs"); err == nil {
			t.Error("Remove on a directory should fail")
		}

		if err := s.Remove("logs/a.txt"); err != nil {
			t.Fatal(err)
		}
		if err := s.Remove("logs/a.txt"); err != nil {
			t.Errorf("removing a missing file: %v", err)
		}
		if err := s.Rmdir("logs"); err != nil {
			t.Errorf("Rmdir empty: %v", err)
		}
		if err := s.Rmdir("logs"); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Rmdir missing: err = %v", err)
		}
		if err := s.Rmdir("/"); err == nil {
			t.Error("the root cannot be removed")
		}
	})
}

func TestRmdirNonASCII(t *testing.T) {
	backends(t, func(t *testing.T, s hal.FileStore) {
		if err := s.Mkdir("é"); err != nil {
			t.Fatal(err)
		}
		if _, err := s.WriteFile("é/x", []byte("x")); err != nil {
			t.Fatal(err)
		}
		if err := s.Rmdir("é"); !errors.Is(err, hal.ErrNotEmpty) {
			t.Errorf("Rmdir non-empty: err = %v, want ErrNotEmpty", err)
		}
		if _, err := s.WriteFile("é/y", []byte("y")); err != nil {
			t.Errorf("directory should survive a refused Rmdir: %v", err)
		}
		// a sibling sharing the prefix is not a child
		if err := s.Mkdir("éa"); err != nil {
			t.Fatal(err)
		}
		for _, name := range []string{"é/x", "é/y"} {
			if err := s.Remove(name); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.Rmdir("é"); err != nil {
			t.Errorf("Rmdir empty: %v", err)
		}
	})
}

func TestEscapingNamesRejected(t *testing.T) {
	backends(t, func(t *testing.T, s hal.FileStore) {
		for _, name := range []string{"../x", "a/../../x", `..\x`} {
			if _, err := s.WriteFile(name, []byte("x")); !errors.Is(err, ErrOutsideRoot) {
				t.Errorf("WriteFile(%q): err = %v, want ErrOutsideRoot", name, err)
			}
		}
	})
}

func TestCleanName(t *testing.T) {
	tests := map[string]string{
		"a.txt":        "a.txt",
		"/a.txt":       "a.txt",
		"dir//b.txt":   "dir/b.txt",
		`dir\c.txt`:    "dir/c.txt",
		"./d.txt":      "d.txt",
		"/":            "",
		"":             "",
		"logs/./x.txt": "logs/x.txt",
	}
	for in, want := range tests {
		got, err := cleanName(in)
		if err != nil || got != want {
			t.Errorf("cleanName(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestSQLiteDetectsCorruption(t *testing.T) {
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "card.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.WriteFile("cal.txt", []byte("offset=3")); err != nil {
		t.Fatal(err)
	}
	if err := execSQL(s, "UPDATE entry SET data = ? WHERE name = ?;", []byte("offset=9"), "cal.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ReadFile("cal.txt"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("err = %v, want ErrCorrupt", err)
	}
}

func TestSQLitePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.db")
	s, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Mkdir("cfg"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.WriteFile("cfg/net.txt", []byte("home")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	data, err := s.ReadFile("cfg/net.txt")
	if err != nil || string(data) != "home" {
		t.Errorf("ReadFile after reopen = %q, %v", data, err)
	}

	files, size, err := s.Usage()
	if err != nil || files != 1 || size != 4 {
		t.Errorf("Usage = %d files, %d bytes, %v", files, size, err)
	}
}

func TestSQLiteMkdirOverFile(t *testing.T) {
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "card.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.WriteFile("x", []byte("file")); err != nil {
		t.Fatal(err)
	}
	if err := s.Mkdir("x"); !errors.Is(err, fs.ErrExist) {
		t.Errorf("err = %v, want fs.ErrExist", err)
	}
}

// execSQL runs a statement directly on the store's connection.
func execSQL(s *SQLiteStore, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sqlitex.Execute(s.conn, query, &sqlitex.ExecOptions{Args: args})
}
