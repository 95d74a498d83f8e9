// Package storage provides hal.FileStore backends: a host directory, and a
// single SQLite file standing in for an SD card image.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/phroun/lilduino/hal"
)

// ErrOutsideRoot is returned for a name that climbs above the store root.
var ErrOutsideRoot = errors.New("storage: path escapes the store root")

// cleanName reduces a script-supplied name to a slash-separated path
// relative to the store root. "" means the root itself.
func cleanName(name string) (string, error) {
	slashed := strings.ReplaceAll(name, "\\", "/")
	for _, part := range strings.Split(slashed, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %s", ErrOutsideRoot, name)
		}
	}
	return strings.TrimPrefix(path.Clean("/"+slashed), "/"), nil
}

// DirStore keeps files under a host directory.
type DirStore struct {
	root string
}

// NewDirStore opens root, creating it if needed.
func NewDirStore(root string) (*DirStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create %s: %w", root, err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot resolve %s: %w", root, err)
	}
	return &DirStore{root: abs}, nil
}

// Root returns the host directory
func (d *DirStore) Root() string {
	return d.root
}

func (d *DirStore) path(name string) (string, error) {
	rel, err := cleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.root, filepath.FromSlash(rel)), nil
}

func (d *DirStore) ReadFile(name string) ([]byte, error) {
	p, err := d.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (d *DirStore) WriteFile(name string, data []byte) (int, error) {
	p, err := d.path(name)
	if err != nil {
		return 0, err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func (d *DirStore) Mkdir(name string) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	err = os.Mkdir(p, 0o755)
	if errors.Is(err, fs.ErrExist) {
		if info, serr := os.Stat(p); serr == nil && info.IsDir() {
			return nil
		}
	}
	return err
}

func (d *DirStore) Remove(name string) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("storage: %s is a directory", name)
	}
	return os.Remove(p)
}

func (d *DirStore) Rmdir(name string) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	if p == d.root {
		return fmt.Errorf("storage: cannot remove the store root")
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("storage: %s: %w", name, hal.ErrNotEmpty)
	}
	return os.Remove(p)
}
