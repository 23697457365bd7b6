package persist

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mastercactapus/autonpath/route"
)

// ErrIO is wrapped by file create, read and write failures.
var ErrIO = errors.New("route file i/o failed")

// ErrBadPath is returned for names that would escape the store directory.
var ErrBadPath = errors.New("invalid path")

// SafePath joins name onto base without letting it escape base.
func SafePath(base, name string) (bool, string) {
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		return false, ""
	}
	dir := base
	if dir == "" {
		dir = "."
	}
	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name)))
	return true, fullName
}

// FileStore keeps route files in a directory.
type FileStore struct {
	Dir string
}

func (fs FileStore) path(name string) (string, error) {
	ok, full := SafePath(fs.Dir, name)
	if !ok || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: '%s'", ErrBadPath, name)
	}
	return full, nil
}

// Path returns the file name used for name.
func (fs FileStore) Path(name string) (string, error) { return fs.path(name) }

// Load reads and decodes the named route.
func (fs FileStore) Load(name string) (route.Route, error) {
	full, err := fs.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't read '%s': %w", ErrIO, name, err)
	}
	defer f.Close()

	return Decode(f)
}

// Save encodes r into the named file, replacing it.
func (fs FileStore) Save(name string, r route.Route) error {
	return fs.write(name, func(w io.Writer) error { return Encode(w, r) })
}

// Create opens the named file for writing, creating parent directories.
func (fs FileStore) Create(name string) (io.WriteCloser, error) {
	full, err := fs.path(name)
	if err != nil {
		return nil, err
	}
	err = os.MkdirAll(filepath.Dir(full), 0755)
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't create directory for '%s': %w", ErrIO, name, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't create '%s': %w", ErrIO, name, err)
	}
	return f, nil
}

func (fs FileStore) write(name string, fn func(io.Writer) error) error {
	f, err := fs.Create(name)
	if err != nil {
		return err
	}
	err = fn(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: couldn't write '%s': %w", ErrIO, name, err)
	}
	err = f.Close()
	if err != nil {
		return fmt.Errorf("%w: couldn't write '%s': %w", ErrIO, name, err)
	}
	return nil
}

// Remove deletes the named file.
func (fs FileStore) Remove(name string) error {
	full, err := fs.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if err != nil {
		return fmt.Errorf("%w: couldn't delete '%s': %w", ErrIO, name, err)
	}
	return nil
}
