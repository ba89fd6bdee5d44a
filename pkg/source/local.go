package source

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotExist is returned by Stat when the entry is gone.
var ErrNotExist = fs.ErrNotExist

// LocalDir is a Source backed by a plain filesystem directory
type LocalDir struct {
	dir string
}

// NewLocalDir creates a local-directory source. The path is not validated
// here; a missing directory surfaces as a List error on the next sweep.
func NewLocalDir(dir string) *LocalDir {
	return &LocalDir{dir: dir}
}

func (l *LocalDir) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Deleted between the listing and the stat; skip it.
			continue
		}
		entries = append(entries, Entry{
			Key:     filepath.Join(l.dir, de.Name()),
			Name:    de.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

func (l *LocalDir) Open(key string) (io.ReadCloser, error) {
	return os.Open(key)
}

func (l *LocalDir) Stat(key string) (Entry, error) {
	info, err := os.Stat(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, ErrNotExist
		}
		return Entry{}, err
	}
	return Entry{
		Key:     key,
		Name:    filepath.Base(key),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func (l *LocalDir) Delete(key string) error {
	return os.Remove(key)
}
