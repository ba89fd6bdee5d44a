// Package source abstracts the backend a monitored folder lives on, so the
// scanner and transfer client never touch the filesystem directly. The local
// directory implementation is the only backend here; an environment with
// opaque storage handles would supply its own.
package source

import (
	"context"
	"io"
	"time"
)

// Entry is a single file discovered in a folder listing
type Entry struct {
	Key     string // Stable identifier, unique within the source (absolute path for local files)
	Name    string // Base name, as presented to the transfer peer
	Size    int64
	ModTime time.Time
}

// Fingerprint returns the (size, lastModified) pair used for change detection.
func (e Entry) Fingerprint() (int64, int64) {
	return e.Size, e.ModTime.UnixMilli()
}

// Source exposes the operations the scanner and transfer client need from a
// folder backend
type Source interface {
	// List returns the current entries directly under the folder.
	// Subdirectories are not descended into.
	List(ctx context.Context) ([]Entry, error)

	// Open opens the entry's content for reading.
	Open(key string) (io.ReadCloser, error)

	// Stat re-reads a single entry's metadata. Returns ErrNotExist if the
	// entry has disappeared.
	Stat(key string) (Entry, error)

	// Delete removes the entry (used for the move action).
	Delete(key string) error
}
