// Package scanner implements the change-detection sweep and the polling
// monitor service. Each sweep lists a folder, diffs entries against a
// fingerprint snapshot, filters the new and modified ones, waits for them to
// stabilize, and hands them off for transfer.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/relaydrop/cli/pkg/model"
	"github.com/relaydrop/cli/pkg/source"
)

const (
	// ProcessedSetLimit bounds the processed-set; past it the whole set is
	// cleared rather than evicted entry by entry.
	ProcessedSetLimit = 1000

	// StabilizationMax caps the per-entry stabilization wait regardless of
	// the configured folder delay.
	StabilizationMax = 2 * time.Second
)

// DispatchFunc hands a qualifying entry to the transfer pipeline. The scanner
// does not wait for the transfer to finish.
type DispatchFunc func(folder model.FolderConfig, src source.Source, entry source.Entry, class Classification)

// ShareFunc fires the share side-effect for a newly detected entry.
type ShareFunc func(folder model.FolderConfig, entry source.Entry)

// Scanner owns the per-instance detection state. All state lives on the
// instance, nothing is process-global, so independent scanners never collide.
type Scanner struct {
	cache     *Snapshot // mutated only from Sweep
	processed *KeySet
	shared    *KeySet
	retries   *KeySet // keys whose transfer failed, drained at the next sweep
	stats     *Stats
	dispatch  DispatchFunc
	share     ShareFunc
}

// New creates a scanner with fresh state. dispatch must be non-nil; share may
// be nil when auto-share is unused.
func New(dispatch DispatchFunc, share ShareFunc) *Scanner {
	return &Scanner{
		cache:     NewSnapshot(),
		processed: NewBoundedKeySet(ProcessedSetLimit),
		shared:    NewKeySet(),
		retries:   NewKeySet(),
		stats:     NewStats(),
		dispatch:  dispatch,
		share:     share,
	}
}

// Stats returns the activity counters.
func (s *Scanner) Stats() *Stats {
	return s.stats
}

// Complete confirms a dispatched entry, freeing its processed-set slot. The
// fingerprint cache keeps the entry from being re-dispatched while it stays
// unchanged.
func (s *Scanner) Complete(key string) {
	s.processed.Remove(key)
}

// ReleaseFailed marks a dispatched entry as failed so the next sweep retries
// it. Safe to call from transfer goroutines: the fingerprint cache itself is
// only touched from inside Sweep, which drains this set first.
func (s *Scanner) ReleaseFailed(key string) {
	s.processed.Remove(key)
	s.retries.Add(key)
}

// Sweep runs one detection pass over the folder. Listing failure is returned
// to the caller, which logs and retries on the next cycle; it is never fatal.
func (s *Scanner) Sweep(ctx context.Context, folder model.FolderConfig, src source.Source, globalAutoShare bool) error {
	// Forget fingerprints of failed transfers so they classify as new again.
	for _, key := range s.retries.Drain() {
		s.cache.Forget(key)
	}

	entries, err := src.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", folder.Name(), err)
	}
	s.stats.AddSweep()

	present := make(map[string]bool, len(entries))
	for _, entry := range entries {
		present[entry.Key] = true

		class := s.cache.Classify(entry)
		if class == ClassUnchanged {
			continue
		}
		if s.processed.Contains(entry.Key) {
			continue
		}

		s.stats.AddDetected(class)

		if !Accept(folder.Filter, entry, time.Now()) {
			s.stats.AddFiltered()
			continue
		}

		ready, fresh, err := s.stabilize(ctx, src, entry, folder.ScanDelay())
		if err != nil {
			return err
		}
		if !ready {
			// Still being written or already gone; next sweep picks it up.
			continue
		}

		if s.processed.Add(entry.Key) {
			log.Printf("scanner: processed-set limit reached, cleared")
		}
		s.cache.Update(folder.ID, fresh)
		s.stats.AddDispatched()
		s.dispatch(folder, src, fresh, class)

		if class == ClassNew && globalAutoShare && folder.AutoShare && s.share != nil {
			if !s.shared.Contains(entry.Key) {
				s.shared.Add(entry.Key)
				s.stats.AddShared()
				s.share(folder, fresh)
			}
		}
	}

	// Entries that vanished from this folder's listing are purged everywhere.
	for _, key := range s.cache.PurgeAbsent(folder.ID, present) {
		s.processed.Remove(key)
		s.shared.Remove(key)
	}

	return nil
}

// stabilize waits the folder's delay (capped at StabilizationMax) and then
// re-checks that the entry still exists, is non-empty, and stopped growing.
// A heuristic, not a guarantee; a concurrent writer can still race it.
func (s *Scanner) stabilize(ctx context.Context, src source.Source, entry source.Entry, delay time.Duration) (bool, source.Entry, error) {
	if delay > StabilizationMax {
		delay = StabilizationMax
	}
	if delay > 0 {
		select {
		case <-ctx.Done():
			return false, source.Entry{}, ctx.Err()
		case <-time.After(delay):
		}
	}

	fresh, err := src.Stat(entry.Key)
	if err != nil {
		if !errors.Is(err, source.ErrNotExist) {
			log.Printf("scanner: failed to re-check %s: %v", entry.Key, err)
		}
		return false, source.Entry{}, nil
	}
	if fresh.Size == 0 {
		return false, source.Entry{}, nil
	}
	if fresh.Size != entry.Size {
		return false, source.Entry{}, nil
	}
	return true, fresh, nil
}
