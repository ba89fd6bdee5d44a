// Package monitor runs the background polling service: it loads the folder
// configuration every cycle, sweeps each due folder through the scanner, and
// dispatches qualifying files to the transfer client as tracked goroutines.
package monitor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/relaydrop/cli/pkg/config"
	"github.com/relaydrop/cli/pkg/history"
	"github.com/relaydrop/cli/pkg/model"
	"github.com/relaydrop/cli/pkg/notify"
	"github.com/relaydrop/cli/pkg/scanner"
	"github.com/relaydrop/cli/pkg/source"
	"github.com/relaydrop/cli/pkg/transfer"
)

const (
	// errorBackoff is the extended delay after a cycle-level failure.
	errorBackoff = 5 * time.Second

	// shutdownTimeout bounds how long Run waits for in-flight transfers.
	shutdownTimeout = 30 * time.Second
)

// History is the slice of the history store the monitor needs
type History interface {
	SaveTransfer(record *model.TransferRecord) error
	IncrementTransferCount() (int64, error)
}

// Monitor owns the poll loop and the transfer dispatch
type Monitor struct {
	store    *config.Store
	client   *transfer.Client
	notifier notify.Notifier
	sharer   notify.Sharer
	history  History // may be nil

	scanner   *scanner.Scanner
	transfers sync.WaitGroup
	lastSweep map[string]time.Time
	wake      chan struct{}

	// newSource lets tests substitute the folder backend.
	newSource func(folder model.FolderConfig) source.Source

	ctx context.Context // set by Run, read by dispatch goroutines
}

// New creates a monitor. notifier must be non-nil (use notify.Discard to
// silence it); hist may be nil to skip persistence.
func New(store *config.Store, notifier notify.Notifier, sharer notify.Sharer, hist History) *Monitor {
	m := &Monitor{
		store:     store,
		client:    transfer.NewClient(),
		notifier:  notifier,
		sharer:    sharer,
		history:   hist,
		lastSweep: make(map[string]time.Time),
		wake:      make(chan struct{}, 1),
		newSource: func(folder model.FolderConfig) source.Source {
			return source.NewLocalDir(folder.Path)
		},
	}
	m.scanner = scanner.New(m.dispatch, m.shareFile)
	return m
}

// Stats exposes the scanner's activity counters.
func (m *Monitor) Stats() *scanner.Stats {
	return m.scanner.Stats()
}

// Run executes the poll loop until the context is cancelled. Errors inside a
// cycle are logged and answered with an extended backoff; the loop itself
// only ends with the context.
func (m *Monitor) Run(ctx context.Context) error {
	m.ctx = ctx

	watcher, err := NewFolderWatcher(m.wake)
	if err != nil {
		log.Printf("monitor: running without fsnotify wake-up: %v", err)
		watcher = nil
	}
	defer func() {
		if watcher != nil {
			watcher.Close()
		}
	}()

	for {
		settings := m.store.Load()
		if watcher != nil {
			watcher.Update(enabledPaths(settings))
		}

		delay := settings.Monitor.PollInterval()
		if err := m.cycle(ctx, settings); err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("monitor: cycle failed: %v", err)
			delay = errorBackoff
		}

		select {
		case <-ctx.Done():
		case <-m.wake:
			continue
		case <-time.After(delay):
			continue
		}
		break
	}

	return m.drain()
}

// cycle sweeps every enabled, due folder once. A panic anywhere in the sweep
// is recovered into an error so the loop can back off and carry on.
func (m *Monitor) cycle(ctx context.Context, settings *model.Settings) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()

	now := time.Now()
	configured := make(map[string]bool, len(settings.Folders))
	for _, folder := range settings.Folders {
		configured[folder.ID] = true
		if !folder.Enabled {
			continue
		}
		if last, ok := m.lastSweep[folder.ID]; ok && now.Sub(last) < folder.ScanDelay() {
			continue
		}
		m.lastSweep[folder.ID] = now

		folder := withDefaults(folder, &settings.Monitor)
		src := m.newSource(folder)
		if err := m.scanner.Sweep(ctx, folder, src, settings.Monitor.AutoShare); err != nil {
			if ctx.Err() != nil {
				return err
			}
			// Missing or unreadable folders are retried next cycle.
			log.Printf("monitor: %v", err)
		}
	}

	// Drop sweep timestamps of folders removed from the configuration.
	for id := range m.lastSweep {
		if !configured[id] {
			delete(m.lastSweep, id)
		}
	}
	return nil
}

// dispatch runs a transfer as its own goroutine, tracked so shutdown has
// something to wait on.
func (m *Monitor) dispatch(folder model.FolderConfig, src source.Source, entry source.Entry, class scanner.Classification) {
	m.transfers.Add(1)
	go func() {
		defer m.transfers.Done()
		m.transferFile(folder, src, entry, class)
	}()
}

func (m *Monitor) transferFile(folder model.FolderConfig, src source.Source, entry source.Entry, class scanner.Classification) {
	record := &model.TransferRecord{
		ID:        uuid.NewString(),
		Key:       entry.Key,
		Name:      entry.Name,
		Size:      entry.Size,
		Port:      folder.Port,
		Action:    folder.Action,
		StartedAt: time.Now().UnixMicro(),
	}

	if reader, err := src.Open(entry.Key); err == nil {
		if hash, err := history.HashReader(reader); err == nil {
			record.Hash = hash
		}
		reader.Close()
	}

	result := m.client.Send(m.ctx, src, entry, folder.Port, folder.Action)
	record.CompletedAt = time.Now().UnixMicro()

	if result.Success() {
		m.scanner.Stats().AddTransferred()
		// Confirmed complete; the fingerprint cache suppresses re-dispatch.
		m.scanner.Complete(entry.Key)
		record.Status = model.TransferStatusSent
		record.Message = result.Response.Message

		if folder.Action == model.ActionMove {
			if err := src.Delete(entry.Key); err != nil {
				// Logged, not retried; processed/cache state stands.
				log.Printf("monitor: failed to delete %s after move: %v", entry.Key, err)
			}
		}

		m.notifier.Notify(notify.Notification{
			ID:    notify.ID(entry.Name),
			Title: "Transfer complete",
			Body:  fmt.Sprintf("%s (%d bytes, %s) → port %d", entry.Name, entry.Size, class, folder.Port),
			File:  entry.Key,
			Mime:  notify.MimeType(entry.Name),
			OK:    true,
		})
	} else {
		m.scanner.Stats().AddFailed()
		// Free the key so the next sweep retries the transfer.
		m.scanner.ReleaseFailed(entry.Key)
		record.Status = model.TransferStatusFailed
		record.Message = result.Err.Error()

		m.notifier.Notify(notify.Notification{
			ID:    notify.ID(entry.Name),
			Title: "Transfer failed",
			Body:  fmt.Sprintf("%s: %v", entry.Name, result.Err),
			File:  entry.Key,
			OK:    false,
		})
	}

	if m.history != nil {
		if err := m.history.SaveTransfer(record); err != nil {
			log.Printf("monitor: failed to save transfer record: %v", err)
		}
		if _, err := m.history.IncrementTransferCount(); err != nil {
			log.Printf("monitor: failed to bump transfer counter: %v", err)
		}
	}
}

func (m *Monitor) shareFile(folder model.FolderConfig, entry source.Entry) {
	if m.sharer == nil {
		return
	}
	m.transfers.Add(1)
	go func() {
		defer m.transfers.Done()
		if err := m.sharer.Share(m.ctx, entry.Key); err != nil {
			log.Printf("monitor: share failed for %s: %v", entry.Name, err)
		}
	}()
}

// drain waits for in-flight transfers with a deadline; past it they are
// abandoned.
func (m *Monitor) drain() error {
	done := make(chan struct{})
	go func() {
		m.transfers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(shutdownTimeout):
		return fmt.Errorf("shutdown timeout: some transfers may be incomplete")
	}
}

// withDefaults fills per-folder gaps from the global settings.
func withDefaults(folder model.FolderConfig, global *model.MonitorSettings) model.FolderConfig {
	if folder.Port == 0 {
		folder.Port = global.DefaultPort
	}
	if !folder.Action.Valid() {
		folder.Action = model.ActionCopy
	}
	return folder
}

func enabledPaths(settings *model.Settings) []string {
	var paths []string
	for _, folder := range settings.Folders {
		if folder.Enabled {
			paths = append(paths, folder.Path)
		}
	}
	return paths
}
