package monitor

import (
	"fmt"
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FolderWatcher wraps fsnotify to wake the poll loop early when something
// changes in a monitored folder. Detection itself still happens in the
// polling sweep; missing an event only means waiting out the poll interval.
type FolderWatcher struct {
	watcher *fsnotify.Watcher
	wake    chan<- struct{}
	mu      sync.Mutex
	watched map[string]bool
	closed  bool
}

// NewFolderWatcher creates a watcher that signals wake on any event
func NewFolderWatcher(wake chan<- struct{}) (*FolderWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FolderWatcher{
		watcher: watcher,
		wake:    wake,
		watched: make(map[string]bool),
	}
	go fw.eventLoop()
	return fw, nil
}

// Update reconciles the watch list against the currently enabled folder
// paths. Unwatchable paths are skipped; the poll loop covers them anyway.
func (fw *FolderWatcher) Update(paths []string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed {
		return
	}

	wanted := make(map[string]bool, len(paths))
	for _, path := range paths {
		wanted[path] = true
		if fw.watched[path] {
			continue
		}
		if err := fw.watcher.Add(path); err != nil {
			log.Printf("monitor: cannot watch %s: %v", path, err)
			continue
		}
		fw.watched[path] = true
	}

	for path := range fw.watched {
		if !wanted[path] {
			fw.watcher.Remove(path)
			delete(fw.watched, path)
		}
	}
}

func (fw *FolderWatcher) eventLoop() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				select {
				case fw.wake <- struct{}{}:
				default:
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("monitor: watch error: %v", err)
		}
	}
}

// Close stops the watcher.
func (fw *FolderWatcher) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.closed {
		return nil
	}
	fw.closed = true
	return fw.watcher.Close()
}
