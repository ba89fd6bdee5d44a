package monitor

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/relaydrop/cli/pkg/config"
	"github.com/relaydrop/cli/pkg/history"
	"github.com/relaydrop/cli/pkg/model"
	"github.com/relaydrop/cli/pkg/notify"
	"github.com/relaydrop/cli/pkg/transfer"
)

// startReceiver runs a transfer.Server on a free port, returning it and its
// storage directory.
func startReceiver(t *testing.T) (*transfer.Server, string) {
	t.Helper()
	dir := t.TempDir()
	srv := transfer.NewServer(dir)
	if err := srv.Listen(0); err != nil {
		t.Fatalf("receiver Listen failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return srv, dir
}

// writeSettings persists a single-folder configuration and returns the store.
func writeSettings(t *testing.T, watchDir string, port int, action model.TransferAction) *config.Store {
	t.Helper()
	store := config.NewStore(t.TempDir())
	settings := model.DefaultSettings()
	settings.Monitor.DefaultPort = port
	settings.Folders = []model.FolderConfig{{
		ID:      "f1",
		Path:    watchDir,
		Enabled: true,
		Action:  action,
		Filter:  model.AutoDetectSettings{Enabled: true, Extensions: []string{".txt"}},
	}}
	if err := store.Save(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	return store
}

func openHistory(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// runMonitor starts the monitor and returns a stop function.
func runMonitor(t *testing.T, m *Monitor) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := m.Run(ctx); err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestEndToEndCopy(t *testing.T) {
	srv, recvDir := startReceiver(t)
	watchDir := t.TempDir()

	store := writeSettings(t, watchDir, srv.Port(), model.ActionCopy)
	hist := openHistory(t)
	m := New(store, notify.Discard{}, nil, hist)
	stop := runMonitor(t, m)
	defer stop()

	data := []byte("0123456789")
	srcPath := filepath.Join(watchDir, "hello.txt")
	if err := os.WriteFile(srcPath, data, 0o644); err != nil {
		t.Fatalf("failed to drop file: %v", err)
	}

	received := filepath.Join(recvDir, "hello.txt")
	waitFor(t, 10*time.Second, func() bool {
		_, err := os.Stat(received)
		return err == nil
	}, "file never arrived at the receiver")

	got, err := os.ReadFile(received)
	if err != nil {
		t.Fatalf("failed to read received file: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("received %q, want %q", got, data)
	}

	// Copy action leaves the source in place.
	if _, err := os.Stat(srcPath); err != nil {
		t.Errorf("source removed despite copy action: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		records, _ := hist.RecentTransfers(10)
		return len(records) == 1
	}, "no transfer record written")
	records, _ := hist.RecentTransfers(10)
	record := records[0]
	if record.Status != model.TransferStatusSent || record.Name != "hello.txt" || record.Size != 10 {
		t.Errorf("unexpected record: %+v", record)
	}
	if record.Hash == "" {
		t.Error("record hash missing")
	}
}

func TestEndToEndMoveDeletesSource(t *testing.T) {
	srv, recvDir := startReceiver(t)
	watchDir := t.TempDir()

	store := writeSettings(t, watchDir, srv.Port(), model.ActionMove)
	m := New(store, notify.Discard{}, nil, nil)
	stop := runMonitor(t, m)
	defer stop()

	srcPath := filepath.Join(watchDir, "gone.txt")
	if err := os.WriteFile(srcPath, []byte("move me"), 0o644); err != nil {
		t.Fatalf("failed to drop file: %v", err)
	}

	waitFor(t, 10*time.Second, func() bool {
		_, err := os.Stat(filepath.Join(recvDir, "gone.txt"))
		return err == nil
	}, "file never arrived at the receiver")

	waitFor(t, 5*time.Second, func() bool {
		_, err := os.Stat(srcPath)
		return os.IsNotExist(err)
	}, "source not deleted after move")
}

func TestEndToEndUnreachableReceiverRetries(t *testing.T) {
	// Reserve a port with nothing listening on it.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	watchDir := t.TempDir()
	store := writeSettings(t, watchDir, port, model.ActionCopy)
	hist := openHistory(t)
	m := New(store, notify.Discard{}, nil, hist)
	stop := runMonitor(t, m)
	defer stop()

	if err := os.WriteFile(filepath.Join(watchDir, "stuck.txt"), []byte("payload"), 0o644); err != nil {
		t.Fatalf("failed to drop file: %v", err)
	}

	// The key is released after each failure, so successive sweeps keep
	// retrying the transfer.
	waitFor(t, 15*time.Second, func() bool {
		records, _ := hist.RecentTransfers(10)
		failed := 0
		for _, r := range records {
			if r.Status == model.TransferStatusFailed {
				failed++
			}
		}
		return failed >= 2
	}, "expected at least two failed transfer attempts")

	// The file still exists and was never delivered anywhere.
	if _, err := os.Stat(filepath.Join(watchDir, "stuck.txt")); err != nil {
		t.Errorf("source must survive failed transfers: %v", err)
	}
}

func TestEndToEndTwoFoldersNoReTransfer(t *testing.T) {
	srv, recvDir := startReceiver(t)
	watchA := t.TempDir()
	watchB := t.TempDir()

	store := config.NewStore(t.TempDir())
	settings := model.DefaultSettings()
	settings.Monitor.DefaultPort = srv.Port()
	filter := model.AutoDetectSettings{Enabled: true, Extensions: []string{".txt"}}
	settings.Folders = []model.FolderConfig{
		{ID: "f1", Path: watchA, Enabled: true, Action: model.ActionCopy, Filter: filter},
		{ID: "f2", Path: watchB, Enabled: true, Action: model.ActionCopy, Filter: filter},
	}
	if err := store.Save(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	m := New(store, notify.Discard{}, nil, nil)
	stop := runMonitor(t, m)
	defer stop()

	if err := os.WriteFile(filepath.Join(watchA, "alpha.txt"), []byte("from a"), 0o644); err != nil {
		t.Fatalf("failed to drop file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(watchB, "beta.txt"), []byte("from b"), 0o644); err != nil {
		t.Fatalf("failed to drop file: %v", err)
	}

	waitFor(t, 10*time.Second, func() bool {
		_, errA := os.Stat(filepath.Join(recvDir, "alpha.txt"))
		_, errB := os.Stat(filepath.Join(recvDir, "beta.txt"))
		return errA == nil && errB == nil
	}, "files from both folders never arrived")

	// The receiver suffixes colliding names, so a re-send of an unchanged
	// file would show up as an extra file across later sweeps.
	time.Sleep(3 * time.Second)
	entries, err := os.ReadDir(recvDir)
	if err != nil {
		t.Fatalf("failed to read receiver dir: %v", err)
	}
	if len(entries) != 2 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("receiver holds %d files %v, want exactly 2", len(entries), names)
	}
}

func TestRemovedFolderSweepStatePruned(t *testing.T) {
	store := writeSettings(t, t.TempDir(), 12345, model.ActionCopy)
	m := New(store, notify.Discard{}, nil, nil)

	settings := model.DefaultSettings()
	settings.Folders = []model.FolderConfig{
		{ID: "f1", Path: t.TempDir(), Enabled: true, Action: model.ActionCopy},
		{ID: "f2", Path: t.TempDir(), Enabled: true, Action: model.ActionCopy},
	}
	if err := m.cycle(context.Background(), settings); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}
	if _, ok := m.lastSweep["f2"]; !ok {
		t.Fatal("expected a sweep timestamp for f2")
	}

	settings.Folders = settings.Folders[:1]
	if err := m.cycle(context.Background(), settings); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}
	if _, ok := m.lastSweep["f1"]; !ok {
		t.Error("timestamp for the remaining folder must survive")
	}
	if _, ok := m.lastSweep["f2"]; ok {
		t.Error("timestamp for the removed folder not pruned")
	}
}

func TestFilteredFileNeverTransferred(t *testing.T) {
	srv, recvDir := startReceiver(t)
	watchDir := t.TempDir()

	store := writeSettings(t, watchDir, srv.Port(), model.ActionCopy)
	m := New(store, notify.Discard{}, nil, nil)
	stop := runMonitor(t, m)
	defer stop()

	if err := os.WriteFile(filepath.Join(watchDir, "skip.bin"), []byte("nope"), 0o644); err != nil {
		t.Fatalf("failed to drop file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(watchDir, "take.txt"), []byte("yes"), 0o644); err != nil {
		t.Fatalf("failed to drop file: %v", err)
	}

	waitFor(t, 10*time.Second, func() bool {
		_, err := os.Stat(filepath.Join(recvDir, "take.txt"))
		return err == nil
	}, ".txt file never arrived")

	if _, err := os.Stat(filepath.Join(recvDir, "skip.bin")); !os.IsNotExist(err) {
		t.Error(".bin file should have been filtered out")
	}
}
