package history

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/relaydrop/cli/pkg/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndListTransfers(t *testing.T) {
	store := openTestStore(t)

	for i, name := range []string{"a.txt", "b.txt", "c.txt"} {
		record := &model.TransferRecord{
			ID:        name,
			Key:       "/inbox/" + name,
			Name:      name,
			Size:      int64(i + 1),
			Status:    model.TransferStatusSent,
			StartedAt: int64(1000 + i),
		}
		if err := store.SaveTransfer(record); err != nil {
			t.Fatalf("SaveTransfer failed: %v", err)
		}
	}

	records, err := store.RecentTransfers(2)
	if err != nil {
		t.Fatalf("RecentTransfers failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Newest first.
	if records[0].Name != "c.txt" || records[1].Name != "b.txt" {
		t.Errorf("unexpected order: %s, %s", records[0].Name, records[1].Name)
	}
}

func TestTransferCounter(t *testing.T) {
	store := openTestStore(t)

	if count, err := store.TransferCount(); err != nil || count != 0 {
		t.Fatalf("fresh counter: got %d, %v", count, err)
	}
	for i := int64(1); i <= 3; i++ {
		count, err := store.IncrementTransferCount()
		if err != nil {
			t.Fatalf("IncrementTransferCount failed: %v", err)
		}
		if count != i {
			t.Errorf("expected count %d, got %d", i, count)
		}
	}
}

func TestHashReaderDeterministic(t *testing.T) {
	first, err := HashReader(bytes.NewReader([]byte("0123456789")))
	if err != nil {
		t.Fatalf("HashReader failed: %v", err)
	}
	second, _ := HashReader(bytes.NewReader([]byte("0123456789")))
	if first != second {
		t.Error("same content must hash identically")
	}
	other, _ := HashReader(bytes.NewReader([]byte("different")))
	if first == other {
		t.Error("different content must hash differently")
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(first))
	}
}
