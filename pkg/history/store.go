// Package history persists transfer records in a local bbolt database. The
// scan caches themselves are deliberately not persisted; only completed and
// failed transfer attempts leave a trace here.
package history

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/relaydrop/cli/pkg/model"
	bolt "go.etcd.io/bbolt"
)

// Store wraps the bbolt database holding transfer records and counters
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path and ensures the buckets
// exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []model.Store{model.KVConfig, model.Transfers} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTransfer appends a transfer record. Records are keyed by start time so
// a cursor walk returns them in chronological order.
func (s *Store) SaveTransfer(record *model.TransferRecord) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal transfer record: %w", err)
	}
	key := fmt.Sprintf("%020d-%s", record.StartedAt, record.ID)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(model.Transfers)).Put([]byte(key), value)
	})
}

// RecentTransfers returns up to limit records, newest first.
func (s *Store) RecentTransfers(limit int) ([]model.TransferRecord, error) {
	records := make([]model.TransferRecord, 0, limit)
	err := s.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket([]byte(model.Transfers)).Cursor()
		for k, v := cursor.Last(); k != nil && len(records) < limit; k, v = cursor.Prev() {
			var record model.TransferRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to unmarshal transfer record: %w", err)
			}
			records = append(records, record)
		}
		return nil
	})
	return records, err
}

// IncrementTransferCount bumps the lifetime transfer counter and returns the
// new value.
func (s *Store) IncrementTransferCount() (int64, error) {
	var count int64
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(model.KVConfig))
		if value := bucket.Get([]byte(model.TransferCountKey)); value != nil {
			parsed, err := strconv.ParseInt(string(value), 10, 64)
			if err == nil {
				count = parsed
			}
		}
		count++
		return bucket.Put([]byte(model.TransferCountKey), []byte(strconv.FormatInt(count, 10)))
	})
	return count, err
}

// TransferCount returns the lifetime transfer counter.
func (s *Store) TransferCount() (int64, error) {
	var count int64
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(model.KVConfig)).Get([]byte(model.TransferCountKey))
		if value == nil {
			return nil
		}
		parsed, err := strconv.ParseInt(string(value), 10, 64)
		if err != nil {
			return err
		}
		count = parsed
		return nil
	})
	return count, err
}
