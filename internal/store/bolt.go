package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lox/undercover/internal/game"
	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// BoltStore keeps the session in a bbolt database under the sessions bucket.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database at path.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	// Another process holding the file lock fails fast instead of hanging.
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Load(context.Context) (*game.Session, error) {
	var data []byte
	if err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(sessionsBucket)
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(Key)); v != nil {
			// v is only valid for the life of the transaction.
			data = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return decode(data)
}

func (b *BoltStore) Save(_ context.Context, s game.Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	if err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(sessionsBucket)
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		return bucket.Put([]byte(Key), data)
	}); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (b *BoltStore) Clear(context.Context) error {
	if err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(sessionsBucket)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(Key))
	}); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

func (b *BoltStore) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("error close session db: %w", err)
	}
	return nil
}
