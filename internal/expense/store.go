package expense

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"
)

const stateBucketName = "state"

const (
	receiptsKey   = "receipts"
	formConfigKey = "form_config"
	themeKey      = "theme"
)

// Store defines the interface for persisting the three independent state
// entries: the receipt list, the form configuration, and the theme.
//
// All operations are best-effort. Loads degrade to the empty list or the
// documented default when the underlying entry is missing or corrupted, and
// saves swallow write failures after logging them. No error ever reaches
// the caller.
type Store interface {
	// LoadReceipts returns all persisted receipts, newest first.
	LoadReceipts() []Receipt

	// SaveReceipts replaces the persisted receipt list.
	SaveReceipts(receipts []Receipt)

	// LoadFormConfig returns the form configuration with all five field
	// identifiers present.
	LoadFormConfig() FormConfig

	// SaveFormConfig replaces the persisted form configuration.
	SaveFormConfig(config FormConfig)

	// LoadTheme returns the display mode, "light" or "dark".
	LoadTheme() string

	// SaveTheme replaces the persisted display mode.
	SaveTheme(theme string)

	// Close closes the store.
	Close() error
}

// BoltStore implements the Store interface using BoltDB
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore creates a new BoltStore instance
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(stateBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// load reads the raw bytes for a state key; nil when absent.
func (b *BoltStore) load(key string) []byte {
	var data []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(stateBucketName)).Get([]byte(key))
		if v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		slog.Warn("Failed to read state entry", "key", key, "error", err)
		return nil
	}
	return data
}

// save writes raw bytes for a state key, logging and swallowing failures.
func (b *BoltStore) save(key string, data []byte) {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(stateBucketName)).Put([]byte(key), data)
	})
	if err != nil {
		slog.Warn("Failed to write state entry", "key", key, "error", err)
	}
}

// LoadReceipts returns all persisted receipts. Missing or corrupted state
// yields the empty list.
func (b *BoltStore) LoadReceipts() []Receipt {
	data := b.load(receiptsKey)
	if data == nil {
		return []Receipt{}
	}
	var receipts []Receipt
	if err := json.Unmarshal(data, &receipts); err != nil {
		slog.Warn("Discarding corrupted receipt list", "error", err)
		return []Receipt{}
	}
	if receipts == nil {
		receipts = []Receipt{}
	}
	return receipts
}

// SaveReceipts replaces the persisted receipt list.
func (b *BoltStore) SaveReceipts(receipts []Receipt) {
	data, err := json.Marshal(receipts)
	if err != nil {
		slog.Warn("Failed to marshal receipt list", "error", err)
		return
	}
	b.save(receiptsKey, data)
}

// LoadFormConfig returns the form configuration. Missing or corrupted state
// yields the default configuration; partial configurations are normalized so
// all five field identifiers are present.
func (b *BoltStore) LoadFormConfig() FormConfig {
	data := b.load(formConfigKey)
	if data == nil {
		return DefaultFormConfig()
	}
	var config FormConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("Discarding corrupted form config", "error", err)
		return DefaultFormConfig()
	}
	return config.Normalize()
}

// SaveFormConfig replaces the persisted form configuration.
func (b *BoltStore) SaveFormConfig(config FormConfig) {
	data, err := json.Marshal(config.Normalize())
	if err != nil {
		slog.Warn("Failed to marshal form config", "error", err)
		return
	}
	b.save(formConfigKey, data)
}

// LoadTheme returns the display mode, defaulting to "light".
func (b *BoltStore) LoadTheme() string {
	data := b.load(themeKey)
	if string(data) == "dark" {
		return "dark"
	}
	return "light"
}

// SaveTheme replaces the persisted display mode.
func (b *BoltStore) SaveTheme(theme string) {
	b.save(themeKey, []byte(theme))
}

// Close closes the database connection
func (b *BoltStore) Close() error {
	return b.db.Close()
}
