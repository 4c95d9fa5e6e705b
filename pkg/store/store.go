// Package store persists serialized harness documents under short keys.
//
// Backends implement [Store]:
//   - [FileStore]: one JSON file per key in a directory (CLI default)
//   - [MemoryStore]: in-process map for tests and the API server
//   - store/sqlite: a single SQLite database file
//   - store/redis: Redis, for shared deployments
//   - store/mongo: a MongoDB collection
//
// Documents are stored verbatim. [Info.Hash] is the SHA-256 of the stored
// bytes so callers can tell whether a saved document changed.
//
// # Usage
//
//	st, err := store.NewFileStore("")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	info, err := store.SaveHarness(ctx, st, "sensor-loom", h)
package store

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/matzehuels/harnesskit/pkg/cache"
	hkerrors "github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/export"
	"github.com/matzehuels/harnesskit/pkg/harness"
)

// ErrNotFound is returned by Get and Delete when no document has the key.
var ErrNotFound = errors.New("document not found")

// Store is a key-value store for serialized documents.
type Store interface {
	// Put stores doc under key, replacing any previous document.
	Put(ctx context.Context, key string, doc []byte) error

	// Get returns the document stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns metadata for every stored document, sorted by key.
	List(ctx context.Context) ([]Info, error)

	// Delete removes the document stored under key or returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Info describes a stored document.
type Info struct {
	Key       string    `json:"key" bson:"_id"`
	Hash      string    `json:"hash" bson:"hash"`
	Size      int       `json:"size" bson:"size"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateKey checks that key is safe to use as a file name and a database
// key: 1-128 characters of letters, digits, '.', '_' or '-', not starting
// with a separator.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return hkerrors.New(hkerrors.ErrCodeInvalidInput, "invalid document key %q", key)
	}
	return nil
}

// NewInfo builds the metadata for doc stored under key at t.
func NewInfo(key string, doc []byte, t time.Time) Info {
	return Info{Key: key, Hash: cache.Hash(doc), Size: len(doc), UpdatedAt: t.UTC()}
}

// SaveHarness serializes h and stores the document under key.
func SaveHarness(ctx context.Context, s Store, key string, h *harness.Harness) (Info, error) {
	if err := ValidateKey(key); err != nil {
		return Info{}, err
	}
	data, err := export.Marshal(h)
	if err != nil {
		return Info{}, err
	}
	if err := s.Put(ctx, key, data); err != nil {
		return Info{}, err
	}
	return NewInfo(key, data, time.Now()), nil
}

// LoadDocument fetches and decodes the document stored under key.
func LoadDocument(ctx context.Context, s Store, key string) (*export.Document, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return export.ParseDocument(data)
}
