package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// KV is a local key-value store holding whole blobs per key.
type KV interface {
	// Get returns the blob for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set overwrites the blob for key.
	Set(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// SQLiteFileName is the database file created inside the data directory by
// the sqlite backend.
const SQLiteFileName = "sip.db"

var ErrInvalidKey = errors.New("invalid storage key")

// Backends lists all valid backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// Open creates the KV for the named backend rooted at dir.
func Open(backend, dir string) (KV, error) {
	switch backend {
	case BackendFile, "":
		return NewFileKV(dir), nil
	case BackendSQLite:
		return NewSQLiteKV(filepath.Join(dir, SQLiteFileName))
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q (want one of %v)", backend, Backends())
	}
}

// validateKey rejects keys that cannot be used as a single file name.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
