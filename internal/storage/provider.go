// Package storage defines durable key/value storage for ledger snapshots.
package storage

// Provider stores opaque snapshot records under string keys.
type Provider interface {
	// Load returns the record stored under key, or apperr.ErrNotFound.
	Load(key string) ([]byte, error)
	// Save replaces the record stored under key.
	Save(key string, data []byte) error
	// Close releases any resources held by the provider.
	Close() error
}
