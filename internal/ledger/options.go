package ledger

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultKey is the record key the ledger persists under.
const DefaultKey = "star-tracker-data"

// Option is a functional option for configuring a Store.
type Option func(*Store)

// WithKey sets the storage key for the snapshot record.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithLogger sets the logger used for persistence failures and no-ops.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides how person and action ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// WithListener registers a listener for ledger events.
func WithListener(l Listener) Option {
	return func(s *Store) {
		s.listeners = append(s.listeners, l)
	}
}

func defaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func defaultID() string {
	return uuid.NewString()
}
