// Package testutil provides shared test helpers for building ledgers.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/starford/goldstar/internal/ledger"
	"github.com/starford/goldstar/internal/storage"
)

// Epoch is the first instant handed out by Clock.
var Epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// Clock returns a time source that advances one minute per call.
func Clock() func() time.Time {
	var mu sync.Mutex
	t := Epoch
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

// IDs returns a generator of "id-1", "id-2", ...
func IDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// TestStore creates a deterministic ledger backed by memory.
func TestStore(t *testing.T, opts ...ledger.Option) (*ledger.Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	base := []ledger.Option{
		ledger.WithClock(Clock()),
		ledger.WithIDGenerator(IDs()),
		ledger.WithLogger(Logger()),
	}
	return ledger.New(mem, append(base, opts...)...), mem
}
