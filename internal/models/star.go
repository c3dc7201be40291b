// Package models defines the domain types for the gold star ledger.
package models

import (
	"fmt"
	"time"
)

// ActionKind says whether a StarAction granted or revoked a star.
type ActionKind string

// Action kinds. The values are the persisted wire tokens.
const (
	ActionGrant  ActionKind = "add"
	ActionRevoke ActionKind = "remove"
)

// Valid reports whether k is a known action kind.
func (k ActionKind) Valid() bool {
	return k == ActionGrant || k == ActionRevoke
}

// Label returns the human-readable name of the kind.
func (k ActionKind) Label() string {
	switch k {
	case ActionGrant:
		return "grant"
	case ActionRevoke:
		return "revoke"
	default:
		return string(k)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ActionKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("models: invalid action kind %q", string(k))
	}
	return []byte(k), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Only the wire tokens are accepted.
func (k *ActionKind) UnmarshalText(b []byte) error {
	v := ActionKind(b)
	if !v.Valid() {
		return fmt.Errorf("models: invalid action kind %q", string(b))
	}
	*k = v
	return nil
}

// Person is a tracked individual.
type Person struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Stars        int        `json:"stars"`
	DateAdded    time.Time  `json:"dateAdded"`
	LastStarDate *time.Time `json:"lastStarDate,omitempty"`
}

// StarAction is one entry in the audit log.
// PersonID is a back-reference; the person may no longer exist.
type StarAction struct {
	ID        string     `json:"id"`
	PersonID  string     `json:"personId"`
	Kind      ActionKind `json:"action"`
	Timestamp time.Time  `json:"timestamp"`
	Reason    *string    `json:"reason,omitempty"`
}

// Snapshot is the complete persisted state of the ledger.
type Snapshot struct {
	People  []Person     `json:"people"`
	Actions []StarAction `json:"actions"`
}
