package storage

import (
	"context"
	"errors"
)

// Store failure classes. Backends wrap driver errors with one of these so callers can
// classify failures without importing a driver package.
var (
	ErrTimeout          = errors.New("store request timed out")
	ErrPermissionDenied = errors.New("store permission denied")
	ErrUnauthenticated  = errors.New("store unauthenticated")
	ErrUnavailable      = errors.New("store unavailable")
	ErrNotFound         = errors.New("document not found")
)

// Document is one (identifier, field map) pair as returned by a store.
// Fields never contain the identifier; the fetch layer attaches it.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// DocumentStore is the only capability the dashboard core needs from the backing store.
type DocumentStore interface {
	// Find returns at most limit documents of the named collection in store order.
	// The call must honour ctx cancellation and deadline.
	Find(ctx context.Context, collection string, limit int) ([]Document, error)

	// Update merges fields into the document identified by id.
	// Returns ErrNotFound (wrapped) when no document has that id.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
