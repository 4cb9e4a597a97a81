// Package memory implements storage.DocumentStore in process, seeded from YAML fixtures.
// It backs local development and the demo configuration.
package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timely-lab/timely-admin/internal/core/storage"
	"gopkg.in/yaml.v3"
)

// fixtureFile is the on-disk YAML shape:
//
//	collections:
//	  users:
//	    - id: u1
//	      firstName: Ada
//	      createdAt: 2025-03-14T09:26:53Z
type fixtureFile struct {
	Collections map[string][]map[string]interface{} `yaml:"collections"`
}

// Store keeps documents per collection in insertion order.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]storage.Document
	failures    map[string]error
	latency     time.Duration
}

func NewStore() *Store {
	return &Store{
		collections: make(map[string][]storage.Document),
		failures:    make(map[string]error),
	}
}

// LoadFile reads fixtures from path into the store.
func (s *Store) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()

	if err := s.Load(f); err != nil {
		return fmt.Errorf("load fixtures %s: %w", path, err)
	}
	return nil
}

// Load decodes YAML fixtures from r. Documents without an id get a random UUID.
func (s *Store) Load(r io.Reader) error {
	var file fixtureFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	total := 0
	for collection, docs := range file.Collections {
		for _, fields := range docs {
			if _, err := s.Insert(collection, fields); err != nil {
				return err
			}
			total++
		}
	}
	slog.Info("[Memory] Fixtures loaded", "collections", len(file.Collections), "documents", total)
	return nil
}

// Insert appends a document and returns its id. A string "id" field is used as the
// identifier and removed from the body.
func (s *Store) Insert(collection string, fields map[string]interface{}) (string, error) {
	if collection == "" {
		return "", fmt.Errorf("insert: collection must not be empty")
	}

	body := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		body[k] = v
	}

	id, _ := body["id"].(string)
	delete(body, "id")
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.collections[collection] {
		if d.ID == id {
			return "", fmt.Errorf("insert %s/%s: duplicate id", collection, id)
		}
	}
	s.collections[collection] = append(s.collections[collection], storage.Document{ID: id, Fields: body})
	return id, nil
}

// FailWith makes every call touching collection return err. A nil err clears it.
func (s *Store) FailWith(collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, collection)
		return
	}
	s.failures[collection] = err
}

// SetLatency delays every Find and Update by d, or until the context is done.
func (s *Store) SetLatency(d time.Duration) {
	s.mu.Lock()
	s.latency = d
	s.mu.Unlock()
}

// Find returns copies of up to limit documents.
func (s *Store) Find(ctx context.Context, collection string, limit int) ([]storage.Document, error) {
	if err := s.wait(ctx, "find "+collection); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.failures[collection]; err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}

	docs := s.collections[collection]
	if limit < len(docs) {
		docs = docs[:max(limit, 0)]
	}
	out := make([]storage.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, storage.Document{ID: d.ID, Fields: copyFields(d.Fields)})
	}
	return out, nil
}

// Update merges fields into the document body.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := s.wait(ctx, "update "+collection); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures[collection]; err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}

	docs := s.collections[collection]
	for i := range docs {
		if docs[i].ID != id {
			continue
		}
		merged := copyFields(docs[i].Fields)
		for k, v := range fields {
			merged[k] = v
		}
		docs[i].Fields = merged
		return nil
	}
	return fmt.Errorf("update %s/%s: %w", collection, id, storage.ErrNotFound)
}

// Ping always succeeds unless the context is already done.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return contextError("ping", err)
	}
	return nil
}

// Len returns the number of documents in collection.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func (s *Store) wait(ctx context.Context, op string) error {
	s.mu.RLock()
	d := s.latency
	s.mu.RUnlock()

	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}
	if err := ctx.Err(); err != nil {
		return contextError(op, err)
	}
	return nil
}

// contextError keeps a caller cancellation distinct from an expired deadline.
func contextError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, storage.ErrTimeout, err)
}

func copyFields(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
