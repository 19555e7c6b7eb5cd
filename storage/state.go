package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// State is the in-memory key/blob map the UI goroutine mutates between
// frames. It is hydrated from a Store at startup and written back with Save
// on pause and close. It is not transactional: anything changed after the
// last successful Save is lost if the process dies.
type State struct {
	mu      sync.RWMutex
	blobs   map[string][]byte
	dirty   map[string]struct{}
	deleted map[string]struct{}
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		blobs:   make(map[string][]byte),
		dirty:   make(map[string]struct{}),
		deleted: make(map[string]struct{}),
	}
}

// Hydrate loads every key from store. It never fails startup: when the store
// cannot be listed it returns an empty state along with the error, and keys
// that cannot be read are skipped and logged.
func Hydrate(ctx context.Context, store Store) (*State, error) {
	s := NewState()
	keys, err := store.Keys(ctx)
	if err != nil {
		Logger().Error("state hydration failed, starting empty", "err", err)
		return s, fmt.Errorf("storage: hydrate: %w", err)
	}
	var errs []error
	for _, key := range keys {
		b, ok, err := store.Get(ctx, key)
		if err != nil {
			Logger().Warn("skipping unreadable state key", "key", key, "err", err)
			errs = append(errs, err)
			continue
		}
		if ok {
			s.blobs[key] = b
		}
	}
	Logger().Debug("state hydrated", "keys", len(s.blobs))
	return s, errors.Join(errs...)
}

// Bytes returns the raw blob for key.
func (s *State) Bytes(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	return clone(b), ok
}

// SetBytes replaces the raw blob for key.
func (s *State) SetBytes(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = clone(value)
	s.dirty[key] = struct{}{}
	delete(s.deleted, key)
}

// Delete removes key.
func (s *State) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; !ok {
		return
	}
	delete(s.blobs, key)
	delete(s.dirty, key)
	s.deleted[key] = struct{}{}
}

// Has reports whether key holds a blob.
func (s *State) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[key]
	return ok
}

// Keys returns the keys in ascending order.
func (s *State) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Dirty reports whether there are changes Save has not written.
func (s *State) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dirty) > 0 || len(s.deleted) > 0
}

// Save writes changed keys to store and deletes removed ones. Keys that were
// written successfully are no longer dirty, so a failed Save can be retried.
func (s *State) Save(ctx context.Context, store Store) error {
	s.mu.Lock()
	writes := make(map[string][]byte, len(s.dirty))
	for k := range s.dirty {
		writes[k] = s.blobs[k]
	}
	deletes := make([]string, 0, len(s.deleted))
	for k := range s.deleted {
		deletes = append(deletes, k)
	}
	s.mu.Unlock()

	var errs []error
	for k, b := range writes {
		if err := store.Set(ctx, k, b); err != nil {
			errs = append(errs, err)
			continue
		}
		s.mu.Lock()
		// A newer SetBytes may have landed while writing; keep it dirty then.
		if cur, ok := s.blobs[k]; ok && string(cur) == string(b) {
			delete(s.dirty, k)
		}
		s.mu.Unlock()
	}
	for _, k := range deletes {
		if err := store.Delete(ctx, k); err != nil {
			errs = append(errs, err)
			continue
		}
		s.mu.Lock()
		delete(s.deleted, k)
		s.mu.Unlock()
	}

	if err := errors.Join(errs...); err != nil {
		Logger().Error("state save incomplete", "err", err)
		return fmt.Errorf("storage: save: %w", err)
	}
	Logger().Debug("state saved", "written", len(writes), "deleted", len(deletes))
	return nil
}
