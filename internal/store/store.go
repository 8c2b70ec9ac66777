// Package store holds the ordered records of one mounted view. Order is
// insertion order and is never re-sorted. Besides the rows it keeps the last
// copy confirmed by the server for every id, which is what edits are diffed
// against, and the set of rows whose last save failed.
package store

import (
	"errors"
	"sync"

	"github.com/nurpe/office-admin/internal/metrics"
	"github.com/nurpe/office-admin/internal/model"
)

var (
	ErrDetached    = errors.New("store detached")
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("duplicate record id")
	ErrMissingID   = errors.New("record has no id")
)

type Store[T model.Record] struct {
	mu       sync.RWMutex
	resource string
	rows     []T
	synced   map[model.ID]T
	unsynced map[model.ID]string
	// local and removed track mutations confirmed before the first Load, so a
	// list that was in flight at the time cannot undo them.
	local    map[model.ID]struct{}
	removed  map[model.ID]struct{}
	loaded   bool
	detached bool
	metrics  *metrics.Collector
}

func New[T model.Record](resource string, m *metrics.Collector) *Store[T] {
	return &Store[T]{
		resource: resource,
		synced:   make(map[model.ID]T),
		unsynced: make(map[model.ID]string),
		local:    make(map[model.ID]struct{}),
		removed:  make(map[model.ID]struct{}),
		metrics:  m,
	}
}

// Load replaces the contents with a fetched collection. Records created,
// updated or removed locally before the first Load are merged in: the local
// copy wins, local-only rows follow the fetched ones and removed ids stay out.
func (s *Store[T]) Load(rows []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return ErrDetached
	}

	seen := make(map[model.ID]struct{}, len(rows))
	for _, row := range rows {
		id := row.RecordID()
		if id == "" {
			return ErrMissingID
		}
		if _, dup := seen[id]; dup {
			return ErrDuplicateID
		}
		seen[id] = struct{}{}
	}

	prev := make(map[model.ID]T, len(s.local))
	for id := range s.local {
		if i := s.indexOf(id); i >= 0 {
			prev[id] = s.rows[i]
		}
	}

	merged := make([]T, 0, len(rows)+len(prev))
	synced := make(map[model.ID]T, len(rows)+len(prev))
	for _, row := range rows {
		id := row.RecordID()
		if _, gone := s.removed[id]; gone {
			continue
		}
		if mine, ok := prev[id]; ok {
			row = mine
			if confirmed, ok := s.synced[id]; ok {
				synced[id] = confirmed
			}
		} else {
			synced[id] = row
		}
		merged = append(merged, row)
	}
	for _, row := range s.rows {
		id := row.RecordID()
		if _, fetched := seen[id]; fetched {
			continue
		}
		if _, ok := prev[id]; !ok {
			continue
		}
		merged = append(merged, row)
		synced[id] = s.synced[id]
	}

	for id := range s.unsynced {
		if _, kept := synced[id]; !kept {
			s.clearUnsynced(id)
		}
	}
	s.rows = merged
	s.synced = synced
	s.loaded = true
	s.local = make(map[model.ID]struct{})
	s.removed = make(map[model.ID]struct{})
	return nil
}

// Append adds a record the server just created.
func (s *Store[T]) Append(rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return ErrDetached
	}
	id := rec.RecordID()
	if id == "" {
		return ErrMissingID
	}
	if s.indexOf(id) >= 0 {
		return ErrDuplicateID
	}
	s.rows = append(s.rows, rec)
	s.synced[id] = rec
	s.noteLocal(id)
	return nil
}

// Replace overwrites the row with the server's copy of it and clears any
// unsynced mark.
func (s *Store[T]) Replace(rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return ErrDetached
	}
	id := rec.RecordID()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.rows[i] = rec
	s.synced[id] = rec
	s.clearUnsynced(id)
	s.noteLocal(id)
	return nil
}

// Patch mutates the local row only; the synced copy is left alone.
func (s *Store[T]) Patch(id model.ID, fn func(*T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if s.detached {
		return zero, ErrDetached
	}
	i := s.indexOf(id)
	if i < 0 {
		return zero, ErrNotFound
	}
	next := s.rows[i]
	if err := fn(&next); err != nil {
		return zero, err
	}
	s.rows[i] = next
	return next, nil
}

// MarkSynced records rec as what the server now holds without touching the
// visible row, which may already carry newer local edits.
func (s *Store[T]) MarkSynced(rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return ErrDetached
	}
	id := rec.RecordID()
	if s.indexOf(id) < 0 {
		return ErrNotFound
	}
	s.synced[id] = rec
	s.clearUnsynced(id)
	return nil
}

// Remove drops id. Before the first Load the id is remembered even when it is
// not held yet, so the fetched collection cannot bring it back.
func (s *Store[T]) Remove(id model.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return ErrDetached
	}
	if !s.loaded {
		s.removed[id] = struct{}{}
		delete(s.local, id)
	}
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	delete(s.synced, id)
	s.clearUnsynced(id)
	return nil
}

func (s *Store[T]) MarkUnsynced(id model.ID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return ErrDetached
	}
	if s.indexOf(id) < 0 {
		return ErrNotFound
	}
	if _, already := s.unsynced[id]; !already {
		s.metrics.AddUnsynced(s.resource, 1)
	}
	s.unsynced[id] = reason
	return nil
}

func (s *Store[T]) Unsynced(id model.ID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reason, ok := s.unsynced[id]
	return reason, ok
}

func (s *Store[T]) Get(id model.ID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	i := s.indexOf(id)
	if i < 0 {
		return zero, false
	}
	return s.rows[i], true
}

// Synced returns the last copy of id confirmed by the server.
func (s *Store[T]) Synced(id model.ID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.synced[id]
	return rec, ok
}

func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]T, 0, len(s.rows)), s.rows...)
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Detach turns every later mutation into a no-op returning ErrDetached.
func (s *Store[T]) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached {
		return
	}
	s.detached = true
	s.metrics.AddUnsynced(s.resource, -len(s.unsynced))
}

func (s *Store[T]) Detached() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.detached
}

func (s *Store[T]) indexOf(id model.ID) int {
	for i, row := range s.rows {
		if row.RecordID() == id {
			return i
		}
	}
	return -1
}

func (s *Store[T]) noteLocal(id model.ID) {
	if !s.loaded {
		s.local[id] = struct{}{}
	}
}

func (s *Store[T]) clearUnsynced(id model.ID) {
	if _, ok := s.unsynced[id]; ok {
		delete(s.unsynced, id)
		s.metrics.AddUnsynced(s.resource, -1)
	}
}
