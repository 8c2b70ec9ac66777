package store

import (
	"context"
	"sync"

	"github.com/nurpe/office-admin/internal/model"
)

// SaveQueue serializes saves per record id. Saves of different ids run
// concurrently.
type SaveQueue struct {
	mu    sync.Mutex
	slots map[model.ID]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewSaveQueue() *SaveQueue {
	return &SaveQueue{slots: make(map[model.ID]*slot)}
}

// Do runs fn once every earlier save of id has finished.
func (q *SaveQueue) Do(ctx context.Context, id model.ID, fn func(context.Context) error) error {
	s := q.acquire(id)
	defer q.release(id, s)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.ch }()

	return fn(ctx)
}

func (q *SaveQueue) acquire(id model.ID) *slot {
	q.mu.Lock()
	defer q.mu.Unlock()
	s, ok := q.slots[id]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		q.slots[id] = s
	}
	s.refs++
	return s
}

func (q *SaveQueue) release(id model.ID, s *slot) {
	q.mu.Lock()
	defer q.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(q.slots, id)
	}
}
