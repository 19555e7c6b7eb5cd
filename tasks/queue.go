package tasks

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/ramp-stack/rust-on-rails-sub000/retained"
	"github.com/ramp-stack/rust-on-rails-sub000/storage"
)

// DefaultQueueSize is the initial callback capacity used when none is
// configured.
const DefaultQueueSize = 1024

// Queue carries callbacks from task goroutines to the UI goroutine. It grows
// as needed, so a push never blocks a worker and never loses a state change.
type Queue struct {
	mu     sync.Mutex
	items  []Callback
	pushed atomic.Uint64
}

// NewQueue creates a queue with room for size callbacks before it grows.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = DefaultQueueSize
	}
	return &Queue{items: make([]Callback, 0, size)}
}

// Push appends cb. Nil callbacks are ignored.
func (q *Queue) Push(cb Callback) {
	if cb == nil {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, cb)
	q.mu.Unlock()
	q.pushed.Add(1)
}

// Len returns the number of callbacks waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pushed returns how many callbacks were accepted.
func (q *Queue) Pushed() uint64 {
	return q.pushed.Load()
}

// take removes and returns everything queued so far.
func (q *Queue) take() []Callback {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.items
	q.items = make([]Callback, 0, cap(batch))
	return batch
}

// Drain applies every callback queued at the time of the call, in FIFO
// order. Callbacks pushed while draining wait for the next frame. A failing
// callback is logged and does not stop the rest. rctx may be nil when no
// resource callbacks are expected; those callbacks then only get Apply.
func (q *Queue) Drain(state *storage.State, rctx *retained.Context) (int, error) {
	batch := q.take()
	var errs []error
	for _, cb := range batch {
		if rc, ok := cb.(ResourceCallback); ok && rctx != nil {
			if err := rc.ApplyResources(rctx); err != nil {
				Logger().Warn("resource callback failed", "err", err)
				errs = append(errs, err)
			}
		}
		if err := cb.Apply(state); err != nil {
			Logger().Warn("callback failed", "err", err)
			errs = append(errs, err)
		}
	}
	return len(batch), errors.Join(errs...)
}
