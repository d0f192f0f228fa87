// Package memtable provides the in-memory, key-ordered write buffer for
// sealkv. Every accepted write lands here first; once the table reaches
// its configured size it is detached in a single critical section and
// handed to the flush worker, which walks it in ascending key order to
// build a sealed segment's data and sparse-index regions.
package memtable

import (
	"context"
	stdErrors "errors"

	"github.com/google/btree"

	"github.com/iamNilotpal/sealkv/pkg/errors"
)

var ErrTableClosed = stdErrors.New("operation failed: cannot access closed memtable")

const degree = 32

func lessByKey[V any](a, b Entry[V]) bool {
	return a.Key < b.Key
}

// New creates and initializes a new Table instance. The returned Table is
// immediately ready for concurrent use.
func New[V any](ctx context.Context, config *Config) (*Table[V], error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewRequiredFieldError("config")
	}

	less := btree.LessFunc[Entry[V]](lessByKey[V])
	return &Table[V]{
		log:  config.Logger,
		tree: btree.NewG(degree, less),
		less: less,
	}, nil
}

// Insert upserts a key's value. A second Insert for the same key replaces
// the first; the memtable never stores more than one version of a key.
func (t *Table[V]) Insert(key string, value V) error {
	if t.closed.Load() {
		return ErrTableClosed
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.tree.ReplaceOrInsert(Entry[V]{Key: key, Value: value})
	return nil
}

// Get returns the value for key and whether it was present. A miss here
// does not mean the key doesn't exist: the caller still has to fall
// through to the segment iterator.
func (t *Table[V]) Get(key string) (value V, found bool) {
	if t.closed.Load() {
		return value, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	item, ok := t.tree.Get(Entry[V]{Key: key})
	if !ok {
		return value, false
	}
	return item.Value, true
}

// Len reports the number of distinct keys currently buffered.
func (t *Table[V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tree.Len()
}

// Take detaches the current contents in one critical section, installing a
// fresh empty tree in their place, and returns the detached contents as a
// slice in ascending key order. Nothing observes the table in a
// half-detached state: a writer landing between Insert calls either sees
// the table before or after the swap, never a table missing only some
// entries.
func (t *Table[V]) Take() []Entry[V] {
	t.mu.Lock()
	defer t.mu.Unlock()

	old := t.tree
	t.tree = btree.NewG(degree, t.less)

	entries := make([]Entry[V], 0, old.Len())
	old.Ascend(func(e Entry[V]) bool {
		entries = append(entries, e)
		return true
	})
	return entries
}

// Close marks the table closed; further Insert calls return
// ErrTableClosed and Get calls report a miss. Intended to run once, during engine shutdown, after any
// final Take has already been handed to the flush worker.
func (t *Table[V]) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return ErrTableClosed
	}

	t.log.Infow("Closing memtable")

	t.mu.Lock()
	defer t.mu.Unlock()
	t.tree = nil

	t.log.Infow("Memtable closed successfully")
	return nil
}
