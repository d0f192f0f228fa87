package memtable

import (
	"sync"
	"sync/atomic"

	"github.com/google/btree"
	"go.uber.org/zap"
)

// Entry is one key/value pair held in the memtable. Btree orders a Table by
// Key alone; Value travels along for the ride so a detached snapshot can be
// walked straight into a segment writer without a second lookup.
type Entry[V any] struct {
	Key   string
	Value V
}

// Table is the in-memory, key-ordered buffer every write lands in before it
// is durable in a sealed segment. It is the direct descendant of ignite's
// Index: same mutex-guarded, atomically-closed shape, except the backing
// structure is ordered (so a flush can walk it key-by-key to build a
// segment's sparse index) and it holds real values instead of pointers
// into a segment file.
type Table[V any] struct {
	log    *zap.SugaredLogger // Provides structured logging capabilities.
	mu     sync.RWMutex       // Protects concurrent access to tree.
	tree   *btree.BTreeG[Entry[V]]
	less   btree.LessFunc[Entry[V]]
	closed atomic.Bool // Indicates whether the table has been closed.
}

// Config encapsulates the configuration parameters required to initialize a Table.
type Config struct {
	Logger *zap.SugaredLogger // Provides structured logging capabilities for Table operations.
}
