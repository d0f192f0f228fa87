package segment

import (
	"fmt"
	"path/filepath"

	"github.com/iamNilotpal/sealkv/pkg/valuecodec"
)

// Iterator walks sealed segments newest-to-oldest, implementing
// last-write-wins across segments: the first segment that holds the key
// wins, and iteration stops there.
type Iterator[V any] struct {
	dir      string
	prefix   string
	password string
	codec    valuecodec.Codec[V]
}

// NewIterator builds an Iterator rooted at dir, matching the segment
// naming convention <prefix>_<n>.sstable.
func NewIterator[V any](dir, prefix, password string, codec valuecodec.Codec[V]) *Iterator[V] {
	return &Iterator[V]{dir: dir, prefix: prefix, password: password, codec: codec}
}

// SegmentPath returns the path a segment with the given sequence number
// lives at under this iterator's directory and prefix.
func (it *Iterator[V]) SegmentPath(n uint64) string {
	return filepath.Join(it.dir, fmt.Sprintf("%s_%d.sstable", it.prefix, n))
}

// Get scans segments with ids in [0, upToExclusive) from newest (highest
// id) to oldest. A decrypt or structural error aborts the scan
// immediately and is returned to the caller — per §4.C, corruption is
// never silently treated as a miss by continuing to the next segment.
func (it *Iterator[V]) Get(key string, upToExclusive uint64) (value V, found bool, err error) {
	for n := upToExclusive; n > 0; n-- {
		id := n - 1
		reader, openErr := OpenSegment(it.SegmentPath(id), it.password, it.codec)
		if openErr != nil {
			return value, false, openErr
		}

		v, ok, getErr := reader.Get(key)
		if getErr != nil {
			return value, false, getErr
		}
		if ok {
			return v, true, nil
		}
	}
	return value, false, nil
}
