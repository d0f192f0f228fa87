package storage

import (
	"sync"
	"sync/atomic"

	"github.com/iamNilotpal/sealkv/pkg/options"
	"go.uber.org/zap"
)

// Storage tracks the segment directory and the sequence number of the
// next segment to seal. Unlike an append-only log, a segment file is
// written exactly once, in full, by segment.WriteSegment — Storage's
// only job is handing the flush worker the next path and remembering
// how many segments already exist on disk.
//
// nextSegmentID and committedCount are deliberately separate counters.
// nextSegmentID is advanced the instant an id is handed out, so two
// concurrent allocations never collide on the same path. committedCount
// is only advanced once a segment file has actually been written in
// full — it is what GET's segment scan is bounded by, per spec §5's
// "seq_num is incremented only after the segment file is fully written,
// so a GET that sees a higher seq_num will find the record in that
// segment". Collapsing the two would let a GET race an in-flight flush
// and try to open a segment file that doesn't exist yet.
type Storage struct {
	mu             sync.Mutex
	nextSegmentID  uint64
	committedCount uint64
	segmentDirPath string
	closed         atomic.Bool
	options        *options.Options
	log            *zap.SugaredLogger
}

// Config encapsulates all the configuration parameters required to initialize a Storage instance.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}
