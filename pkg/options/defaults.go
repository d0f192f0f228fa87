package options

const (
	// Specifies the default base directory where sealkv will store its data files.
	// If no other directory is specified during initialization, this path will be used.
	DefaultDataDir = "/var/lib/sealkv"

	// Specifies the default subdirectory within the main data directory
	// where sealed segment files are stored.
	DefaultSegmentDirectory = "/segments"

	// Defines the default prefix for segment file names, e.g. "segment_3.sstable".
	DefaultSegmentPrefix = "segment"

	// Defines the default write-ahead log file name, relative to DataDir.
	DefaultWalFileName = "wal.log"

	// Defines the default subdirectory that rotated WAL files are archived
	// into before the active handle is swapped to a fresh file.
	DefaultArchiveDirName = "archive"

	// DefaultMaxMemtableSize is the memtable entry count (MAX_MEMTABLE) at
	// which a detach-and-flush is triggered. Kept deliberately small so the
	// flush/segment/WAL-rotation path is exercised quickly in normal use.
	DefaultMaxMemtableSize = 4

	// DefaultIndexDensity is the sparse-index stride divisor (INDEX_DENSITY):
	// an index entry is written every max(1, N/D) data records. D=2 gives
	// about two index entries per segment; with the default
	// MaxMemtableSize of 4 that is every other key.
	DefaultIndexDensity = 2

	// DefaultFlushQueueDepth bounds the handoff channel between the store
	// front-end and the flush worker. A detached memtable blocks on send
	// once this many flushes are already queued.
	DefaultFlushQueueDepth = 4

	// DefaultSyncOnFlush controls whether the flush worker calls Sync on a
	// newly written segment file. The engine does not fsync by default.
	DefaultSyncOnFlush = false
)

// Holds the default configuration settings for a sealkv instance.
var defaultOptions = Options{
	DataDir:         DefaultDataDir,
	WalFileName:     DefaultWalFileName,
	ArchiveDirName:  DefaultArchiveDirName,
	MaxMemtableSize: DefaultMaxMemtableSize,
	IndexDensity:    DefaultIndexDensity,
	FlushQueueDepth: DefaultFlushQueueDepth,
	SyncOnFlush:     DefaultSyncOnFlush,
	SegmentOptions: &segmentOptions{
		Prefix:    DefaultSegmentPrefix,
		Directory: DefaultSegmentDirectory,
	},
}

func NewDefaultOptions() Options {
	return defaultOptions
}
