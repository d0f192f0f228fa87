// Package options provides data structures and functions for configuring
// sealkv. It defines the parameters that control the engine's flush
// threshold, sparse index density, and on-disk layout.
package options

import "strings"

// Defines configurable parameters for segment files.
type segmentOptions struct {
	// Specifies where sealed segment files are stored, relative to DataDir.
	//
	// Default: "/segments"
	Directory string `json:"directory"`

	// Defines the filename prefix for segment files.
	// Final filename will be: `prefix_n.sstable`.
	//
	// Default: "segment"
	//
	// Example: If Prefix is "segment", the third sealed segment is
	// "segment_2.sstable" (sequence numbers are zero-based).
	Prefix string `json:"prefix"`
}

// Defines the configuration parameters for a sealkv instance. It provides
// control over storage layout, the memtable flush threshold, and the
// sparse index density.
type Options struct {
	// Specifies the base path where files will be stored.
	//
	// Default: "/var/lib/sealkv"
	DataDir string `json:"dataDir"`

	// Names the write-ahead log file, relative to DataDir.
	//
	// Default: "wal.log"
	WalFileName string `json:"walFileName"`

	// Names the subdirectory a rotated WAL is archived into.
	//
	// Default: "archive"
	ArchiveDirName string `json:"archiveDirName"`

	// MaxMemtableSize is the entry count at which the memtable is detached
	// and handed to the flush worker.
	//
	// Default: 4
	MaxMemtableSize int `json:"maxMemtableSize"`

	// IndexDensity is the divisor used to compute the sparse-index stride:
	// an entry is written every max(1, N/IndexDensity) records, where N is
	// the number of records in the segment being written.
	//
	// Default: 2
	IndexDensity int `json:"indexDensity"`

	// FlushQueueDepth bounds the channel between the store front-end and
	// the flush worker.
	//
	// Default: 4
	FlushQueueDepth int `json:"flushQueueDepth"`

	// SyncOnFlush controls whether the flush worker calls Sync on a newly
	// written segment file before rotating the WAL.
	//
	// Default: false
	SyncOnFlush bool `json:"syncOnFlush"`

	// Configures segment file naming and placement.
	SegmentOptions *segmentOptions `json:"segmentOptions"`
}

// OptionFunc is a function type that modifies a sealkv instance's configuration.
type OptionFunc func(*Options)

// Applies a predefined set of default configuration values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.WalFileName = opts.WalFileName
		o.ArchiveDirName = opts.ArchiveDirName
		o.MaxMemtableSize = opts.MaxMemtableSize
		o.IndexDensity = opts.IndexDensity
		o.FlushQueueDepth = opts.FlushQueueDepth
		o.SyncOnFlush = opts.SyncOnFlush
		o.SegmentOptions = opts.SegmentOptions
	}
}

// Sets the primary data directory for sealkv.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// Sets the memtable entry count that triggers a flush.
func WithMaxMemtableSize(size int) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.MaxMemtableSize = size
		}
	}
}

// Sets the sparse index density divisor.
func WithIndexDensity(density int) OptionFunc {
	return func(o *Options) {
		if density > 0 {
			o.IndexDensity = density
		}
	}
}

// Sets the bounded depth of the flush handoff channel.
func WithFlushQueueDepth(depth int) OptionFunc {
	return func(o *Options) {
		if depth > 0 {
			o.FlushQueueDepth = depth
		}
	}
}

// Enables an explicit Sync call on a segment file once the flush worker
// finishes writing it.
func WithSyncOnFlush(sync bool) OptionFunc {
	return func(o *Options) {
		o.SyncOnFlush = sync
	}
}

// Sets the directory specifically for storing segment files.
func WithSegmentDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.SegmentOptions.Directory = directory
		}
	}
}

// Sets the file name prefix for segment files.
func WithSegmentPrefix(prefix string) OptionFunc {
	return func(o *Options) {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" {
			o.SegmentOptions.Prefix = prefix
		}
	}
}

// Sets the write-ahead log file name.
func WithWalFileName(name string) OptionFunc {
	return func(o *Options) {
		name = strings.TrimSpace(name)
		if name != "" {
			o.WalFileName = name
		}
	}
}

// Sets the WAL archive subdirectory name.
func WithArchiveDirName(name string) OptionFunc {
	return func(o *Options) {
		name = strings.TrimSpace(name)
		if name != "" {
			o.ArchiveDirName = name
		}
	}
}
