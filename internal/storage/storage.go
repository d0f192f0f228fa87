// Package storage manages the on-disk segment directory: it creates the
// directory on startup, discovers the sequence number the last session
// left off at, and hands the flush worker the next segment path to seal.
//
// A segment is written once, in full, when the memtable threshold trips —
// there is no active append target to size-check or rotate, unlike a
// streaming append-only log. Storage's surface area is correspondingly
// small: allocate the next id, and report the ids already sealed so a
// lookup knows how far back to scan.
package storage

import (
	stdErrors "errors"
	"path/filepath"

	"github.com/iamNilotpal/sealkv/pkg/errors"
	"github.com/iamNilotpal/sealkv/pkg/filesys"
	"github.com/iamNilotpal/sealkv/pkg/options"
	"github.com/iamNilotpal/sealkv/pkg/seginfo"
)

var (
	ErrStorageClosed = stdErrors.New("operation failed: cannot access closed storage")
)

// New creates the segment directory if absent and discovers the sequence
// number to resume from by scanning for existing segment_<n>.sstable files.
func New(config *Config) (*Storage, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewConfigurationValidationError("config", "storage config is incomplete")
	}

	opts := config.Options
	segmentDirPath := filepath.Join(opts.DataDir, opts.SegmentOptions.Directory)

	if err := filesys.CreateDir(segmentDirPath, 0755, true); err != nil {
		return nil, errors.NewStorageError(
			err, errors.ErrorCodeIO, "failed to create segment directory",
		).WithPath(segmentDirPath)
	}

	latestID, found, err := seginfo.GetLatestSegmentID(opts.DataDir, opts.SegmentOptions.Directory, opts.SegmentOptions.Prefix)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to discover existing segments").
			WithPath(segmentDirPath)
	}

	nextID := uint64(0)
	if found {
		nextID = latestID + 1
	}

	config.Logger.Infow("storage initialized", "segmentDir", segmentDirPath, "nextSegmentID", nextID)

	// Segments already on disk at startup were, by definition, fully
	// written by a prior process — they are immediately safe to scan.
	return &Storage{
		options:        opts,
		log:            config.Logger,
		segmentDirPath: segmentDirPath,
		nextSegmentID:  nextID,
		committedCount: nextID,
	}, nil
}

// SegmentDir returns the directory segment files live in.
func (s *Storage) SegmentDir() string {
	return s.segmentDirPath
}

// SegmentPath returns the path a segment with the given id lives, or will
// live, at.
func (s *Storage) SegmentPath(id uint64) string {
	return filepath.Join(s.segmentDirPath, seginfo.GenerateName(id, s.options.SegmentOptions.Prefix))
}

// AllocateSegmentID hands out the next sequence number and advances the
// allocation counter, under the lock discipline from §5 (seq_num guarded
// by its own mutex, acquired after the memtable and before the log
// handle). The allocated id is not yet visible to GET's segment scan —
// call CommitSegment once the file at SegmentPath(id) has been written in
// full.
func (s *Storage) AllocateSegmentID() (uint64, error) {
	if s.closed.Load() {
		return 0, ErrStorageClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSegmentID
	s.nextSegmentID++
	return id, nil
}

// CommitSegment makes segment id visible to SegmentCount/GET. It must be
// called only after segment.WriteSegment has returned successfully for
// that id — never at allocation time — so a GET never observes a segment
// count pointing at a file that isn't on disk yet.
func (s *Storage) CommitSegment(id uint64) error {
	if s.closed.Load() {
		return ErrStorageClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id+1 > s.committedCount {
		s.committedCount = id + 1
	}
	return nil
}

// SegmentCount returns the number of segment ids safe to read: ids whose
// files have been fully written and committed. A lookup scans ids
// [0, SegmentCount()) newest-to-oldest.
func (s *Storage) SegmentCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committedCount
}

// Close marks the storage component closed. It holds no file handles of
// its own to release.
func (s *Storage) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrStorageClosed
	}
	return nil
}
