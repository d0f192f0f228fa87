// Package seginfo discovers and names sealed segment files.
//
// Filename Format: prefix_n.sstable
//
// Where:
//   - prefix: a configurable string identifying the segment family (e.g. "segment").
//   - n: a dense, monotonically increasing sequence number starting at 0.
//
// The newest segment on disk is always the one with the highest n.
//
// Example filenames:
//
//	segment_0.sstable
//	segment_1.sstable
//	segment_2.sstable
package seginfo

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	sealerrors "github.com/iamNilotpal/sealkv/pkg/errors"
	"github.com/iamNilotpal/sealkv/pkg/filesys"
)

// GenerateName creates a properly formatted filename for a segment file.
func GenerateName(id uint64, prefix string) string {
	return fmt.Sprintf("%s_%d.sstable", prefix, id)
}

// ParseSegmentID extracts the sequence number from a segment filename or path.
func ParseSegmentID(fullPath, prefix string) (uint64, error) {
	_, filename := filepath.Split(fullPath)

	withoutExt := strings.TrimSuffix(filename, ".sstable")
	want := prefix + "_"
	if !strings.HasPrefix(withoutExt, want) {
		return 0, sealerrors.NewSegmentFilenameParseError(filename, nil)
	}

	idStr := strings.TrimPrefix(withoutExt, want)
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, sealerrors.NewSegmentFilenameParseError(filename, err)
	}
	return id, nil
}

// ListSegmentIDs returns every segment id found under dataDir/segmentDir
// matching prefix, sorted ascending. An empty or missing directory yields
// an empty slice rather than an error.
func ListSegmentIDs(dataDir, segmentDir, prefix string) ([]uint64, error) {
	if dataDir == "" || segmentDir == "" || prefix == "" {
		return nil, fmt.Errorf("all parameters (dataDir, segmentDir, prefix) must be non-empty")
	}

	searchPattern := filepath.Join(dataDir, segmentDir, prefix+"_*.sstable")
	matchingFiles, err := filesys.ReadDir(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to read segment directory with pattern %s: %w", searchPattern, err)
	}

	ids := make([]uint64, 0, len(matchingFiles))
	for _, path := range matchingFiles {
		id, err := ParseSegmentID(path, prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to parse segment ID from %s: %w", path, err)
		}
		ids = append(ids, id)
	}

	slices.Sort(ids)
	return ids, nil
}

// GetLatestSegmentID returns the highest existing segment id and true, or
// (0, false, nil) when no segments exist yet.
func GetLatestSegmentID(dataDir, segmentDir, prefix string) (uint64, bool, error) {
	ids, err := ListSegmentIDs(dataDir, segmentDir, prefix)
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[len(ids)-1], true, nil
}
