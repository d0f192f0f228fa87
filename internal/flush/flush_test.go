package flush

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	sealcrypto "github.com/iamNilotpal/sealkv/internal/crypto"
	"github.com/iamNilotpal/sealkv/internal/memtable"
	"github.com/iamNilotpal/sealkv/internal/segment"
	"github.com/iamNilotpal/sealkv/internal/storage"
	"github.com/iamNilotpal/sealkv/internal/wal"
	"github.com/iamNilotpal/sealkv/pkg/options"
	"github.com/iamNilotpal/sealkv/pkg/valuecodec"
)

func newTestWorker(t *testing.T) (*Worker[string], *storage.Storage, string) {
	t.Helper()
	dir := t.TempDir()
	log := zap.NewExample().Sugar()

	opts := options.NewDefaultOptions()
	opts.DataDir = dir

	st, err := storage.New(&storage.Config{Options: &opts, Logger: log})
	if err != nil {
		t.Fatal(err)
	}

	walPath := filepath.Join(dir, "wal.log")
	handle, err := wal.Open(walPath)
	if err != nil {
		t.Fatal(err)
	}

	envelope, err := sealcrypto.New("hunter2")
	if err != nil {
		t.Fatal(err)
	}

	w := New(Config[string]{
		Storage:    st,
		WAL:        handle,
		ArchiveDir: filepath.Join(dir, "archive"),
		Envelope:   envelope,
		Codec:      valuecodec.StringCodec{},
		Density:    2,
		QueueDepth: 4,
		Logger:     log,
	})
	return w, st, dir
}

func TestWorkerFlushesSnapshotToSegment(t *testing.T) {
	w, st, dir := newTestWorker(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	entries := []memtable.Entry[string]{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}
	if err := w.Submit(entries); err != nil {
		t.Fatal(err)
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if st.SegmentCount() != 1 {
		t.Fatalf("got segment count %d, want 1", st.SegmentCount())
	}

	path := st.SegmentPath(0)
	reader, err := segment.OpenSegment(path, "hunter2", valuecodec.StringCodec{})
	if err != nil {
		t.Fatal(err)
	}
	v, ok, err := reader.Get("a")
	if err != nil || !ok || v != "1" {
		t.Fatalf("Get(a) = (%q, %v, %v), want (1, true, nil)", v, ok, err)
	}

	_ = dir
}

func TestWorkerRejectsSubmitAfterClose(t *testing.T) {
	w, _, _ := newTestWorker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	err := w.Submit([]memtable.Entry[string]{{Key: "a", Value: "1"}})
	if err != ErrWorkerClosed {
		t.Fatalf("got %v, want ErrWorkerClosed", err)
	}
}

func TestWorkerSurfacesSegmentErrorOnBadDirectory(t *testing.T) {
	w, _, dir := newTestWorker(t)

	// Replace the segment directory with a regular file, so the write
	// worker's os.OpenFile(segment_0.sstable, O_CREATE, ...) genuinely
	// fails (ENOTDIR: a path component exists but isn't a directory)
	// instead of silently succeeding.
	segmentsDir := filepath.Join(dir, "segments")
	if err := os.RemoveAll(segmentsDir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(segmentsDir, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	entries := []memtable.Entry[string]{{Key: "a", Value: "1"}}
	if err := w.Submit(entries); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-w.Errors():
		if err == nil {
			t.Fatal("expected a non-nil segment write error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected the worker to surface a segment write failure within 2s, got none")
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}
