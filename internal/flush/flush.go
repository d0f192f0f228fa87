// Package flush runs the single background worker that turns a detached
// memtable snapshot into a sealed segment file and rotates the write-ahead
// log, per §4.F:
//
//  1. the memtable crosses MaxMemtableSize and the engine detaches it
//  2. the detached entries are handed to this worker over a bounded channel
//  3. the worker allocates the next segment id, writes the segment, and
//     rotates the WAL into the archive directory
//
// There is exactly one worker goroutine: segment ids and WAL rotation both
// have to happen in the order handoffs arrive, so a single consumer is
// simpler than coordinating multiple writers over the same sequence
// counter and log handle.
package flush

import (
	"context"
	stdErrors "errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	sealcrypto "github.com/iamNilotpal/sealkv/internal/crypto"
	"github.com/iamNilotpal/sealkv/internal/memtable"
	"github.com/iamNilotpal/sealkv/internal/segment"
	"github.com/iamNilotpal/sealkv/internal/storage"
	"github.com/iamNilotpal/sealkv/internal/wal"
	"github.com/iamNilotpal/sealkv/pkg/valuecodec"
)

// ErrWorkerClosed is returned by Submit once the worker has been closed.
var ErrWorkerClosed = stdErrors.New("operation failed: flush worker is closed")

// Config configures a Worker.
type Config[V any] struct {
	Storage    *storage.Storage
	WAL        *wal.Handle
	ArchiveDir string
	Envelope   *sealcrypto.Envelope
	Codec      valuecodec.Codec[V]
	Density    int
	Sync       bool
	QueueDepth int
	Logger     *zap.SugaredLogger
}

// Worker consumes detached memtable snapshots and seals them into segment
// files.
type Worker[V any] struct {
	storage    *storage.Storage
	wal        *wal.Handle
	archiveDir string
	envelope   *sealcrypto.Envelope
	codec      valuecodec.Codec[V]
	density    int
	sync       bool
	log        *zap.SugaredLogger

	queue   chan []memtable.Entry[V]
	errCh   chan error
	wg      sync.WaitGroup
	started atomic.Bool
	closed  atomic.Bool
}

// New builds a Worker. It does not start consuming until Start is called.
func New[V any](config Config[V]) *Worker[V] {
	depth := config.QueueDepth
	if depth <= 0 {
		depth = 1
	}

	return &Worker[V]{
		storage:    config.Storage,
		wal:        config.WAL,
		archiveDir: config.ArchiveDir,
		envelope:   config.Envelope,
		codec:      config.Codec,
		density:    config.Density,
		sync:       config.Sync,
		log:        config.Logger,
		queue:      make(chan []memtable.Entry[V], depth),
		errCh:      make(chan error, 1),
	}
}

// Start launches the single consumer goroutine. Safe to call once; a
// second call is a no-op.
func (w *Worker[V]) Start(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		return
	}

	w.wg.Add(1)
	go w.run(ctx)
}

// Submit hands a detached snapshot to the worker. It blocks if the bounded
// queue is full, applying backpressure to the caller rather than buffering
// unboundedly.
func (w *Worker[V]) Submit(entries []memtable.Entry[V]) error {
	if w.closed.Load() {
		return ErrWorkerClosed
	}
	if len(entries) == 0 {
		return nil
	}

	w.queue <- entries
	return nil
}

// Errors surfaces fatal failures from segment writes or WAL rotation. The
// engine should select on this channel and treat a received error as fatal
// to the store, per §4.F.
func (w *Worker[V]) Errors() <-chan error {
	return w.errCh
}

// Close stops accepting new submissions and waits for the queue to drain.
func (w *Worker[V]) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return ErrWorkerClosed
	}

	close(w.queue)
	w.wg.Wait()
	close(w.errCh)
	return nil
}

func (w *Worker[V]) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case entries, ok := <-w.queue:
			if !ok {
				return
			}
			if err := w.flushOnce(entries); err != nil {
				w.log.Errorw("flush failed", "error", err, "records", len(entries))
				select {
				case w.errCh <- err:
				default:
				}
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker[V]) flushOnce(entries []memtable.Entry[V]) error {
	id, err := w.storage.AllocateSegmentID()
	if err != nil {
		return err
	}

	path := w.storage.SegmentPath(id)
	cfg := segment.WriterConfig{Envelope: w.envelope, Density: w.density, Sync: w.sync, Logger: w.log}
	if err := segment.WriteSegment(path, entries, w.codec, cfg); err != nil {
		return err
	}

	// Only now — after the file is fully on disk — does id become visible
	// to a concurrent GET's segment scan. Committing any earlier would let
	// a GET observe a segment count pointing at a file that doesn't exist
	// yet, per spec §5.
	if err := w.storage.CommitSegment(id); err != nil {
		return err
	}

	if err := w.wal.Rotate(w.archiveDir); err != nil {
		return err
	}

	w.log.Infow("flushed memtable", "segment_id", id, "path", path, "records", len(entries))
	return nil
}
