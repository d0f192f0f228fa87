// Package engine is the store front-end: it wires the memtable, the
// write-ahead log, on-disk segment storage, the background flush worker
// and the crypto envelope into the single coordinator the CLI talks to.
// It is the direct descendant of the teacher's engine package, except the
// subsystems it coordinates are {memtable, storage, flush worker, crypto
// envelope, compaction-stub} instead of {index, storage, compaction}.
package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/iamNilotpal/sealkv/internal/compaction"
	sealcrypto "github.com/iamNilotpal/sealkv/internal/crypto"
	"github.com/iamNilotpal/sealkv/internal/flush"
	"github.com/iamNilotpal/sealkv/internal/memtable"
	"github.com/iamNilotpal/sealkv/internal/segment"
	"github.com/iamNilotpal/sealkv/internal/storage"
	"github.com/iamNilotpal/sealkv/internal/wal"
	sealerrors "github.com/iamNilotpal/sealkv/pkg/errors"
	"github.com/iamNilotpal/sealkv/pkg/options"
	"github.com/iamNilotpal/sealkv/pkg/valuecodec"
)

var (
	// ErrEngineClosed is returned when attempting to perform operations on a closed engine.
	ErrEngineClosed = errors.New("operation failed: cannot access closed engine")

	// ErrKeyNotFound is returned by Get when a key is absent from both the
	// memtable and every sealed segment. Per §4.C, key-absent is not an
	// error in its own right — it is the signal the CLI turns into
	// "Not found".
	ErrKeyNotFound = errors.New("key not found")
)

// Config holds all the parameters needed to initialize a new Engine instance.
type Config struct {
	Options  *options.Options
	Logger   *zap.SugaredLogger
	Password string
}

// Engine coordinates every subsystem a SET or GET touches: it is the only
// type downstream packages (pkg/sealkv, cmd/sealkv) talk to.
type Engine struct {
	options    *options.Options
	log        *zap.SugaredLogger
	closed     atomic.Bool
	password   string
	codec      valuecodec.Codec[string]
	envelope   *sealcrypto.Envelope
	memtable   *memtable.Table[string]
	wal        *wal.Handle
	storage    *storage.Storage
	flush      *flush.Worker[string]
	iterator   *segment.Iterator[string]
	compaction *compaction.Compaction
	cancel     context.CancelFunc
}

// New creates and initializes a new Engine instance with the provided
// configuration: it derives the crypto envelope from the password, opens
// (or creates) the WAL, replays any unflushed writes into a fresh
// memtable, discovers how many segments already exist on disk, and starts
// the background flush worker.
func New(ctx context.Context, config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, sealerrors.NewConfigurationValidationError("config", "engine config is incomplete")
	}

	opts := config.Options
	password := config.Password
	if password == "" {
		password = "password"
	}

	// The envelope here protects everything written from this point
	// forward; it carries a freshly generated salt (§4.A). Recovering a
	// past WAL line or segment uses a separate envelope reconstructed
	// from that record's own stored salt, not this one.
	envelope, err := sealcrypto.New(password)
	if err != nil {
		return nil, err
	}

	table, err := memtable.New[string](ctx, &memtable.Config{Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	st, err := storage.New(&storage.Config{Options: opts, Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	walPath := filepath.Join(opts.DataDir, opts.WalFileName)
	walHandle, err := wal.Open(walPath)
	if err != nil {
		return nil, err
	}

	if err := wal.Replay[string](walPath, password, valuecodec.StringCodec{}, func(key string, value string) {
		_ = table.Insert(key, value)
	}); err != nil {
		return nil, err
	}

	archiveDir := filepath.Join(opts.DataDir, opts.ArchiveDirName)
	worker := flush.New(flush.Config[string]{
		Storage:    st,
		WAL:        walHandle,
		ArchiveDir: archiveDir,
		Envelope:   envelope,
		Codec:      valuecodec.StringCodec{},
		Density:    opts.IndexDensity,
		Sync:       opts.SyncOnFlush,
		QueueDepth: opts.FlushQueueDepth,
		Logger:     config.Logger,
	})

	runCtx, cancel := context.WithCancel(ctx)
	worker.Start(runCtx)

	iterator := segment.NewIterator[string](
		st.SegmentDir(), opts.SegmentOptions.Prefix, password, valuecodec.StringCodec{},
	)

	e := &Engine{
		options:    opts,
		log:        config.Logger,
		password:   password,
		codec:      valuecodec.StringCodec{},
		envelope:   envelope,
		memtable:   table,
		wal:        walHandle,
		storage:    st,
		flush:      worker,
		iterator:   iterator,
		compaction: compaction.New(),
		cancel:     cancel,
	}

	config.Logger.Infow(
		"engine initialized",
		"dataDir", opts.DataDir, "maxMemtableSize", opts.MaxMemtableSize, "segmentCount", st.SegmentCount(),
	)
	return e, nil
}

// Set parses valueText with the engine's value codec, makes the write
// durable in the WAL, then inserts it into the memtable. Per §4.E a SET is
// durable once its WAL line is written; the memtable insert happens
// strictly after. If the memtable reaches its configured threshold, the
// entire table is detached in one step and handed to the flush worker.
func (e *Engine) Set(key, valueText string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	value, err := e.codec.Parse(valueText)
	if err != nil {
		return sealerrors.NewValidationError(
			err, sealerrors.ErrorCodeInvalidInput, "failed to parse value",
		).WithField("value").WithProvided(valueText)
	}

	if err := wal.Append(e.wal, key, value, e.codec, e.envelope); err != nil {
		return err
	}

	if err := e.memtable.Insert(key, value); err != nil {
		return err
	}

	if e.memtable.Len() >= e.options.MaxMemtableSize {
		snapshot := e.memtable.Take()
		if err := e.flush.Submit(snapshot); err != nil {
			return err
		}
	}

	return nil
}

// Get probes the memtable first; on a miss it scans segments newest to
// oldest via the segment iterator, bounded by the segment count storage
// has allocated so far. ErrKeyNotFound means the key is genuinely absent;
// any other error means a segment failed to open or a record failed to
// decrypt/decode, which §4.C treats as a hard failure, not a miss.
func (e *Engine) Get(key string) (string, error) {
	if e.closed.Load() {
		return "", ErrEngineClosed
	}

	if value, ok := e.memtable.Get(key); ok {
		return value, nil
	}

	upTo := e.storage.SegmentCount()
	value, found, err := e.iterator.Get(key, upTo)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Errors surfaces fatal failures from the background flush worker (a
// segment write or WAL rotation failure). Per §7 these are fatal to the
// worker: it stops after the first failure and flushes nothing further,
// while the engine keeps running, so the CLI should select on this
// channel and exit.
func (e *Engine) Errors() <-chan error {
	return e.flush.Errors()
}

// Close gracefully shuts down the engine: it stops accepting new writes,
// waits for any in-flight flush to finish, and releases the WAL, memtable
// and storage resources.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	record(e.flush.Close())
	e.cancel()
	record(e.wal.Close())
	record(e.memtable.Close())
	record(e.storage.Close())
	record(e.compaction.Close())

	e.log.Infow("engine closed")
	return firstErr
}
