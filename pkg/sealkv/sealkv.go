// Package sealkv is the public entry point for the authenticated-encrypted
// LSM key/value store. It wraps internal/engine behind a small instance
// type — construction, Set, Get, Close — the same shape as the teacher's
// pkg/ignite wrapper, minus the operations this engine has no concept of:
// no SetX (no expiry anywhere in this design) and no Delete (spec.md's
// Non-goals exclude deletions/tombstones outright).
package sealkv

import (
	"context"

	"github.com/iamNilotpal/sealkv/internal/engine"
	"github.com/iamNilotpal/sealkv/pkg/logger"
	"github.com/iamNilotpal/sealkv/pkg/options"
)

// ErrKeyNotFound is returned by Instance.Get when a key is absent from
// both the memtable and every sealed segment.
var ErrKeyNotFound = engine.ErrKeyNotFound

// Instance is the primary entry point for interacting with the sealkv
// store: every write goes through the write-ahead log before it lands in
// the memtable, and every value at rest — in the WAL or in a sealed
// segment — is AES-256-GCM encrypted under a key derived from Password.
type Instance struct {
	engine  *engine.Engine
	options *options.Options
}

// NewInstance creates and initializes a new sealkv Instance: it opens (or
// replays) the write-ahead log, discovers existing segments under
// Options.DataDir, and starts the background flush worker. service names
// the logger's "service" field; password derives the encryption key that
// protects every record this instance writes from this point on.
func NewInstance(ctx context.Context, service, password string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	eng, err := engine.New(ctx, &engine.Config{
		Logger:   log,
		Options:  &defaultOpts,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &defaultOpts}, nil
}

// Set stores a key-value pair in the database. If the key already exists,
// its value is replaced (last-write-wins). The write is durable once this
// call returns successfully: the WAL line lands on disk before the
// in-memory insert happens.
func (i *Instance) Set(ctx context.Context, key, value string) error {
	return i.engine.Set(key, value)
}

// Get retrieves the value associated with the given key, checking the
// in-memory buffer first and then every sealed segment, newest to oldest.
// It returns ErrKeyNotFound if the key does not exist anywhere.
func (i *Instance) Get(ctx context.Context, key string) (string, error) {
	return i.engine.Get(key)
}

// Errors exposes fatal background flush-worker failures (a segment write
// or WAL rotation that failed). A caller that wants to exit when the
// engine can no longer durably flush should select on this channel.
func (i *Instance) Errors() <-chan error {
	return i.engine.Errors()
}

// Close gracefully shuts down the sealkv Instance, releasing the WAL,
// memtable and storage resources and waiting for any flush already in
// flight to finish.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
