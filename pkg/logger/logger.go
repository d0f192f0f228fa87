// Package logger builds the structured loggers used throughout sealkv.
// Every subsystem receives a *zap.SugaredLogger through its Config rather
// than calling zap directly, so tests can hand it zap.NewExample().Sugar()
// without pulling in the production encoder.
package logger

import "go.uber.org/zap"

// New builds a production logger tagged with the given service name. If
// zap's production config fails to build (can happen under a broken
// logging sink), it falls back to an example logger rather than letting
// construction fail for a problem unrelated to the store itself.
func New(service string) *zap.SugaredLogger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewExample()
	}
	return base.With(zap.String("service", service)).Sugar()
}
