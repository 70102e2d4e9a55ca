// Package async provides the fire-and-forget primitive used for best-effort
// cleanup deletions. Tasks spawned here are never awaited by the caller;
// their only observable outcome on failure is a log line.
package async

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const taskTimeout = 30 * time.Second

// Spawner runs fn detached from the request/response path. Implementations
// must add zero latency and zero failure surface to the caller.
type Spawner func(op string, fn func(context.Context) error)

// NewSpawner returns a Spawner that runs each task on its own goroutine with
// a fresh bounded context, recovering panics and routing errors to log only.
func NewSpawner(log zerolog.Logger) Spawner {
	logger := log.With().Str("component", "best-effort").Logger()
	return func(op string, fn func(context.Context) error) {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error().Interface("panic", r).Str("op", op).Msg("best-effort task panicked")
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
			defer cancel()

			if err := fn(ctx); err != nil {
				logger.Error().Err(err).Str("op", op).Msg("best-effort task failed")
			}
		}()
	}
}
