// Package jobs hosts the periodic orphan reclamation sweeps.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jujinjujeen/fuga/internal/config"
	"github.com/jujinjujeen/fuga/internal/infrastructure/metrics"
	"github.com/jujinjujeen/fuga/internal/infrastructure/storage"
)

// ObjectStore is the slice of the gateway the reclaimer sweeps through.
type ObjectStore interface {
	ListTemp(ctx context.Context) ([]storage.Object, error)
	ListPerm(ctx context.Context) ([]storage.Object, error)
	Remove(ctx context.Context, key string, bucket storage.Bucket) error
}

// KeyIndex answers whether a permanent object is still referenced by an
// image row.
type KeyIndex interface {
	StorageKeyInUse(ctx context.Context, storageKey string) (bool, error)
}

// Result summarizes one sweep. Errors holds one entry per object that
// failed to delete; a failure never aborts the rest of the batch.
type Result struct {
	DeletedCount int
	Errors       []string
}

// Reclaimer deletes expired temporary objects, and optionally permanent
// objects no image row references anymore.
type Reclaimer struct {
	store      ObjectStore
	index      KeyIndex
	grantTTL   time.Duration
	permSweep  bool
	permMinAge time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

func NewReclaimer(store ObjectStore, index KeyIndex, cfg *config.Config, log zerolog.Logger) *Reclaimer {
	return &Reclaimer{
		store:      store,
		index:      index,
		grantTTL:   cfg.UploadGrantTTL,
		permSweep:  cfg.PermSweepEnabled,
		permMinAge: cfg.PermSweepMinAge,
		log:        log.With().Str("component", "reclaimer").Logger(),
		now:        time.Now,
	}
}

// SweepTemp deletes every temporary object older than the upload-grant TTL.
// Such objects can no longer be written to (the grant signature has
// expired) nor consumed (mutations reject missing temp keys), so deletion
// cannot race a live upload.
func (r *Reclaimer) SweepTemp(ctx context.Context) (*Result, error) {
	objects, err := r.store.ListTemp(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := r.now().Add(-r.grantTTL)
	result := &Result{}
	for _, obj := range objects {
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := r.store.Remove(ctx, obj.Key, storage.BucketTemp); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", obj.Key, err))
			metrics.ReclamationErrorsTotal.WithLabelValues(string(storage.BucketTemp)).Inc()
			continue
		}
		result.DeletedCount++
		metrics.ReclaimedObjectsTotal.WithLabelValues(string(storage.BucketTemp)).Inc()
	}
	return result, nil
}

// SweepPerm deletes permanent objects older than the safety age that no
// image row references. This covers the promote-then-persist failure gap
// the temp sweep cannot see.
func (r *Reclaimer) SweepPerm(ctx context.Context) (*Result, error) {
	objects, err := r.store.ListPerm(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := r.now().Add(-r.permMinAge)
	result := &Result{}
	for _, obj := range objects {
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		inUse, err := r.index.StorageKeyInUse(ctx, obj.Key)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", obj.Key, err))
			metrics.ReclamationErrorsTotal.WithLabelValues(string(storage.BucketPerm)).Inc()
			continue
		}
		if inUse {
			continue
		}
		if err := r.store.Remove(ctx, obj.Key, storage.BucketPerm); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", obj.Key, err))
			metrics.ReclamationErrorsTotal.WithLabelValues(string(storage.BucketPerm)).Inc()
			continue
		}
		result.DeletedCount++
		metrics.ReclaimedObjectsTotal.WithLabelValues(string(storage.BucketPerm)).Inc()
	}
	return result, nil
}

// Run executes one full reclamation pass. Sweep errors are logged, never
// propagated; the next scheduled run retries from scratch.
func (r *Reclaimer) Run(ctx context.Context) {
	result, err := r.SweepTemp(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("temp sweep failed")
	} else {
		r.log.Info().
			Int("deleted", result.DeletedCount).
			Int("errors", len(result.Errors)).
			Msg("temp sweep completed")
	}

	if !r.permSweep {
		return
	}

	result, err = r.SweepPerm(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("perm sweep failed")
		return
	}
	r.log.Info().
		Int("deleted", result.DeletedCount).
		Int("errors", len(result.Errors)).
		Msg("perm sweep completed")
}

// Schedule registers the reclaimer on the cron runner and starts it. The
// returned cron is stopped by the caller on shutdown.
func Schedule(ctx context.Context, r *Reclaimer, spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { r.Run(ctx) }); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
