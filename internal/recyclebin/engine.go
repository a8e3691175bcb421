package recyclebin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gallerybin/internal/common"
	"github.com/dmitrijs2005/gallerybin/internal/logging"
	"github.com/dmitrijs2005/gallerybin/internal/media"
	"github.com/dmitrijs2005/gallerybin/internal/metrics"
	"github.com/dmitrijs2005/gallerybin/internal/models"
	"github.com/dmitrijs2005/gallerybin/internal/repositories/deleted"
	"github.com/dmitrijs2005/gallerybin/internal/taskq"
	"github.com/google/uuid"
)

// Engine owns the bin store. All store access happens on its serial queue.
type Engine struct {
	repo    deleted.Repository
	deleter media.Deleter
	clock   Clock
	log     logging.Logger
	metrics *metrics.Bin
	queue   *taskq.Serial
	newID   func() string
}

// NewEngine starts the engine's worker. m may be nil.
func NewEngine(repo deleted.Repository, deleter media.Deleter, clock Clock, log logging.Logger, m *metrics.Bin) *Engine {
	return &Engine{
		repo:    repo,
		deleter: deleter,
		clock:   clock,
		log:     log.With("component", "recyclebin"),
		metrics: m,
		queue:   taskq.NewSerial(),
		newID:   uuid.NewString,
	}
}

// Close waits for queued operations and stops the worker.
func (e *Engine) Close() {
	e.queue.Close()
}

// SoftDelete moves item into the bin with a 24h expiry.
func (e *Engine) SoftDelete(ctx context.Context, item models.MediaItem) *taskq.Future[models.DeletedItem] {
	return taskq.Run(e.queue, ctx, func(ctx context.Context) (models.DeletedItem, error) {
		d := models.NewDeletedItem(e.newID(), item, e.clock.Now())
		if err := e.repo.Insert(ctx, d); err != nil {
			return models.DeletedItem{}, fmt.Errorf("soft delete %s: %w", item.ID, err)
		}

		e.metrics.SoftDeleted()
		e.refreshSize(ctx)
		e.log.Info(ctx, "moved to recycle bin", "media_id", item.ID, "expires_at", d.ExpiresAt)
		return d, nil
	})
}

// Restore takes d out of the bin. The media file itself was never touched.
func (e *Engine) Restore(ctx context.Context, d models.DeletedItem) *taskq.Future[struct{}] {
	return taskq.Run(e.queue, ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.restore(ctx, d.MediaID, func() error { return e.repo.DeleteByID(ctx, d.ID) })
	})
}

// RestoreMedia takes the record holding mediaID out of the bin.
func (e *Engine) RestoreMedia(ctx context.Context, mediaID string) *taskq.Future[struct{}] {
	return taskq.Run(e.queue, ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.restore(ctx, mediaID, func() error { return e.repo.DeleteByMediaID(ctx, mediaID) })
	})
}

func (e *Engine) restore(ctx context.Context, mediaID string, del func() error) error {
	if err := del(); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("restore %s: %w", mediaID, common.ErrNotInBin)
		}
		return fmt.Errorf("restore %s: %w", mediaID, err)
	}

	e.metrics.Restored()
	e.refreshSize(ctx)
	e.log.Info(ctx, "restored from recycle bin", "media_id", mediaID)
	return nil
}

// PermanentlyDelete removes the underlying file and then the record. When
// the media store needs consent the record is left untouched and the result
// carries the token for ResumeAfterConsent.
func (e *Engine) PermanentlyDelete(ctx context.Context, d models.DeletedItem) *taskq.Future[PurgeResult] {
	return taskq.Run(e.queue, ctx, func(ctx context.Context) (PurgeResult, error) {
		if _, err := e.repo.GetByID(ctx, d.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return PurgeResult{}, fmt.Errorf("purge %s: %w", d.MediaID, common.ErrNotInBin)
			}
			return PurgeResult{}, fmt.Errorf("purge %s: %w", d.MediaID, err)
		}

		out := e.deleter.RequestDelete(ctx, d.MediaID)
		if out.Status == media.OutcomeNeedsConsent {
			e.metrics.ConsentRequested()
			e.log.Info(ctx, "permanent deletion needs consent", "media_id", d.MediaID)
			return PurgeResult{Status: PurgeNeedsConsent, Token: out.Token}, nil
		}

		return e.finishPurge(ctx, d, out)
	})
}

// ResumeAfterConsent completes a purge that returned PurgeNeedsConsent.
// A declined consent leaves the record in the bin and releases the token. A
// granted one removes the record whatever the removal outcome.
func (e *Engine) ResumeAfterConsent(ctx context.Context, d models.DeletedItem, token string, granted bool) *taskq.Future[PurgeResult] {
	return taskq.Run(e.queue, ctx, func(ctx context.Context) (PurgeResult, error) {
		if !granted {
			e.deleter.DiscardConsent(ctx, token)
			e.log.Info(ctx, "consent declined", "media_id", d.MediaID)
			return PurgeResult{Status: PurgeDeclined}, nil
		}

		out := e.deleter.ResolveConsent(ctx, token)
		if out.Status == media.OutcomeNeedsConsent {
			out = media.Failed(fmt.Errorf("consent for %s was not honored", d.MediaID))
		}
		return e.finishPurge(ctx, d, out)
	})
}

func (e *Engine) finishPurge(ctx context.Context, d models.DeletedItem, out media.Outcome) (PurgeResult, error) {
	result := PurgeResult{Status: PurgeDeleted}
	if out.Status == media.OutcomeFailed {
		e.metrics.RemovalFailed()
		e.log.Warn(ctx, "failed to remove media file", "media_id", d.MediaID, "path", d.Path, "err", out.Err)
		result = PurgeResult{Status: PurgeFailed, Reason: out.Err}
	}

	if err := e.repo.DeleteByID(ctx, d.ID); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return PurgeResult{}, fmt.Errorf("purge %s: %w", d.MediaID, err)
	}

	e.metrics.Purged(metrics.ReasonPermanent, 1)
	e.refreshSize(ctx)
	e.log.Info(ctx, "purged from recycle bin", "media_id", d.MediaID, "status", result.Status.String())
	return result, nil
}

// SweepExpired purges every record with ExpiresAt <= now and returns how
// many records were removed.
func (e *Engine) SweepExpired(ctx context.Context, now time.Time) *taskq.Future[int] {
	threshold := now.UnixMilli()
	return taskq.Run(e.queue, ctx, func(ctx context.Context) (int, error) {
		due, err := e.repo.ListExpired(ctx, threshold)
		if err != nil {
			return 0, fmt.Errorf("sweep: %w", err)
		}
		if len(due) == 0 {
			return 0, nil
		}

		e.removeFiles(ctx, due)

		n, err := e.repo.DeleteExpired(ctx, threshold)
		if err != nil {
			return 0, fmt.Errorf("sweep: %w", err)
		}

		e.metrics.Purged(metrics.ReasonExpired, n)
		e.refreshSize(ctx)
		e.log.Info(ctx, "swept expired items", "purged", n)
		return n, nil
	})
}

// EmptyBin purges every record currently in the bin.
func (e *Engine) EmptyBin(ctx context.Context) *taskq.Future[int] {
	return taskq.Run(e.queue, ctx, func(ctx context.Context) (int, error) {
		all, err := e.repo.ListAll(ctx)
		if err != nil {
			return 0, fmt.Errorf("empty bin: %w", err)
		}

		e.removeFiles(ctx, all)

		ids := make([]string, 0, len(all))
		for _, d := range all {
			ids = append(ids, d.ID)
		}
		n, err := e.repo.DeleteMany(ctx, ids)
		if err != nil {
			return 0, fmt.Errorf("empty bin: %w", err)
		}

		e.metrics.Purged(metrics.ReasonEmpty, n)
		e.refreshSize(ctx)
		e.log.Info(ctx, "emptied recycle bin", "purged", n)
		return n, nil
	})
}

// removeFiles asks the media store to remove each file and logs anything
// that did not go through. Consent cannot be asked for in bulk, so such
// files are left behind like failed ones.
func (e *Engine) removeFiles(ctx context.Context, items []models.DeletedItem) {
	for _, d := range items {
		out := e.deleter.RequestDelete(ctx, d.MediaID)
		switch out.Status {
		case media.OutcomeDeleted:
			continue
		case media.OutcomeNeedsConsent:
			e.metrics.RemovalFailed()
			e.log.Warn(ctx, "skipping protected media file", "media_id", d.MediaID, "path", d.Path)
		default:
			e.metrics.RemovalFailed()
			e.log.Warn(ctx, "failed to remove media file", "media_id", d.MediaID, "path", d.Path, "err", out.Err)
		}
	}
}

// ListAll returns the bin contents, most recently deleted first.
func (e *Engine) ListAll(ctx context.Context) *taskq.Future[[]models.DeletedItem] {
	return taskq.Run(e.queue, ctx, func(ctx context.Context) ([]models.DeletedItem, error) {
		items, err := e.repo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bin: %w", err)
		}
		return items, nil
	})
}

// Count returns the number of records in the bin.
func (e *Engine) Count(ctx context.Context) *taskq.Future[int] {
	return taskq.Run(e.queue, ctx, func(ctx context.Context) (int, error) {
		n, err := e.repo.Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("count bin: %w", err)
		}
		return n, nil
	})
}

// MediaIDs returns the media ids the bin owns. The gallery hides them.
func (e *Engine) MediaIDs(ctx context.Context) *taskq.Future[map[string]struct{}] {
	return taskq.Run(e.queue, ctx, func(ctx context.Context) (map[string]struct{}, error) {
		ids, err := e.repo.MediaIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("bin media ids: %w", err)
		}
		return ids, nil
	})
}

func (e *Engine) refreshSize(ctx context.Context) {
	if e.metrics == nil {
		return
	}
	n, err := e.repo.Count(ctx)
	if err != nil {
		e.log.Debug(ctx, "failed to count bin", "err", err)
		return
	}
	e.metrics.SetSize(n)
}
