// Package gallery ties the media store, the recycle bin and the undo stack
// together into the operations the gallery screens need.
package gallery

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gallerybin/internal/common"
	"github.com/dmitrijs2005/gallerybin/internal/grouping"
	"github.com/dmitrijs2005/gallerybin/internal/logging"
	"github.com/dmitrijs2005/gallerybin/internal/media"
	"github.com/dmitrijs2005/gallerybin/internal/models"
	"github.com/dmitrijs2005/gallerybin/internal/taskq"
	"github.com/dmitrijs2005/gallerybin/internal/undo"
)

// Bin is the part of the recycle-bin engine the gallery uses.
type Bin interface {
	SoftDelete(ctx context.Context, item models.MediaItem) *taskq.Future[models.DeletedItem]
	RestoreMedia(ctx context.Context, mediaID string) *taskq.Future[struct{}]
	MediaIDs(ctx context.Context) *taskq.Future[map[string]struct{}]
}

// Service is the gallery core. It owns the undo stack, so one Service should
// live as long as the user session.
type Service struct {
	store   media.Store
	bin     Bin
	grouper *grouping.Grouper
	pool    *taskq.Pool
	stack   *undo.Stack
	undoer  *undo.Undoer
	log     logging.Logger
}

func NewService(store media.Store, bin Bin, grouper *grouping.Grouper, pool *taskq.Pool, log logging.Logger) *Service {
	log = log.With("component", "gallery")
	stack := undo.NewStack()
	return &Service{
		store:   store,
		bin:     bin,
		grouper: grouper,
		pool:    pool,
		stack:   stack,
		undoer:  undo.NewUndoer(stack, bin, store, log),
		log:     log,
	}
}

// Load lists the media store, leaving out everything the recycle bin owns.
func (s *Service) Load(ctx context.Context) ([]models.MediaItem, error) {
	excluded, err := s.bin.MediaIDs(ctx).Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("load gallery: %w", err)
	}

	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load gallery: %w", err)
	}

	items := make([]models.MediaItem, 0, len(all))
	for _, it := range all {
		if _, inBin := excluded[it.ID]; inBin {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// Buckets groups the gallery by display date.
func (s *Service) Buckets(ctx context.Context) (*grouping.Buckets, error) {
	items, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.grouper.GroupAll(items), nil
}

// ItemsForDate returns the gallery items shown under the date key.
func (s *Service) ItemsForDate(ctx context.Context, key string) ([]models.MediaItem, error) {
	items, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.grouper.ItemsForDate(items, key), nil
}

// Visible returns the items whose display date has arrived.
func (s *Service) Visible(ctx context.Context, now time.Time) ([]models.MediaItem, error) {
	items, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.grouper.Visible(items, now), nil
}

// Find returns the gallery item with mediaID.
func (s *Service) Find(ctx context.Context, mediaID string) (models.MediaItem, error) {
	items, err := s.Load(ctx)
	if err != nil {
		return models.MediaItem{}, err
	}
	for _, it := range items {
		if it.ID == mediaID {
			return it, nil
		}
	}
	return models.MediaItem{}, fmt.Errorf("media %s: %w", mediaID, common.ErrorNotFound)
}

// DisplayDate returns the bucket key of item.
func (s *Service) DisplayDate(item models.MediaItem) string {
	return s.grouper.DisplayDate(item)
}

// Delete soft-deletes item and records it for undo. position is the item's
// index in the caller's list.
func (s *Service) Delete(ctx context.Context, item models.MediaItem, position int) (models.DeletedItem, error) {
	d, err := s.bin.SoftDelete(ctx, item).Wait(ctx)
	if err != nil {
		return models.DeletedItem{}, err
	}
	s.stack.Push(models.NewDeleteRecord(item, position))
	return d, nil
}

// MoveToLater hides item until a later display date: the file is copied
// (the copy is stamped with the current time) and the original goes to the
// recycle bin. It returns the copy.
func (s *Service) MoveToLater(ctx context.Context, item models.MediaItem, position int) (models.MediaItem, error) {
	cp, err := taskq.Go(s.pool, ctx, func(ctx context.Context) (models.MediaItem, error) {
		return s.store.Copy(ctx, item)
	}).Wait(ctx)
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("move %s to later: %w", item.ID, err)
	}

	if _, err := s.bin.SoftDelete(ctx, item).Wait(ctx); err != nil {
		if out := s.store.RequestDelete(ctx, cp.ID); out.Status != media.OutcomeDeleted {
			s.log.Warn(ctx, "could not remove copy after failed move", "copy_id", cp.ID, "err", out.Err)
		}
		return models.MediaItem{}, fmt.Errorf("move %s to later: %w", item.ID, err)
	}

	s.stack.Push(models.NewDelayMoveRecord(item, position, cp.ID))
	s.log.Info(ctx, "moved to later", "media_id", item.ID, "copy_id", cp.ID, "shows_on", s.grouper.DisplayDate(cp))
	return cp, nil
}

// Undo reverses the most recent delete or move-to-later and reinserts the
// item into view. ok is false when there is nothing to undo.
func (s *Service) Undo(ctx context.Context, view undo.View) (models.UndoRecord, bool, error) {
	return s.undoer.Undo(ctx, view)
}

// UndoDepth returns how many actions can currently be undone.
func (s *Service) UndoDepth() int {
	return s.stack.Len()
}
