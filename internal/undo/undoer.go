package undo

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gallerybin/internal/common"
	"github.com/dmitrijs2005/gallerybin/internal/logging"
	"github.com/dmitrijs2005/gallerybin/internal/media"
	"github.com/dmitrijs2005/gallerybin/internal/models"
	"github.com/dmitrijs2005/gallerybin/internal/taskq"
)

// ErrStale is returned when the item of an undo record already left the
// recycle bin (restored, purged or expired). The record is dropped.
var ErrStale = errors.New("undo record no longer applies")

// Restorer takes a media item out of the recycle bin.
type Restorer interface {
	RestoreMedia(ctx context.Context, mediaID string) *taskq.Future[struct{}]
}

// Undoer reverses records popped from a Stack.
type Undoer struct {
	stack   *Stack
	bin     Restorer
	deleter media.Deleter
	log     logging.Logger
}

func NewUndoer(stack *Stack, bin Restorer, deleter media.Deleter, log logging.Logger) *Undoer {
	return &Undoer{stack: stack, bin: bin, deleter: deleter, log: log.With("component", "undo")}
}

// Undo pops the most recent record and applies it. ok is false when there
// is nothing to undo.
func (u *Undoer) Undo(ctx context.Context, view View) (rec models.UndoRecord, ok bool, err error) {
	rec, ok = u.stack.Pop()
	if !ok {
		return models.UndoRecord{}, false, nil
	}
	return rec, true, u.Apply(ctx, rec, view)
}

// Apply reverses rec. On success the original item is reinserted into view
// at its old position (or at the end of a shorter list). On failure rec is
// pushed back so the user can retry, unless the item is no longer in the
// bin: then rec is consumed and the error wraps ErrStale.
func (u *Undoer) Apply(ctx context.Context, rec models.UndoRecord, view View) error {
	if rec.Kind == models.UndoDelayMove && rec.CopyID != "" {
		// The copy is removed first; a leftover copy is tolerated.
		out := u.deleter.RequestDelete(ctx, rec.CopyID)
		if out.Status != media.OutcomeDeleted {
			u.log.Warn(ctx, "could not remove delayed copy", "copy_id", rec.CopyID, "status", out.Status.String(), "err", out.Err)
		}
	}

	if _, err := u.bin.RestoreMedia(ctx, rec.Item.ID).Wait(ctx); err != nil {
		if errors.Is(err, common.ErrNotInBin) {
			u.log.Info(ctx, "dropped stale undo record", "kind", rec.Kind.String(), "media_id", rec.Item.ID)
			return fmt.Errorf("undo %s of %s: %w: %w", rec.Kind, rec.Item.ID, ErrStale, err)
		}
		u.stack.Push(rec)
		return fmt.Errorf("undo %s of %s: %w", rec.Kind, rec.Item.ID, err)
	}

	if view != nil {
		view.Insert(min(rec.Position, view.Len()), rec.Item)
	}

	u.log.Info(ctx, "undone", "kind", rec.Kind.String(), "media_id", rec.Item.ID)
	return nil
}
