package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gallerybin/internal/common"
	"github.com/dmitrijs2005/gallerybin/internal/grouping"
	"github.com/dmitrijs2005/gallerybin/internal/metrics"
	"github.com/dmitrijs2005/gallerybin/internal/models"
	"github.com/dmitrijs2005/gallerybin/internal/recyclebin"
	"github.com/dmitrijs2005/gallerybin/internal/undo"
	"github.com/dustin/go-humanize"
)

// Buckets prints every display date with its item count, newest first.
func (a *App) Buckets(ctx context.Context) error {
	b, err := a.gallery.Buckets(ctx)
	if err != nil {
		return err
	}
	if b.Len() == 0 {
		a.printf("Gallery is empty\n")
		return nil
	}

	today := a.grouper.TodayKey(a.clock.Now())
	for _, key := range b.SortedKeys() {
		items := b.Get(key)
		var size int64
		for _, it := range items {
			size += it.Size
		}
		marker := ""
		if key > today {
			marker = " (hidden)"
		}
		a.printf("%s  %4d items  %10s%s\n", key, len(items), formatSize(size), marker)
	}
	a.printf("%d items in %d dates\n", b.Total(), b.Len())
	return nil
}

// Date prints the items shown under one display date.
func (a *App) Date(ctx context.Context, key string) error {
	if _, err := time.Parse(grouping.DateLayout, key); err != nil {
		return fmt.Errorf("date must look like 2006-01-02: %w", err)
	}
	items, err := a.gallery.ItemsForDate(ctx, key)
	if err != nil {
		return err
	}
	a.printItems(items)
	return nil
}

// Today prints every item whose display date has arrived.
func (a *App) Today(ctx context.Context) error {
	items, err := a.gallery.Visible(ctx, a.clock.Now())
	if err != nil {
		return err
	}
	a.printItems(items)
	return nil
}

// List reloads the shell's working list and prints it with positions.
func (a *App) List(ctx context.Context) error {
	if err := a.reloadView(ctx); err != nil {
		return err
	}
	a.printItems(a.view.Items)
	return nil
}

func (a *App) printItems(items []models.MediaItem) {
	if len(items) == 0 {
		a.printf("No items\n")
		return
	}
	for i, it := range items {
		a.printf("%s  %s\n", formatItem(i, it), a.gallery.DisplayDate(it))
	}
}

func (a *App) position(ctx context.Context, mediaID string) (int, error) {
	if err := a.ensureView(ctx); err != nil {
		return 0, err
	}
	pos := a.view.IndexOf(mediaID)
	if pos < 0 {
		if err := a.reloadView(ctx); err != nil {
			return 0, err
		}
		pos = a.view.IndexOf(mediaID)
	}
	if pos < 0 {
		return 0, fmt.Errorf("media %s: %w", mediaID, common.ErrorNotFound)
	}
	return pos, nil
}

// Delete moves an item to the recycle bin.
func (a *App) Delete(ctx context.Context, mediaID string) error {
	pos, err := a.position(ctx, mediaID)
	if err != nil {
		return err
	}
	item := a.view.Items[pos]

	d, err := a.gallery.Delete(ctx, item, pos)
	if err != nil {
		return err
	}
	a.view.Remove(pos)

	a.printf("Moved %s to the recycle bin, purged in %s\n", item.Name, formatRemaining(d.Remaining(a.clock.Now())))
	return nil
}

// Later hides an item until a later display date.
func (a *App) Later(ctx context.Context, mediaID string) error {
	pos, err := a.position(ctx, mediaID)
	if err != nil {
		return err
	}
	item := a.view.Items[pos]

	cp, err := a.gallery.MoveToLater(ctx, item, pos)
	if err != nil {
		return err
	}
	a.view.Remove(pos)

	a.printf("Moved %s to later, it shows again on %s as %s\n", item.Name, a.gallery.DisplayDate(cp), cp.Name)
	return nil
}

// Undo reverses the most recent delete or move to later.
func (a *App) Undo(ctx context.Context) error {
	if err := a.ensureView(ctx); err != nil {
		return err
	}

	rec, ok, err := a.gallery.Undo(ctx, a.view)
	if errors.Is(err, undo.ErrStale) {
		a.printf("%s already left the recycle bin, nothing to undo for it\n", rec.Item.Name)
		return nil
	}
	if err != nil {
		return err
	}
	if !ok {
		a.printf("Nothing to undo\n")
		return nil
	}

	a.printf("Undid %s of %s\n", rec.Kind, rec.Item.Name)
	return nil
}

// BinList prints the recycle bin, most recent deletion first.
func (a *App) BinList(ctx context.Context) error {
	items, err := a.engine.ListAll(ctx).Wait(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		a.printf("Recycle bin is empty\n")
		return nil
	}

	now := a.clock.Now()
	for _, d := range items {
		a.printf("%s  %-32s %10s  deleted %s, purged in %s\n",
			d.MediaID, d.Name, formatSize(d.Size),
			humanize.RelTime(time.UnixMilli(d.DeletedAt), now, "ago", "from now"),
			formatRemaining(d.Remaining(now)))
	}
	return nil
}

func (a *App) findInBin(ctx context.Context, mediaID string) (models.DeletedItem, error) {
	items, err := a.engine.ListAll(ctx).Wait(ctx)
	if err != nil {
		return models.DeletedItem{}, err
	}
	for _, d := range items {
		if d.MediaID == mediaID {
			return d, nil
		}
	}
	return models.DeletedItem{}, fmt.Errorf("media %s: %w", mediaID, common.ErrNotInBin)
}

// BinRestore takes an item out of the recycle bin.
func (a *App) BinRestore(ctx context.Context, mediaID string) error {
	d, err := a.findInBin(ctx, mediaID)
	if err != nil {
		return err
	}
	if _, err := a.engine.Restore(ctx, d).Wait(ctx); err != nil {
		return err
	}
	a.view = nil
	a.printf("Restored %s\n", d.Name)
	return nil
}

// BinPurge deletes an item for good, asking for consent when the file is
// protected.
func (a *App) BinPurge(ctx context.Context, mediaID string) error {
	d, err := a.findInBin(ctx, mediaID)
	if err != nil {
		return err
	}

	res, err := a.engine.PermanentlyDelete(ctx, d).Wait(ctx)
	if err != nil {
		return err
	}

	if res.Status == recyclebin.PurgeNeedsConsent {
		granted := a.askConsent(fmt.Sprintf("%s is protected. Delete it permanently? [y/N]", d.Name))
		res, err = a.engine.ResumeAfterConsent(ctx, d, res.Token, granted).Wait(ctx)
		if err != nil {
			return err
		}
	}

	switch res.Status {
	case recyclebin.PurgeDeleted:
		a.printf("Deleted %s\n", d.Name)
	case recyclebin.PurgeFailed:
		a.printf("Removed %s from the bin, but the file could not be deleted: %v\n", d.Name, res.Reason)
	case recyclebin.PurgeDeclined:
		a.printf("Kept %s in the recycle bin\n", d.Name)
	}
	return nil
}

// BinSweep purges everything that has expired.
func (a *App) BinSweep(ctx context.Context) error {
	n, err := a.engine.SweepExpired(ctx, a.clock.Now()).Wait(ctx)
	if err != nil {
		return err
	}
	a.printf("Purged %d expired items\n", n)
	return nil
}

// BinEmpty purges the whole recycle bin.
func (a *App) BinEmpty(ctx context.Context) error {
	n, err := a.engine.EmptyBin(ctx).Wait(ctx)
	if err != nil {
		return err
	}
	a.printf("Purged %d items\n", n)
	return nil
}

// Stats prints bin size and the process counters.
func (a *App) Stats(ctx context.Context) error {
	n, err := a.engine.Count(ctx).Wait(ctx)
	if err != nil {
		return err
	}
	a.printf("Items in recycle bin: %d\n", n)
	a.printf("Undo depth: %d\n", a.gallery.UndoDepth())

	samples, err := metrics.Gather(a.reg)
	if err != nil {
		return err
	}
	for _, s := range samples {
		name := s.Name
		if s.Labels != "" {
			name += "{" + s.Labels + "}"
		}
		a.printf("%s %g\n", name, s.Value)
	}
	return nil
}
