package cli

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gallerybin/internal/common"
	"github.com/dmitrijs2005/gallerybin/internal/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")
)

const mediaRoot = "/pics"

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DBPath = ":memory:"
	cfg.MediaRoot = mediaRoot
	cfg.TimeZone = "UTC"
	cfg.LogLevel = "error"
	return cfg
}

func writeMedia(t *testing.T, fsys afero.Fs, name string, data []byte, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(mediaRoot, name)
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, data, 0o644))
	require.NoError(t, fsys.Chtimes(path, mtime, mtime))
	return path
}

func newTestApp(t *testing.T) (*App, afero.Fs, *bytes.Buffer) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(mediaRoot, 0o755))

	var out bytes.Buffer
	a, err := NewApp(context.Background(), testConfig(), fsys, strings.NewReader(""), &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, fsys, &out
}

func idOf(t *testing.T, a *App, name string) string {
	t.Helper()
	require.NoError(t, a.reloadView(context.Background()))
	for _, it := range a.view.Items {
		if it.Name == name {
			return it.ID
		}
	}
	t.Fatalf("no item named %s", name)
	return ""
}

func names(a *App) []string {
	out := make([]string, 0, a.view.Len())
	for _, it := range a.view.Items {
		out = append(out, it.Name)
	}
	return out
}

func TestApp_DeleteAndUndo(t *testing.T) {
	a, fsys, out := newTestApp(t)
	ctx := context.Background()
	base := time.Now().Add(-10 * 24 * time.Hour)
	writeMedia(t, fsys, "a.jpg", jpegBytes, base.Add(2*time.Hour))
	writeMedia(t, fsys, "b.png", pngBytes, base.Add(time.Hour))
	writeMedia(t, fsys, "c.jpg", jpegBytes, base)

	id := idOf(t, a, "b.png")
	require.NoError(t, a.Delete(ctx, id))
	assert.Contains(t, out.String(), "Moved b.png to the recycle bin, purged in ")
	assert.Equal(t, []string{"a.jpg", "c.jpg"}, names(a))
	assert.Equal(t, "undo:1 bin:1", a.status(ctx))

	out.Reset()
	require.NoError(t, a.BinList(ctx))
	assert.Contains(t, out.String(), id)
	assert.Contains(t, out.String(), "b.png")

	out.Reset()
	require.NoError(t, a.Undo(ctx))
	assert.Contains(t, out.String(), "Undid delete of b.png")
	assert.Equal(t, []string{"a.jpg", "b.png", "c.jpg"}, names(a))
	assert.Equal(t, "undo:0 bin:0", a.status(ctx))

	out.Reset()
	require.NoError(t, a.Undo(ctx))
	assert.Equal(t, "Nothing to undo\n", out.String())
}

func TestApp_UndoAfterBinRestore(t *testing.T) {
	a, fsys, out := newTestApp(t)
	ctx := context.Background()
	base := time.Now().Add(-10 * 24 * time.Hour)
	writeMedia(t, fsys, "a.jpg", jpegBytes, base.Add(time.Hour))
	writeMedia(t, fsys, "b.png", pngBytes, base)

	idA := idOf(t, a, "a.jpg")
	require.NoError(t, a.Delete(ctx, idA))
	idB := idOf(t, a, "b.png")
	require.NoError(t, a.Delete(ctx, idB))
	require.NoError(t, a.BinRestore(ctx, idB))

	out.Reset()
	require.NoError(t, a.Undo(ctx))
	assert.Contains(t, out.String(), "b.png already left the recycle bin")

	out.Reset()
	require.NoError(t, a.Undo(ctx))
	assert.Contains(t, out.String(), "Undid delete of a.jpg")
	assert.Equal(t, "undo:0 bin:0", a.status(ctx))
}

func TestApp_DeleteUnknownID(t *testing.T) {
	a, _, _ := newTestApp(t)
	err := a.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestApp_LaterCreatesCopyAndUndoRemovesIt(t *testing.T) {
	a, fsys, out := newTestApp(t)
	ctx := context.Background()
	writeMedia(t, fsys, "a.jpg", jpegBytes, time.Now().Add(-48*time.Hour))

	id := idOf(t, a, "a.jpg")
	require.NoError(t, a.Later(ctx, id))
	assert.Contains(t, out.String(), "Moved a.jpg to later")

	require.NoError(t, a.reloadView(ctx))
	require.Len(t, a.view.Items, 1)
	copyName := a.view.Items[0].Name
	assert.True(t, strings.HasPrefix(copyName, "a-later-"), copyName)

	out.Reset()
	require.NoError(t, a.Undo(ctx))
	assert.Contains(t, out.String(), "Undid move to later of a.jpg")

	require.NoError(t, a.reloadView(ctx))
	assert.Equal(t, []string{"a.jpg"}, names(a))
	exists, err := afero.Exists(fsys, filepath.Join(mediaRoot, copyName))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestApp_BinRestore(t *testing.T) {
	a, fsys, out := newTestApp(t)
	ctx := context.Background()
	writeMedia(t, fsys, "a.jpg", jpegBytes, time.Now())

	id := idOf(t, a, "a.jpg")
	require.NoError(t, a.Delete(ctx, id))
	require.NoError(t, a.BinRestore(ctx, id))
	assert.Contains(t, out.String(), "Restored a.jpg")

	require.NoError(t, a.List(ctx))
	assert.Equal(t, []string{"a.jpg"}, names(a))

	require.ErrorIs(t, a.BinRestore(ctx, id), common.ErrNotInBin)
}

func TestApp_BinPurge(t *testing.T) {
	a, fsys, out := newTestApp(t)
	ctx := context.Background()
	path := writeMedia(t, fsys, "a.jpg", jpegBytes, time.Now())

	id := idOf(t, a, "a.jpg")
	require.NoError(t, a.Delete(ctx, id))
	require.NoError(t, a.BinPurge(ctx, id))
	assert.Contains(t, out.String(), "Deleted a.jpg")

	exists, err := afero.Exists(fsys, path)
	require.NoError(t, err)
	assert.False(t, exists)

	n, err := a.engine.Count(ctx).Wait(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestApp_BinPurgeProtected(t *testing.T) {
	tests := []struct {
		name     string
		terminal bool
		input    string
		want     string
		gone     bool
	}{
		{"granted", true, "y\n", "Deleted a.jpg", true},
		{"declined", true, "n\n", "Kept a.jpg in the recycle bin", false},
		{"no terminal", false, "y\n", "Kept a.jpg in the recycle bin", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withTerminal(t, tt.terminal)
			a, fsys, out := newTestApp(t)
			ctx := context.Background()
			path := writeMedia(t, fsys, "a.jpg", jpegBytes, time.Now())
			require.NoError(t, fsys.Chmod(path, 0o444))

			id := idOf(t, a, "a.jpg")
			require.NoError(t, a.Delete(ctx, id))

			a.reader = bufio.NewReader(strings.NewReader(tt.input))
			require.NoError(t, a.BinPurge(ctx, id))
			assert.Contains(t, out.String(), tt.want)

			exists, err := afero.Exists(fsys, path)
			require.NoError(t, err)
			assert.Equal(t, !tt.gone, exists)

			n, err := a.engine.Count(ctx).Wait(ctx)
			require.NoError(t, err)
			if tt.gone {
				assert.Zero(t, n)
			} else {
				assert.Equal(t, 1, n)
			}
		})
	}
}

func TestApp_EmptyAndStats(t *testing.T) {
	a, fsys, out := newTestApp(t)
	ctx := context.Background()
	writeMedia(t, fsys, "a.jpg", jpegBytes, time.Now())
	writeMedia(t, fsys, "b.png", pngBytes, time.Now().Add(-time.Minute))

	require.NoError(t, a.Delete(ctx, idOf(t, a, "a.jpg")))
	require.NoError(t, a.Delete(ctx, idOf(t, a, "b.png")))

	out.Reset()
	require.NoError(t, a.BinSweep(ctx))
	assert.Equal(t, "Purged 0 expired items\n", out.String())

	out.Reset()
	require.NoError(t, a.BinEmpty(ctx))
	assert.Equal(t, "Purged 2 items\n", out.String())

	out.Reset()
	require.NoError(t, a.BinList(ctx))
	assert.Equal(t, "Recycle bin is empty\n", out.String())

	out.Reset()
	require.NoError(t, a.Stats(ctx))
	s := out.String()
	assert.Contains(t, s, "Items in recycle bin: 0")
	assert.Contains(t, s, "Undo depth: 2")
	assert.Contains(t, s, "gallerybin_bin_soft_deletes_total 2")
	assert.Contains(t, s, "gallerybin_bin_purges_total{reason=empty} 2")
}

func TestApp_GalleryViews(t *testing.T) {
	a, fsys, out := newTestApp(t)
	ctx := context.Background()
	writeMedia(t, fsys, "old.jpg", jpegBytes, time.Date(2024, 2, 28, 10, 0, 0, 0, time.UTC))
	writeMedia(t, fsys, "new.jpg", jpegBytes, time.Now())

	require.NoError(t, a.Buckets(ctx))
	s := out.String()
	assert.Contains(t, s, "2024-03-02")
	assert.Contains(t, s, "(hidden)")
	assert.Contains(t, s, "2 items in 2 dates")

	out.Reset()
	require.NoError(t, a.Date(ctx, "2024-03-02"))
	assert.Contains(t, out.String(), "old.jpg")
	assert.NotContains(t, out.String(), "new.jpg")

	out.Reset()
	require.NoError(t, a.Today(ctx))
	assert.Contains(t, out.String(), "old.jpg")
	assert.NotContains(t, out.String(), "new.jpg")

	require.Error(t, a.Date(ctx, "March 2nd"))
}

func TestApp_BucketsEmpty(t *testing.T) {
	a, _, out := newTestApp(t)
	require.NoError(t, a.Buckets(context.Background()))
	assert.Equal(t, "Gallery is empty\n", out.String())
}
