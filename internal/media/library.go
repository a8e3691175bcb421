package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gallerybin/internal/common"
	"github.com/dmitrijs2005/gallerybin/internal/logging"
	"github.com/dmitrijs2005/gallerybin/internal/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var mediaNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("gallerybin/media"))

// Library is a media store rooted at a directory of an afero filesystem.
//
// Media ids are name-based UUIDs of the path relative to the root, so they
// stay stable across scans. Files without the owner write bit are treated as
// protected: deleting them needs consent.
type Library struct {
	fs   afero.Fs
	root string
	log  logging.Logger
	now  func() time.Time

	mu      sync.Mutex
	index   map[string]string // media id -> path
	pending map[string]string // consent token -> path
}

// NewLibrary returns a Library over root in fsys.
func NewLibrary(fsys afero.Fs, root string, log logging.Logger) *Library {
	return &Library{
		fs:      fsys,
		root:    filepath.Clean(root),
		log:     log.With("component", "media"),
		now:     time.Now,
		index:   make(map[string]string),
		pending: make(map[string]string),
	}
}

// Root returns the library root.
func (l *Library) Root() string {
	return l.root
}

// ListAll walks the root and returns every image and video, newest first.
func (l *Library) ListAll(ctx context.Context) ([]models.MediaItem, error) {
	exists, err := afero.DirExists(l.fs, l.root)
	if err != nil {
		return nil, fmt.Errorf("stat media root: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("media root %s: %w", l.root, common.ErrorNotFound)
	}

	var items []models.MediaItem
	err = afero.Walk(l.fs, l.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			l.log.Warn(ctx, "skipping unreadable path", "path", path, "err", err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		item, err := l.describe(path, info)
		if errors.Is(err, common.ErrNotMedia) {
			l.log.Debug(ctx, "not a media file", "path", path)
			return nil
		}
		if err != nil {
			l.log.Warn(ctx, "skipping file", "path", path, "err", err)
			return nil
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan media root: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].AddedAt != items[j].AddedAt {
			return items[i].AddedAt > items[j].AddedAt
		}
		return items[i].Path < items[j].Path
	})

	l.mu.Lock()
	l.index = make(map[string]string, len(items))
	for _, it := range items {
		l.index[it.ID] = it.Path
	}
	l.mu.Unlock()

	return items, nil
}

func (l *Library) describe(path string, info os.FileInfo) (models.MediaItem, error) {
	kind, err := l.detectKind(path)
	if err != nil {
		return models.MediaItem{}, err
	}

	id, err := l.idFor(path)
	if err != nil {
		return models.MediaItem{}, err
	}

	return models.MediaItem{
		ID:      id,
		Path:    path,
		Name:    filepath.Base(path),
		AddedAt: info.ModTime().Unix(),
		Size:    info.Size(),
		Kind:    kind,
	}, nil
}

func (l *Library) detectKind(path string) (models.MediaKind, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return 0, fmt.Errorf("detect type: %w", err)
	}

	switch {
	case strings.HasPrefix(mtype.String(), "image/"):
		return models.KindImage, nil
	case strings.HasPrefix(mtype.String(), "video/"):
		return models.KindVideo, nil
	default:
		return 0, common.ErrNotMedia
	}
}

func (l *Library) idFor(path string) (string, error) {
	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		return "", err
	}
	return uuid.NewSHA1(mediaNamespace, []byte(filepath.ToSlash(rel))).String(), nil
}

// lookup resolves a media id to a path, rescanning once on a miss.
func (l *Library) lookup(ctx context.Context, mediaID string) (string, bool, error) {
	l.mu.Lock()
	path, ok := l.index[mediaID]
	l.mu.Unlock()
	if ok {
		return path, true, nil
	}

	if _, err := l.ListAll(ctx); err != nil {
		return "", false, err
	}

	l.mu.Lock()
	path, ok = l.index[mediaID]
	l.mu.Unlock()
	return path, ok, nil
}

func (l *Library) forget(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, p := range l.index {
		if p == path {
			delete(l.index, id)
		}
	}
}

// RequestDelete removes the file behind mediaID. Write-protected files are
// not touched; the caller gets a consent token instead.
func (l *Library) RequestDelete(ctx context.Context, mediaID string) Outcome {
	path, ok, err := l.lookup(ctx, mediaID)
	if err != nil {
		return Failed(err)
	}
	if !ok {
		l.log.Debug(ctx, "media already gone", "media_id", mediaID)
		return Deleted()
	}

	info, err := l.fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.forget(path)
		return Deleted()
	}
	if err != nil {
		return Failed(fmt.Errorf("stat %s: %w", path, err))
	}

	if info.Mode().Perm()&0o200 == 0 {
		token := uuid.NewString()
		l.mu.Lock()
		l.pending[token] = path
		l.mu.Unlock()
		l.log.Info(ctx, "deletion needs consent", "media_id", mediaID, "path", path)
		return NeedsConsent(token)
	}

	return l.remove(path)
}

// ResolveConsent deletes the file a consent token was issued for.
func (l *Library) ResolveConsent(ctx context.Context, token string) Outcome {
	l.mu.Lock()
	path, ok := l.pending[token]
	delete(l.pending, token)
	l.mu.Unlock()
	if !ok {
		return Failed(common.ErrUnknownConsentToken)
	}

	info, err := l.fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.forget(path)
		return Deleted()
	}
	if err != nil {
		return Failed(fmt.Errorf("stat %s: %w", path, err))
	}

	if err := l.fs.Chmod(path, info.Mode().Perm()|0o200); err != nil {
		return Failed(fmt.Errorf("chmod %s: %w", path, err))
	}

	l.log.Debug(ctx, "consent granted", "path", path)
	return l.remove(path)
}

// DiscardConsent drops a pending consent token. The file is left alone.
func (l *Library) DiscardConsent(ctx context.Context, token string) {
	l.mu.Lock()
	path, ok := l.pending[token]
	delete(l.pending, token)
	l.mu.Unlock()
	if ok {
		l.log.Debug(ctx, "consent declined", "path", path)
	}
}

func (l *Library) remove(path string) Outcome {
	err := l.fs.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Failed(fmt.Errorf("remove %s: %w", path, err))
	}
	l.forget(path)
	return Deleted()
}

// Copy duplicates item next to the original as <name>-later-<unix><ext> and
// stamps the copy with the current time, which moves its display date.
func (l *Library) Copy(ctx context.Context, item models.MediaItem) (models.MediaItem, error) {
	now := l.now()

	src, err := l.fs.Open(item.Path)
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("open %s: %w", item.Path, err)
	}
	defer src.Close()

	dstPath, err := l.copyName(item.Path, now)
	if err != nil {
		return models.MediaItem{}, err
	}

	dst, err := l.fs.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("create %s: %w", dstPath, err)
	}

	size, err := io.Copy(dst, &ctxReader{ctx: ctx, r: src})
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = l.fs.Remove(dstPath)
		return models.MediaItem{}, fmt.Errorf("copy %s: %w", item.Path, err)
	}

	if err := l.fs.Chtimes(dstPath, now, now); err != nil {
		_ = l.fs.Remove(dstPath)
		return models.MediaItem{}, fmt.Errorf("chtimes %s: %w", dstPath, err)
	}

	id, err := l.idFor(dstPath)
	if err != nil {
		_ = l.fs.Remove(dstPath)
		return models.MediaItem{}, err
	}

	l.mu.Lock()
	l.index[id] = dstPath
	l.mu.Unlock()

	l.log.Debug(ctx, "copied media", "from", item.Path, "to", dstPath, "bytes", size)

	return models.MediaItem{
		ID:       id,
		Path:     dstPath,
		Name:     filepath.Base(dstPath),
		AddedAt:  now.Unix(),
		Size:     size,
		Kind:     item.Kind,
		Duration: item.Duration,
	}, nil
}

func (l *Library) copyName(path string, now time.Time) (string, error) {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	base := stem + "-later-" + strconv.FormatInt(now.Unix(), 10)

	candidate := filepath.Join(dir, base+ext)
	for i := 1; ; i++ {
		exists, err := afero.Exists(l.fs, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(dir, base+"-"+strconv.Itoa(i)+ext)
	}
}

// ctxReader stops a copy when its context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
