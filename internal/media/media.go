// Package media defines how the gallery talks to the device media store and
// provides Library, an implementation over an afero filesystem.
package media

import (
	"context"

	"github.com/dmitrijs2005/gallerybin/internal/models"
)

// Source enumerates the media store.
type Source interface {
	// ListAll returns every image and video, newest first.
	ListAll(ctx context.Context) ([]models.MediaItem, error)
}

// Deleter removes underlying media files.
type Deleter interface {
	// RequestDelete asks to remove the file behind mediaID. A file that is
	// already gone counts as deleted.
	RequestDelete(ctx context.Context, mediaID string) Outcome

	// ResolveConsent completes a deletion that previously needed consent.
	ResolveConsent(ctx context.Context, token string) Outcome

	// DiscardConsent forgets a token whose consent was declined. Unknown
	// tokens are ignored.
	DiscardConsent(ctx context.Context, token string)
}

// Copier duplicates a media file. The copy gets a fresh added timestamp.
type Copier interface {
	Copy(ctx context.Context, item models.MediaItem) (models.MediaItem, error)
}

// Store is everything the gallery needs from the media store.
type Store interface {
	Source
	Deleter
	Copier
}

// OutcomeStatus is the result kind of a deletion request.
type OutcomeStatus int

const (
	OutcomeDeleted OutcomeStatus = iota + 1
	OutcomeNeedsConsent
	OutcomeFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeDeleted:
		return "deleted"
	case OutcomeNeedsConsent:
		return "needs consent"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome of a deletion request. Token is set for OutcomeNeedsConsent and
// Err for OutcomeFailed.
type Outcome struct {
	Status OutcomeStatus
	Token  string
	Err    error
}

func Deleted() Outcome {
	return Outcome{Status: OutcomeDeleted}
}

func NeedsConsent(token string) Outcome {
	return Outcome{Status: OutcomeNeedsConsent, Token: token}
}

func Failed(err error) Outcome {
	return Outcome{Status: OutcomeFailed, Err: err}
}
