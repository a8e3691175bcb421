package deleted

import (
	"context"

	"github.com/dmitrijs2005/gallerybin/internal/models"
)

// Repository stores recycle-bin records.
type Repository interface {
	// Insert stores a new record. A record for the same media id must not exist.
	Insert(ctx context.Context, item models.DeletedItem) error

	// GetByID returns the record with the given internal id.
	GetByID(ctx context.Context, id string) (models.DeletedItem, error)

	// GetByMediaID returns the record holding the given media id.
	GetByMediaID(ctx context.Context, mediaID string) (models.DeletedItem, error)

	// DeleteByID removes one record by internal id.
	DeleteByID(ctx context.Context, id string) error

	// DeleteByMediaID removes the record holding the given media id.
	DeleteByMediaID(ctx context.Context, mediaID string) error

	// DeleteMany removes the given records in one transaction and returns
	// how many existed.
	DeleteMany(ctx context.Context, ids []string) (int, error)

	// ListAll returns every record, most recently deleted first.
	ListAll(ctx context.Context) ([]models.DeletedItem, error)

	// ListExpired returns records with ExpiresAt <= threshold (Unix ms).
	ListExpired(ctx context.Context, threshold int64) ([]models.DeletedItem, error)

	// DeleteExpired removes records with ExpiresAt <= threshold (Unix ms).
	DeleteExpired(ctx context.Context, threshold int64) (int, error)

	// DeleteAll empties the table.
	DeleteAll(ctx context.Context) (int, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)

	// MediaIDs returns the set of media ids currently in the bin.
	MediaIDs(ctx context.Context) (map[string]struct{}, error)
}
