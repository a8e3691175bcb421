package deleted

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gallerybin/internal/common"
	"github.com/dmitrijs2005/gallerybin/internal/dbx"
	"github.com/dmitrijs2005/gallerybin/internal/models"
)

const selectColumns = `id, media_id, path, name, added_at, size, kind, duration_ms, deleted_at, expires_at`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, d models.DeletedItem) error {

	query := `INSERT INTO deleted_items (` + selectColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(media_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		d.ID, d.MediaID, d.Path, d.Name, d.AddedAt, d.Size, d.Kind.String(),
		d.Duration.Milliseconds(), d.DeletedAt, d.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert deleted item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("media %s: %w", d.MediaID, common.ErrAlreadyInBin)
	}

	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (models.DeletedItem, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM deleted_items WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByMediaID(ctx context.Context, mediaID string) (models.DeletedItem, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM deleted_items WHERE media_id = ?`, mediaID)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg string) (models.DeletedItem, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.DeletedItem{}, common.ErrorNotFound
	}
	if err != nil {
		return models.DeletedItem{}, fmt.Errorf("failed to get deleted item: %w", err)
	}
	return item, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	return r.deleteOne(ctx, `DELETE FROM deleted_items WHERE id = ?`, id)
}

func (r *SQLiteRepository) DeleteByMediaID(ctx context.Context, mediaID string) error {
	return r.deleteOne(ctx, `DELETE FROM deleted_items WHERE media_id = ?`, mediaID)
}

func (r *SQLiteRepository) deleteOne(ctx context.Context, query string, arg string) error {
	n, err := execCount(ctx, r.db, query, arg)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	total := 0
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, id := range ids {
			n, err := execCount(ctx, tx, `DELETE FROM deleted_items WHERE id = ?`, id)
			if err != nil {
				return err
			}
			total += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.DeletedItem, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM deleted_items ORDER BY deleted_at DESC, id`)
}

func (r *SQLiteRepository) ListExpired(ctx context.Context, threshold int64) ([]models.DeletedItem, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM deleted_items WHERE expires_at <= ? ORDER BY expires_at, id`, threshold)
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, threshold int64) (int, error) {
	return execCount(ctx, r.db, `DELETE FROM deleted_items WHERE expires_at <= ?`, threshold)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) (int, error) {
	return execCount(ctx, r.db, `DELETE FROM deleted_items`)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deleted_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count deleted items: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) MediaIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT media_id FROM deleted_items`)
	if err != nil {
		return nil, fmt.Errorf("error selecting media ids: %w", err)
	}
	defer rows.Close()

	result := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.DeletedItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error selecting deleted items: %w", err)
	}
	defer rows.Close()

	var result []models.DeletedItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (models.DeletedItem, error) {
	var (
		d          models.DeletedItem
		kind       string
		durationMs int64
	)
	err := s.Scan(&d.ID, &d.MediaID, &d.Path, &d.Name, &d.AddedAt, &d.Size, &kind, &durationMs, &d.DeletedAt, &d.ExpiresAt)
	if err != nil {
		return models.DeletedItem{}, err
	}
	d.Kind = models.ParseMediaKind(kind)
	d.Duration = time.Duration(durationMs) * time.Millisecond
	return d, nil
}

func execCount(ctx context.Context, db dbx.DBTX, query string, args ...any) (int, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete deleted items: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}
