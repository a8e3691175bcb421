// Package deleted provides the persistence layer of the recycle bin.
//
// # Overview
//
// The package defines a Repository interface for storing DeletedItem records
// and a SQLite implementation (SQLiteRepository) over the deleted_items table
// created by the embedded goose migrations. Timestamps are stored as Unix
// milliseconds so the expiry threshold comparisons happen in SQL.
//
// Key Types
//
//   - type Repository        : contract used by the recycle-bin engine
//   - type SQLiteRepository  : SQLite implementation
//
// Typical Usage
//
//	repo := deleted.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, item)
//	due, _ := repo.ListExpired(ctx, now.UnixMilli())
//	n, _ := repo.DeleteExpired(ctx, now.UnixMilli())
//
// Only one media id may be in the bin at a time; a second Insert for the same
// media id fails with common.ErrAlreadyInBin.
package deleted
