package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/logboard/internal/common"
	"github.com/dmitrijs2005/logboard/internal/dbx"
	"github.com/dmitrijs2005/logboard/internal/models"
)

// dialect carries the statements that differ between SQL backends.
type dialect struct {
	name           string
	selectRevision string
	selectEntries  string
	bumpRevision   string
	deleteEntries  string
	insertEntry    string
}

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db *sql.DB
	d  dialect
}

func newSQLStore(db *sql.DB, d dialect) *SQLStore {
	return &SQLStore{db: db, d: d}
}

// Dialect names the backend, e.g. "postgres" or "sqlite".
func (s *SQLStore) Dialect() string {
	return s.d.name
}

// DB exposes the underlying pool (used by health checks).
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrStoreUnavailable, op, err)
}

// LoadAll reads the revision and every row in one transaction.
func (s *SQLStore) LoadAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Entries: []models.Entry{}}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := tx.QueryRowContext(ctx, s.d.selectRevision).Scan(&snap.Revision); err != nil {
			return fmt.Errorf("select revision: %w", err)
		}

		rows, err := tx.QueryContext(ctx, s.d.selectEntries)
		if err != nil {
			return fmt.Errorf("select entries: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				e       models.Entry
				user    string
				cat     string
				replies []byte
			)
			if err := rows.Scan(&e.ID, &user, &cat, &e.Comment, &e.CreatedAt, &replies, &e.Closed); err != nil {
				return fmt.Errorf("scan entry: %w", err)
			}
			e.User = models.User(user)
			e.Category = models.Category(cat)
			if e.Replies, err = decodeReplies(replies); err != nil {
				return fmt.Errorf("entry %d: %w", e.ID, err)
			}
			snap.Entries = append(snap.Entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, unavailable("load entries", err)
	}
	return snap, nil
}

// ReplaceAll bumps the revision, truncates the table and re-inserts entries
// oldest-first so that descending ids reproduce the newest-first order.
func (s *SQLStore) ReplaceAll(ctx context.Context, entries []models.Entry, base int64) (int64, error) {
	ids := make([]int64, len(entries))
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, s.d.bumpRevision, base)
		if err != nil {
			return fmt.Errorf("bump revision: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n != 1 {
			return common.ErrVersionConflict
		}

		if _, err := tx.ExecContext(ctx, s.d.deleteEntries); err != nil {
			return fmt.Errorf("delete entries: %w", err)
		}

		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			replies, err := encodeReplies(e.Replies)
			if err != nil {
				return err
			}
			if err := tx.QueryRowContext(ctx, s.d.insertEntry,
				string(e.User), string(e.Category), e.Comment, e.CreatedAt, replies, e.Closed).Scan(&ids[i]); err != nil {
				return fmt.Errorf("insert entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return base, err
		}
		return base, unavailable("replace entries", err)
	}
	for i := range entries {
		entries[i].ID = ids[i]
	}
	return base + 1, nil
}
