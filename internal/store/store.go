// Package store is the durable mirror of the board: a single table holding
// one row per entry, read with LoadAll and written only with ReplaceAll.
//
// # Write strategy
//
// Every mutation rewrites the whole collection inside one transaction
// (delete every row, insert every entry). This costs O(N) writes per
// mutation, which is fine for a board of this size. Ids are reassigned on
// every write and handed back to the caller through the written slice.
//
// # Revisions
//
// A one-row revision table is bumped by every ReplaceAll in the same
// transaction. A caller that persists on top of a stale revision gets
// common.ErrVersionConflict and nothing is written, so two sessions can no
// longer silently overwrite each other's snapshot.
package store

import (
	"context"

	"github.com/dmitrijs2005/logboard/internal/models"
)

// Snapshot is the full collection as of one revision, newest entry first.
type Snapshot struct {
	Entries  []models.Entry
	Revision int64
}

// Store is implemented by the SQL-backed stores.
type Store interface {
	// LoadAll returns every entry ordered by descending id, which is
	// newest-first. Failures wrap common.ErrStoreUnavailable.
	LoadAll(ctx context.Context) (*Snapshot, error)

	// ReplaceAll atomically replaces the collection with entries (given
	// newest-first) provided the stored revision still equals base. It
	// returns the new revision and sets the ID of every entry to its new
	// row id. A stale base yields common.ErrVersionConflict; other failures
	// wrap common.ErrStoreUnavailable. On any error the table and entries
	// are unchanged.
	ReplaceAll(ctx context.Context, entries []models.Entry, base int64) (int64, error)

	Close() error
}
