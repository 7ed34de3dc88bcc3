// Package board holds the in-memory working set of a session. Every
// mutation is computed on a copy, persisted through store.ReplaceAll and
// only then swapped in, so a failed persist leaves the working set as it was.
package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/logboard/internal/backup"
	"github.com/dmitrijs2005/logboard/internal/common"
	"github.com/dmitrijs2005/logboard/internal/logging"
	"github.com/dmitrijs2005/logboard/internal/metrics"
	"github.com/dmitrijs2005/logboard/internal/models"
	"github.com/dmitrijs2005/logboard/internal/richtext"
	"github.com/dmitrijs2005/logboard/internal/store"
	"github.com/dmitrijs2005/logboard/internal/timex"
)

// UnknownRevision marks a working set that was never loaded. Any write
// based on it conflicts in the store.
const UnknownRevision int64 = -1

// Repository is the authoritative ordered list of entries for one session,
// newest first. Indexes are positions in this full list.
type Repository struct {
	store    store.Store
	stamps   *timex.Formatter
	now      func() time.Time
	archiver backup.Archiver
	metrics  *metrics.Recorder
	log      logging.Logger

	entries  []models.Entry
	revision int64
}

type Option func(*Repository)

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithArchiver(a backup.Archiver) Option {
	return func(r *Repository) { r.archiver = a }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Repository) { r.metrics = m }
}

func WithLogger(l logging.Logger) Option {
	return func(r *Repository) { r.log = l }
}

// New returns an empty, not yet loaded repository.
func New(s store.Store, stamps *timex.Formatter, opts ...Option) *Repository {
	r := &Repository{
		store:    s,
		stamps:   stamps,
		now:      time.Now,
		archiver: backup.Nop{},
		log:      logging.Discard(),
		entries:  []models.Entry{},
		revision: UnknownRevision,
	}
	for _, o := range opts {
		o(r)
	}
	r.log = r.log.With("module", "board")
	return r
}

// Load replaces the working set with the store's contents. On failure the
// working set is left untouched.
func (r *Repository) Load(ctx context.Context) error {
	snap, err := r.store.LoadAll(ctx)
	if err != nil {
		r.log.Error(ctx, "load failed", "error", err)
		return err
	}
	r.entries = snap.Entries
	r.revision = snap.Revision
	return nil
}

// Entries returns a copy of the working set.
func (r *Repository) Entries() []models.Entry {
	return models.CloneAll(r.entries)
}

// Entry returns a copy of the entry at index.
func (r *Repository) Entry(index int) (models.Entry, error) {
	if err := r.checkIndex(index); err != nil {
		return models.Entry{}, err
	}
	return r.entries[index].Clone(), nil
}

func (r *Repository) Len() int {
	return len(r.entries)
}

// Revision is the store revision the working set is based on.
func (r *Repository) Revision() int64 {
	return r.revision
}

// Formatter returns the stamp formatter entries are created with.
func (r *Repository) Formatter() *timex.Formatter {
	return r.stamps
}

func (r *Repository) checkIndex(index int) error {
	if index < 0 || index >= len(r.entries) {
		return fmt.Errorf("%w: %d", common.ErrIndexOutOfRange, index)
	}
	return nil
}

// AddEntry prepends a new open entry. It returns false without persisting
// when the sanitized comment is empty.
func (r *Repository) AddEntry(ctx context.Context, user models.User, category models.Category, rawHTML string) (bool, error) {
	if !user.Valid() {
		return false, fmt.Errorf("%w: %q", common.ErrUnknownUser, user)
	}
	if !category.Valid() {
		return false, fmt.Errorf("%w: %q", common.ErrUnknownCategory, category)
	}

	comment := richtext.Sanitize(rawHTML)
	if comment == "" {
		return false, nil
	}

	e := models.Entry{
		User:      user,
		Category:  category,
		Comment:   comment,
		CreatedAt: r.stamps.Format(r.now()),
		Replies:   []models.Reply{},
	}

	next := make([]models.Entry, 0, len(r.entries)+1)
	next = append(next, e)
	next = append(next, models.CloneAll(r.entries)...)

	if err := r.persist(ctx, metrics.KindAddEntry, next); err != nil {
		return false, err
	}
	return true, nil
}

// CloseEntry marks the entry closed. Closing an already closed entry
// returns false and does not persist.
func (r *Repository) CloseEntry(ctx context.Context, index int) (bool, error) {
	if err := r.checkIndex(index); err != nil {
		return false, err
	}
	if r.entries[index].Closed {
		return false, nil
	}

	next := models.CloneAll(r.entries)
	next[index].Closed = true

	if err := r.persist(ctx, metrics.KindCloseEntry, next); err != nil {
		return false, err
	}
	return true, nil
}

// AddReply appends a reply to an open entry. Replies to closed entries and
// empty replies are ignored and return false.
func (r *Repository) AddReply(ctx context.Context, index int, user models.User, rawHTML string) (bool, error) {
	if err := r.checkIndex(index); err != nil {
		return false, err
	}
	if !user.Valid() {
		return false, fmt.Errorf("%w: %q", common.ErrUnknownUser, user)
	}
	if r.entries[index].Closed {
		return false, nil
	}

	comment := richtext.Sanitize(rawHTML)
	if comment == "" {
		return false, nil
	}

	next := models.CloneAll(r.entries)
	next[index].Replies = append(next[index].Replies, models.Reply{
		User:      user,
		Comment:   comment,
		CreatedAt: r.stamps.Format(r.now()),
	})

	if err := r.persist(ctx, metrics.KindAddReply, next); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteAll archives and then clears the board. It returns the number of
// entries removed.
func (r *Repository) DeleteAll(ctx context.Context) (int, error) {
	if err := r.archive(ctx, backup.ReasonDeleteAll); err != nil {
		return 0, err
	}

	n := len(r.entries)
	if err := r.persist(ctx, metrics.KindDeleteAll, []models.Entry{}); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteByDate removes the entries created on date. Entries with an
// unparsable stamp never match. Nothing is archived or persisted when no
// entry matches.
func (r *Repository) DeleteByDate(ctx context.Context, date civil.Date) (int, error) {
	next := make([]models.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if d, ok := timex.DateOf(e.CreatedAt); ok && d == date {
			continue
		}
		next = append(next, e.Clone())
	}

	n := len(r.entries) - len(next)
	if n == 0 {
		return 0, nil
	}

	if err := r.archive(ctx, backup.ReasonDeleteByDate); err != nil {
		return 0, err
	}
	if err := r.persist(ctx, metrics.KindDeleteByDate, next); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repository) archive(ctx context.Context, reason string) error {
	key, err := r.archiver.Archive(ctx, reason, models.CloneAll(r.entries))
	if err != nil {
		r.log.Error(ctx, "backup failed", "reason", reason, "error", err)
		return fmt.Errorf("%w: %w", common.ErrBackupFailed, err)
	}
	if key != "" {
		r.log.Info(ctx, "board archived", "reason", reason, "key", key, "entries", len(r.entries))
	}
	return nil
}

// persist writes next as the full board and swaps it in on success.
func (r *Repository) persist(ctx context.Context, kind string, next []models.Entry) error {
	start := time.Now()
	rev, err := r.store.ReplaceAll(ctx, next, r.revision)
	r.metrics.ReplaceAll(len(next), time.Since(start))

	if err != nil {
		r.metrics.PersistFailure(kind)
		if errors.Is(err, common.ErrVersionConflict) {
			r.metrics.VersionConflict()
			r.log.Warn(ctx, "stale board revision", "kind", kind, "revision", r.revision)
		} else {
			r.log.Error(ctx, "persist failed", "kind", kind, "error", err)
		}
		return err
	}

	r.entries = next
	r.revision = rev
	r.metrics.Mutation(kind)
	r.log.Debug(ctx, "board persisted", "kind", kind, "entries", len(next), "revision", rev)
	return nil
}
