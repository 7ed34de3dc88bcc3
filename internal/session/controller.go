// Package session holds the per-client editor state machine: the selected
// user and category, the new-entry buffer with its generation counter, the
// single reply editor and the view filter. All changes go through Dispatch.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/logboard/internal/auth"
	"github.com/dmitrijs2005/logboard/internal/board"
	"github.com/dmitrijs2005/logboard/internal/common"
	"github.com/dmitrijs2005/logboard/internal/filter"
	"github.com/dmitrijs2005/logboard/internal/logging"
	"github.com/dmitrijs2005/logboard/internal/metrics"
	"github.com/dmitrijs2005/logboard/internal/models"
	"github.com/google/uuid"
)

// Inline status messages.
const (
	StatusLoadFailed      = "Could not load entries; showing an empty board. Reload to retry."
	StatusStoreFailed     = "Could not save; your input was kept. Try again."
	StatusConflict        = "The board changed elsewhere; reload before making changes."
	StatusBackupFailed    = "Backup failed; nothing was deleted."
	StatusBadPassphrase   = "Invalid password"
	StatusEntryClosed     = "That entry is closed."
	StatusNoSuchEntry     = "No such entry."
	StatusDeletedAll      = "All entries deleted."
	StatusReloaded        = "Board reloaded."
	StatusReloadFailed    = "Reload failed; the board may be out of date."
	statusDeletedOnFormat = "Deleted %d entries on %s"
)

// ReplyEditor is the open reply box. Index addresses the full entry list.
type ReplyEditor struct {
	Index int    `json:"index"`
	Draft string `json:"draft"`
}

// State is everything a client session keeps between actions.
type State struct {
	User       models.User     `json:"user"`
	Category   models.Category `json:"category"`
	Filter     filter.Criteria `json:"filter"`
	Draft      string          `json:"draft"`
	Generation uint64          `json:"generation"`
	Reply      *ReplyEditor    `json:"reply,omitempty"`
	Status     string          `json:"status,omitempty"`
}

// Controller applies actions to one session's State and its board.
type Controller struct {
	id      string
	repo    *board.Repository
	admin   *auth.Passphrase
	now     func() time.Time
	metrics *metrics.Recorder
	log     logging.Logger

	state State
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(c *Controller) { c.id = id }
}

// New starts a session: the first user and category are selected and the
// date filter is set to today. A failed initial load is not returned; the
// session starts empty with a status message and its writes conflict until
// a successful reload.
func New(ctx context.Context, repo *board.Repository, admin *auth.Passphrase, opts ...Option) *Controller {
	c := &Controller{
		id:    uuid.NewString(),
		repo:  repo,
		admin: admin,
		now:   time.Now,
		log:   logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("module", "session", "session", c.id)

	c.state = State{
		User:     models.Users[0],
		Category: models.Categories[0],
		Filter: filter.Criteria{
			UseDate: true,
			Date:    c.Today(),
		},
	}

	if err := repo.Load(ctx); err != nil {
		c.log.Error(ctx, "initial load failed", "error", err)
		c.state.Status = StatusLoadFailed
	}
	return c
}

func (c *Controller) ID() string {
	return c.id
}

// State returns a copy of the session state.
func (c *Controller) State() State {
	s := c.state
	if s.Reply != nil {
		r := *s.Reply
		s.Reply = &r
	}
	return s
}

// EditorKey identifies the current new-entry buffer. It changes every time
// the buffer is reset.
func (c *Controller) EditorKey() string {
	return fmt.Sprintf("new-entry-%d", c.state.Generation)
}

// Dispatch applies a. Empty submissions are silent no-ops. Failures set an
// inline status and are returned so the caller can surface them; the
// working set and the pending input are kept.
func (c *Controller) Dispatch(ctx context.Context, a Action) error {
	c.state.Status = ""

	switch a := a.(type) {
	case SelectUser:
		if !a.User.Valid() {
			return fmt.Errorf("%w: %q", common.ErrUnknownUser, a.User)
		}
		c.state.User = a.User

	case SelectCategory:
		if !a.Category.Valid() {
			return fmt.Errorf("%w: %q", common.ErrUnknownCategory, a.Category)
		}
		c.state.Category = a.Category

	case EditDraft:
		c.state.Draft = a.HTML

	case SubmitDraft:
		return c.submitDraft(ctx)

	case ClearDraft:
		c.resetDraft()

	case CloseEntry:
		closed, err := c.repo.CloseEntry(ctx, a.Index)
		if err != nil {
			return c.fail(err)
		}
		if closed && c.state.Reply != nil && c.state.Reply.Index == a.Index {
			c.state.Reply = nil
		}

	case OpenReply:
		e, err := c.repo.Entry(a.Index)
		if err != nil {
			return c.fail(err)
		}
		if e.Closed {
			return c.fail(fmt.Errorf("%w: %d", common.ErrEntryClosed, a.Index))
		}
		c.state.Reply = &ReplyEditor{Index: a.Index}

	case EditReply:
		if c.state.Reply != nil {
			c.state.Reply.Draft = a.HTML
		}

	case SendReply:
		return c.sendReply(ctx)

	case CancelReply:
		c.state.Reply = nil

	case SetDateFilter:
		c.state.Filter.UseDate = true
		c.state.Filter.Date = a.Date

	case ClearDateFilter:
		c.state.Filter.UseDate = false

	case SetKeyword:
		c.state.Filter.Keyword = a.Keyword

	case SetOpenOnly:
		c.state.Filter.OpenOnly = a.On

	case DeleteAll:
		if err := c.checkAdmin(ctx, a.Passphrase); err != nil {
			return err
		}
		n, err := c.repo.DeleteAll(ctx)
		if err != nil {
			return c.fail(err)
		}
		c.state.Reply = nil
		c.state.Status = StatusDeletedAll
		c.log.Info(ctx, "all entries deleted", "count", n)

	case DeleteByDate:
		if err := c.checkAdmin(ctx, a.Passphrase); err != nil {
			return err
		}
		n, err := c.repo.DeleteByDate(ctx, a.Date)
		if err != nil {
			return c.fail(err)
		}
		if n > 0 {
			c.state.Reply = nil
		}
		c.state.Status = fmt.Sprintf(statusDeletedOnFormat, n, a.Date)
		c.log.Info(ctx, "entries deleted by date", "date", a.Date.String(), "count", n)

	case Reload:
		if err := c.repo.Load(ctx); err != nil {
			c.state.Status = StatusReloadFailed
			return err
		}
		c.state.Reply = nil
		c.state.Status = StatusReloaded

	default:
		return fmt.Errorf("unknown action %T", a)
	}
	return nil
}

func (c *Controller) resetDraft() {
	c.state.Draft = ""
	c.state.Generation++
}

func (c *Controller) submitDraft(ctx context.Context) error {
	added, err := c.repo.AddEntry(ctx, c.state.User, c.state.Category, c.state.Draft)
	if err != nil {
		return c.fail(err)
	}
	if added {
		// The new entry was prepended; the open reply target moved down one.
		if c.state.Reply != nil {
			c.state.Reply.Index++
		}
		c.log.Debug(ctx, "entry added", "user", c.state.User, "category", c.state.Category)
	}
	c.resetDraft()
	return nil
}

func (c *Controller) sendReply(ctx context.Context) error {
	r := c.state.Reply
	if r == nil {
		return nil
	}
	if _, err := c.repo.AddReply(ctx, r.Index, c.state.User, r.Draft); err != nil {
		return c.fail(err)
	}
	c.state.Reply = nil
	return nil
}

func (c *Controller) checkAdmin(ctx context.Context, passphrase string) error {
	if c.admin.Verify(passphrase) {
		return nil
	}
	c.metrics.AdminAuthFailure()
	c.log.Warn(ctx, "admin passphrase rejected")
	c.state.Status = StatusBadPassphrase
	return common.ErrAdminAuth
}

// fail maps err to an inline status and returns it unchanged.
func (c *Controller) fail(err error) error {
	switch {
	case errors.Is(err, common.ErrVersionConflict):
		c.state.Status = StatusConflict
	case errors.Is(err, common.ErrBackupFailed):
		c.state.Status = StatusBackupFailed
	case errors.Is(err, common.ErrStoreUnavailable):
		c.state.Status = StatusStoreFailed
	case errors.Is(err, common.ErrEntryClosed):
		c.state.Status = StatusEntryClosed
	case errors.Is(err, common.ErrIndexOutOfRange):
		c.state.Status = StatusNoSuchEntry
	default:
		c.state.Status = err.Error()
	}
	return err
}
