package session

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/logboard/internal/common"
	"github.com/dmitrijs2005/logboard/internal/filter"
	"github.com/dmitrijs2005/logboard/internal/models"
)

// Bounds is the span of dates present on the board.
type Bounds struct {
	From civil.Date `json:"from"`
	To   civil.Date `json:"to"`
}

// View is what a client renders after each action.
type View struct {
	SessionID string          `json:"session_id"`
	User      models.User     `json:"user"`
	Category  models.Category `json:"category"`
	Draft     string          `json:"draft"`
	EditorKey string          `json:"editor_key"`
	Filter    filter.Criteria `json:"filter"`
	Rows      []filter.Row    `json:"rows"`
	Total     int             `json:"total"`
	Bounds    *Bounds         `json:"bounds,omitempty"`
	Reply     *ReplyEditor    `json:"reply,omitempty"`
	Status    string          `json:"status,omitempty"`
	Revision  int64           `json:"revision"`
}

// View recomputes the visible rows from the current working set.
func (c *Controller) View() View {
	entries := c.repo.Entries()
	s := c.State()

	v := View{
		SessionID: c.id,
		User:      s.User,
		Category:  s.Category,
		Draft:     s.Draft,
		EditorKey: c.EditorKey(),
		Filter:    s.Filter,
		Rows:      filter.Visible(entries, s.Filter),
		Total:     len(entries),
		Reply:     s.Reply,
		Status:    s.Status,
		Revision:  c.repo.Revision(),
	}
	if lo, hi, ok := filter.DateBounds(entries); ok {
		v.Bounds = &Bounds{From: lo, To: hi}
	}
	return v
}

// IndexOfRow maps a 1-based visible row number to its index in the full
// entry list.
func (c *Controller) IndexOfRow(row int) (int, error) {
	rows := filter.Visible(c.repo.Entries(), c.state.Filter)
	if row < 1 || row > len(rows) {
		return 0, fmt.Errorf("%w: row %d", common.ErrIndexOutOfRange, row)
	}
	return rows[row-1].Index, nil
}

// Today is the current date in the board's display timezone.
func (c *Controller) Today() civil.Date {
	return c.repo.Formatter().Today(c.now())
}
