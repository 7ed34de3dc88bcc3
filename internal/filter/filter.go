// Package filter derives the visible subset of the board from a session's
// filter criteria. It never mutates the entries it is given.
package filter

import (
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/logboard/internal/models"
	"github.com/dmitrijs2005/logboard/internal/timex"
)

// Criteria is the per-session view filter.
type Criteria struct {
	UseDate  bool       `json:"use_date"`
	Date     civil.Date `json:"date"`
	Keyword  string     `json:"keyword"`
	OpenOnly bool       `json:"open_only"`
}

// Row pairs a visible entry with its position in the full list. Index is
// what mutating operations take.
type Row struct {
	Index int          `json:"index"`
	Entry models.Entry `json:"entry"`
}

// Visible applies the date filter, then the open-only filter, then the
// keyword filter. Order is preserved. Entries whose stamp cannot be parsed
// are dropped while the date filter is active.
func Visible(entries []models.Entry, c Criteria) []Row {
	keyword := strings.ToLower(c.Keyword)

	rows := make([]Row, 0, len(entries))
	for i, e := range entries {
		if c.UseDate {
			d, ok := timex.DateOf(e.CreatedAt)
			if !ok || d != c.Date {
				continue
			}
		}
		if c.OpenOnly && e.Closed {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(e.Comment), keyword) {
			continue
		}
		rows = append(rows, Row{Index: i, Entry: e})
	}
	return rows
}

// Dates returns the distinct parseable entry dates in ascending order.
func Dates(entries []models.Entry) []civil.Date {
	seen := make(map[civil.Date]struct{}, len(entries))
	out := make([]civil.Date, 0, len(entries))
	for _, e := range entries {
		d, ok := timex.DateOf(e.CreatedAt)
		if !ok {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// DateBounds returns the earliest and latest entry dates. ok is false when
// no entry has a parseable date.
func DateBounds(entries []models.Entry) (lo, hi civil.Date, ok bool) {
	dates := Dates(entries)
	if len(dates) == 0 {
		return civil.Date{}, civil.Date{}, false
	}
	return dates[0], dates[len(dates)-1], true
}
