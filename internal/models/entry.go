// Package models defines the board's entry and reply types together with
// the fixed user allowlist and category set.
package models

// Reply is a threaded response attached to an open entry. It has no id of
// its own; its position in Entry.Replies is its only index.
type Reply struct {
	User      User   `json:"user"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"datetime"`
}

// Entry is a top-level posted comment.
//
// CreatedAt is the display-formatted timestamp produced at creation time. It
// is never re-parsed except to derive a calendar date for filtering.
// ID is assigned by the store on persist; zero means "not yet persisted".
type Entry struct {
	ID        int64    `json:"id,omitempty"`
	User      User     `json:"user"`
	Category  Category `json:"category"`
	Comment   string   `json:"comment"`
	CreatedAt string   `json:"datetime"`
	Replies   []Reply  `json:"replies"`
	Closed    bool     `json:"closed"`
}

// Clone returns a deep copy of e. The copy's Replies never share a backing
// array with e.
func (e Entry) Clone() Entry {
	c := e
	c.Replies = make([]Reply, len(e.Replies))
	copy(c.Replies, e.Replies)
	return c
}

// CloneAll deep-copies a slice of entries.
func CloneAll(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
