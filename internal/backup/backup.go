// Package backup archives the full board before destructive admin actions.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/logboard/internal/models"
)

// Reasons recorded in archive keys.
const (
	ReasonDeleteAll    = "delete-all"
	ReasonDeleteByDate = "delete-by-date"
)

// Archiver stores a snapshot of the board. It returns the object key.
type Archiver interface {
	Archive(ctx context.Context, reason string, entries []models.Entry) (string, error)
}

// Nop is used when no object storage is configured.
type Nop struct{}

func (Nop) Archive(context.Context, string, []models.Entry) (string, error) {
	return "", nil
}

// Key builds the object key for a snapshot taken at t.
func Key(t time.Time, reason string) string {
	return fmt.Sprintf("backups/%s-%s.json", t.UTC().Format(time.RFC3339), reason)
}

// document is the archived JSON body.
type document struct {
	Reason  string         `json:"reason"`
	TakenAt time.Time      `json:"taken_at"`
	Entries []models.Entry `json:"entries"`
}

func encode(reason string, t time.Time, entries []models.Entry) ([]byte, error) {
	if entries == nil {
		entries = []models.Entry{}
	}
	b, err := json.MarshalIndent(document{Reason: reason, TakenAt: t.UTC(), Entries: entries}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return b, nil
}
