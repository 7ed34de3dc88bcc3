package store

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/logboard/internal/models"
)

// encodeReplies serializes replies for the replies column. A nil slice is
// stored as an empty JSON array, never as null.
func encodeReplies(replies []models.Reply) (string, error) {
	if replies == nil {
		replies = []models.Reply{}
	}
	b, err := json.Marshal(replies)
	if err != nil {
		return "", fmt.Errorf("encode replies: %w", err)
	}
	return string(b), nil
}

// decodeReplies parses the replies column; NULL and empty values decode to
// an empty slice.
func decodeReplies(raw []byte) ([]models.Reply, error) {
	replies := []models.Reply{}
	if len(raw) == 0 || string(raw) == "null" {
		return replies, nil
	}
	if err := json.Unmarshal(raw, &replies); err != nil {
		return nil, fmt.Errorf("decode replies: %w", err)
	}
	if replies == nil {
		replies = []models.Reply{}
	}
	return replies, nil
}
