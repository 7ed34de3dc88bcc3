// Package common defines shared constants and sentinel errors used across
// the board core, its store and the outer surfaces (HTTP API and CLI).
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrVersionConflict  = errors.New("version conflict")

	// Repository-level errors.
	ErrIndexOutOfRange = errors.New("entry index out of range")
	ErrUnknownUser     = errors.New("unknown user")
	ErrUnknownCategory = errors.New("unknown category")
	ErrEntryClosed     = errors.New("entry is closed")

	// Admin actions.
	ErrAdminAuth    = errors.New("invalid admin passphrase")
	ErrBackupFailed = errors.New("backup failed")

	// Session token errors.
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrSessionNotFound = errors.New("session not found")
)
