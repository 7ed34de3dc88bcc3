package session

import (
	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/logboard/internal/models"
)

// Action is a user intent applied through Controller.Dispatch.
type Action interface {
	action()
}

type (
	SelectUser     struct{ User models.User }
	SelectCategory struct{ Category models.Category }

	// EditDraft replaces the new-entry buffer.
	EditDraft   struct{ HTML string }
	SubmitDraft struct{}
	ClearDraft  struct{}

	CloseEntry struct{ Index int }

	// OpenReply opens the reply editor on the entry at Index, replacing any
	// reply editor already open.
	OpenReply   struct{ Index int }
	EditReply   struct{ HTML string }
	SendReply   struct{}
	CancelReply struct{}

	SetDateFilter   struct{ Date civil.Date }
	ClearDateFilter struct{}
	SetKeyword      struct{ Keyword string }
	SetOpenOnly     struct{ On bool }

	DeleteAll    struct{ Passphrase string }
	DeleteByDate struct {
		Passphrase string
		Date       civil.Date
	}

	Reload struct{}
)

func (SelectUser) action()      {}
func (SelectCategory) action()  {}
func (EditDraft) action()       {}
func (SubmitDraft) action()     {}
func (ClearDraft) action()      {}
func (CloseEntry) action()      {}
func (OpenReply) action()       {}
func (EditReply) action()       {}
func (SendReply) action()       {}
func (CancelReply) action()     {}
func (SetDateFilter) action()   {}
func (ClearDateFilter) action() {}
func (SetKeyword) action()      {}
func (SetOpenOnly) action()     {}
func (DeleteAll) action()       {}
func (DeleteByDate) action()    {}
func (Reload) action()          {}
