package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/logboard/internal/auth"
	"github.com/dmitrijs2005/logboard/internal/board"
	"github.com/dmitrijs2005/logboard/internal/common"
	"github.com/dmitrijs2005/logboard/internal/metrics"
	"github.com/dmitrijs2005/logboard/internal/models"
	"github.com/dmitrijs2005/logboard/internal/store/storetest"
	"github.com/dmitrijs2005/logboard/internal/timex"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "let me in"

// 10:00 AM on 02 Jan 2024 in Los Angeles.
var fixedNow = func() time.Time { return time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC) }

var (
	jan1 = civil.Date{Year: 2024, Month: time.January, Day: 1}
	jan2 = civil.Date{Year: 2024, Month: time.January, Day: 2}
)

func seed() []models.Entry {
	return []models.Entry{
		{User: models.UserMoni, Category: models.CategoryQuestion, Comment: "<p>closed one</p>", CreatedAt: "02 Jan 2024 - 09:00 AM PST", Replies: []models.Reply{}, Closed: true},
		{User: models.UserAldo, Category: models.CategoryFeedback, Comment: "<p>open one</p>", CreatedAt: "01 Jan 2024 - 10:00 AM PST", Replies: []models.Reply{}},
	}
}

type fixture struct {
	mem  *storetest.Memory
	repo *board.Repository
	c    *Controller
	reg  *prometheus.Registry
	rec  *metrics.Recorder
}

func newFixture(t *testing.T, mem *storetest.Memory) *fixture {
	t.Helper()
	f, err := timex.NewFormatter(timex.DefaultZone, timex.DefaultZoneLabel)
	require.NoError(t, err)
	pass, err := auth.NewPassphrase(secret)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	repo := board.New(mem, f, board.WithClock(fixedNow), board.WithMetrics(rec))
	c := New(context.Background(), repo, pass, WithClock(fixedNow), WithMetrics(rec), WithID("test-session"))
	return &fixture{mem: mem, repo: repo, c: c, reg: reg, rec: rec}
}

func (f *fixture) replaces() int {
	_, n := f.mem.Calls()
	return n
}

func TestNew_Defaults(t *testing.T) {
	f := newFixture(t, storetest.NewMemory(seed()...))
	s := f.c.State()

	assert.Equal(t, "test-session", f.c.ID())
	assert.Equal(t, models.UserAldo, s.User)
	assert.Equal(t, models.CategoryFeedback, s.Category)
	assert.True(t, s.Filter.UseDate)
	assert.Equal(t, jan2, s.Filter.Date)
	assert.Nil(t, s.Reply)
	assert.Empty(t, s.Status)
	assert.Equal(t, "new-entry-0", f.c.EditorKey())
}

func TestNew_GeneratesSessionIDs(t *testing.T) {
	f, err := timex.NewFormatter("UTC", "")
	require.NoError(t, err)
	mem := storetest.NewMemory()
	a := New(context.Background(), board.New(mem, f), nil)
	b := New(context.Background(), board.New(mem, f), nil)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNew_LoadFailureStartsEmptyAndBlocksWrites(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory(seed()...)
	mem.SetLoadErr(errors.New("dns failure"))
	f := newFixture(t, mem)

	v := f.c.View()
	assert.Equal(t, StatusLoadFailed, v.Status)
	assert.Equal(t, 0, v.Total)
	assert.Empty(t, v.Rows)

	require.NoError(t, f.c.Dispatch(ctx, EditDraft{HTML: "<p>hi</p>"}))
	err := f.c.Dispatch(ctx, SubmitDraft{})
	assert.True(t, errors.Is(err, common.ErrVersionConflict))
	assert.Equal(t, "<p>hi</p>", f.c.State().Draft)
	assert.Equal(t, StatusConflict, f.c.State().Status)

	stored, _ := mem.Snapshot()
	assert.Len(t, stored, 2, "stored board must survive an empty session")

	err = f.c.Dispatch(ctx, Reload{})
	assert.True(t, errors.Is(err, common.ErrStoreUnavailable))
	assert.Equal(t, StatusReloadFailed, f.c.State().Status)

	mem.SetLoadErr(nil)
	require.NoError(t, f.c.Dispatch(ctx, Reload{}))
	require.NoError(t, f.c.Dispatch(ctx, SubmitDraft{}))
	assert.Equal(t, 3, f.c.View().Total)
}

func TestSubmitDraft_ResetsEditorOnSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	require.NoError(t, f.c.Dispatch(ctx, SelectUser{User: models.UserMoni}))
	require.NoError(t, f.c.Dispatch(ctx, SelectCategory{Category: models.CategoryPending}))
	require.NoError(t, f.c.Dispatch(ctx, EditDraft{HTML: "<p>ship it</p><p><br></p>"}))
	keyBefore := f.c.EditorKey()

	require.NoError(t, f.c.Dispatch(ctx, SubmitDraft{}))

	s := f.c.State()
	assert.Empty(t, s.Draft)
	assert.Equal(t, uint64(1), s.Generation)
	assert.NotEqual(t, keyBefore, f.c.EditorKey())

	e, err := f.repo.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, models.UserMoni, e.User)
	assert.Equal(t, models.CategoryPending, e.Category)
	assert.Equal(t, "<p>ship it</p>", e.Comment)
	assert.Equal(t, 1, f.replaces())
}

func TestSubmitDraft_EmptyIsSilentButResets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	require.NoError(t, f.c.Dispatch(ctx, EditDraft{HTML: "<p>  </p><p><br/></p>"}))
	require.NoError(t, f.c.Dispatch(ctx, SubmitDraft{}))

	assert.Equal(t, 0, f.replaces())
	assert.Empty(t, f.c.State().Status)
	assert.Empty(t, f.c.State().Draft)
	assert.Equal(t, uint64(1), f.c.State().Generation)
	assert.Equal(t, 2, f.c.View().Total)
}

func TestSubmitDraft_StoreFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory(seed()...)
	f := newFixture(t, mem)
	mem.SetReplaceErr(errors.New("broken pipe"))

	require.NoError(t, f.c.Dispatch(ctx, EditDraft{HTML: "<p>keep me</p>"}))
	err := f.c.Dispatch(ctx, SubmitDraft{})
	assert.True(t, errors.Is(err, common.ErrStoreUnavailable))

	s := f.c.State()
	assert.Equal(t, "<p>keep me</p>", s.Draft)
	assert.Equal(t, uint64(0), s.Generation)
	assert.Equal(t, StatusStoreFailed, s.Status)
	assert.Equal(t, 2, f.c.View().Total)
}

func TestClearDraft_RotatesGeneration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory())

	require.NoError(t, f.c.Dispatch(ctx, EditDraft{HTML: "<p>oops</p>"}))
	require.NoError(t, f.c.Dispatch(ctx, ClearDraft{}))
	require.NoError(t, f.c.Dispatch(ctx, ClearDraft{}))

	assert.Empty(t, f.c.State().Draft)
	assert.Equal(t, "new-entry-2", f.c.EditorKey())
	assert.Equal(t, 0, f.replaces())
}

func TestReply_OpenEditSend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	require.NoError(t, f.c.Dispatch(ctx, OpenReply{Index: 1}))
	require.NotNil(t, f.c.State().Reply)
	assert.Equal(t, 1, f.c.State().Reply.Index)

	require.NoError(t, f.c.Dispatch(ctx, SelectUser{User: models.UserMoni}))
	require.NoError(t, f.c.Dispatch(ctx, EditReply{HTML: "<p>on it</p>"}))
	require.NoError(t, f.c.Dispatch(ctx, SendReply{}))

	assert.Nil(t, f.c.State().Reply)
	e, err := f.repo.Entry(1)
	require.NoError(t, err)
	require.Len(t, e.Replies, 1)
	assert.Equal(t, models.UserMoni, e.Replies[0].User)
	assert.Equal(t, "<p>on it</p>", e.Replies[0].Comment)
}

func TestReply_EmptySendClosesEditorWithoutPersist(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	require.NoError(t, f.c.Dispatch(ctx, OpenReply{Index: 1}))
	require.NoError(t, f.c.Dispatch(ctx, EditReply{HTML: "<p><br></p>"}))
	require.NoError(t, f.c.Dispatch(ctx, SendReply{}))

	assert.Nil(t, f.c.State().Reply)
	assert.Equal(t, 0, f.replaces())
}

func TestReply_StoreFailureKeepsEditorOpen(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory(seed()...)
	f := newFixture(t, mem)

	require.NoError(t, f.c.Dispatch(ctx, OpenReply{Index: 1}))
	require.NoError(t, f.c.Dispatch(ctx, EditReply{HTML: "<p>draft</p>"}))
	mem.SetReplaceErr(errors.New("gone"))

	err := f.c.Dispatch(ctx, SendReply{})
	assert.True(t, errors.Is(err, common.ErrStoreUnavailable))
	require.NotNil(t, f.c.State().Reply)
	assert.Equal(t, "<p>draft</p>", f.c.State().Reply.Draft)
}

func TestReply_CannotOpenOnClosedOrMissingEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	err := f.c.Dispatch(ctx, OpenReply{Index: 0})
	assert.True(t, errors.Is(err, common.ErrEntryClosed))
	assert.Equal(t, StatusEntryClosed, f.c.State().Status)
	assert.Nil(t, f.c.State().Reply)

	err = f.c.Dispatch(ctx, OpenReply{Index: 7})
	assert.True(t, errors.Is(err, common.ErrIndexOutOfRange))
	assert.Equal(t, StatusNoSuchEntry, f.c.State().Status)
}

func TestReply_OnlyOneEditorAtATime(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory(append(seed(), models.Entry{
		User: models.UserAldo, Category: models.CategoryOther, Comment: "<p>third</p>", CreatedAt: "01 Jan 2024 - 08:00 AM PST", Replies: []models.Reply{},
	})...)
	f := newFixture(t, mem)

	require.NoError(t, f.c.Dispatch(ctx, OpenReply{Index: 1}))
	require.NoError(t, f.c.Dispatch(ctx, EditReply{HTML: "<p>abandoned</p>"}))
	require.NoError(t, f.c.Dispatch(ctx, OpenReply{Index: 2}))

	r := f.c.State().Reply
	require.NotNil(t, r)
	assert.Equal(t, 2, r.Index)
	assert.Empty(t, r.Draft)
}

func TestReply_IndexFollowsEntryWhenNewEntryIsPosted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	require.NoError(t, f.c.Dispatch(ctx, OpenReply{Index: 1}))
	require.NoError(t, f.c.Dispatch(ctx, EditDraft{HTML: "<p>newer</p>"}))
	require.NoError(t, f.c.Dispatch(ctx, SubmitDraft{}))

	require.Equal(t, 2, f.c.State().Reply.Index)
	require.NoError(t, f.c.Dispatch(ctx, EditReply{HTML: "<p>still for the open one</p>"}))
	require.NoError(t, f.c.Dispatch(ctx, SendReply{}))

	e, err := f.repo.Entry(2)
	require.NoError(t, err)
	assert.Equal(t, "<p>open one</p>", e.Comment)
	assert.Len(t, e.Replies, 1)
}

func TestReply_ClosingTargetClosesEditor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	require.NoError(t, f.c.Dispatch(ctx, OpenReply{Index: 1}))
	require.NoError(t, f.c.Dispatch(ctx, CloseEntry{Index: 1}))
	assert.Nil(t, f.c.State().Reply)
}

func TestReply_CancelAndEditWithoutEditor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	require.NoError(t, f.c.Dispatch(ctx, EditReply{HTML: "<p>x</p>"}))
	require.NoError(t, f.c.Dispatch(ctx, SendReply{}))
	assert.Nil(t, f.c.State().Reply)

	require.NoError(t, f.c.Dispatch(ctx, OpenReply{Index: 1}))
	require.NoError(t, f.c.Dispatch(ctx, CancelReply{}))
	assert.Nil(t, f.c.State().Reply)
	assert.Equal(t, 0, f.replaces())
}

func TestCloseEntry_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	require.NoError(t, f.c.Dispatch(ctx, CloseEntry{Index: 1}))
	require.NoError(t, f.c.Dispatch(ctx, CloseEntry{Index: 1}))
	assert.Equal(t, 1, f.replaces())

	err := f.c.Dispatch(ctx, CloseEntry{Index: 5})
	assert.True(t, errors.Is(err, common.ErrIndexOutOfRange))
}

func TestSelectUserAndCategory_RejectUnknown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory())

	assert.True(t, errors.Is(f.c.Dispatch(ctx, SelectUser{User: "Mallory"}), common.ErrUnknownUser))
	assert.True(t, errors.Is(f.c.Dispatch(ctx, SelectCategory{Category: "Spam"}), common.ErrUnknownCategory))
	assert.Equal(t, models.UserAldo, f.c.State().User)
	assert.Equal(t, models.CategoryFeedback, f.c.State().Category)
}

func TestFilters_DateAndOpenOnlyScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	require.NoError(t, f.c.Dispatch(ctx, SetDateFilter{Date: jan2}))
	require.NoError(t, f.c.Dispatch(ctx, SetOpenOnly{On: true}))
	assert.Empty(t, f.c.View().Rows)

	require.NoError(t, f.c.Dispatch(ctx, SetDateFilter{Date: jan1}))
	rows := f.c.View().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Index)

	require.NoError(t, f.c.Dispatch(ctx, ClearDateFilter{}))
	require.NoError(t, f.c.Dispatch(ctx, SetOpenOnly{On: false}))
	require.NoError(t, f.c.Dispatch(ctx, SetKeyword{Keyword: "CLOSED"}))
	rows = f.c.View().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Index)
}

func TestView_BoundsAndRevision(t *testing.T) {
	f := newFixture(t, storetest.NewMemory(seed()...))
	v := f.c.View()

	require.NotNil(t, v.Bounds)
	assert.Equal(t, jan1, v.Bounds.From)
	assert.Equal(t, jan2, v.Bounds.To)
	assert.Equal(t, int64(0), v.Revision)
	assert.Equal(t, "test-session", v.SessionID)
	assert.Equal(t, 2, v.Total)
	require.Len(t, v.Rows, 1, "default filter shows today only")
}

func TestView_NoBoundsOnEmptyBoard(t *testing.T) {
	f := newFixture(t, storetest.NewMemory())
	assert.Nil(t, f.c.View().Bounds)
}

func TestIndexOfRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))
	require.NoError(t, f.c.Dispatch(ctx, SetDateFilter{Date: jan1}))

	idx, err := f.c.IndexOfRow(1)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = f.c.IndexOfRow(2)
	assert.True(t, errors.Is(err, common.ErrIndexOutOfRange))
	_, err = f.c.IndexOfRow(0)
	assert.True(t, errors.Is(err, common.ErrIndexOutOfRange))
}

func TestDeleteAll_WrongPassphraseChangesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))
	before := f.repo.Entries()

	err := f.c.Dispatch(ctx, DeleteAll{Passphrase: "guess"})
	assert.True(t, errors.Is(err, common.ErrAdminAuth))
	assert.Equal(t, StatusBadPassphrase, f.c.State().Status)
	assert.Equal(t, before, f.repo.Entries())
	assert.Equal(t, 0, f.replaces())

	err = f.c.Dispatch(ctx, DeleteByDate{Passphrase: "", Date: jan1})
	assert.True(t, errors.Is(err, common.ErrAdminAuth))
	assert.Equal(t, 0, f.replaces())

	expected := `
# HELP logboard_admin_auth_failures_total Admin operations rejected for a wrong passphrase
# TYPE logboard_admin_auth_failures_total counter
logboard_admin_auth_failures_total 2
`
	require.NoError(t, testutil.GatherAndCompare(f.reg, strings.NewReader(expected), "logboard_admin_auth_failures_total"))
}

func TestDeleteAll_CorrectPassphrase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	require.NoError(t, f.c.Dispatch(ctx, OpenReply{Index: 1}))
	require.NoError(t, f.c.Dispatch(ctx, DeleteAll{Passphrase: secret}))

	assert.Equal(t, StatusDeletedAll, f.c.State().Status)
	assert.Nil(t, f.c.State().Reply)
	assert.Equal(t, 0, f.c.View().Total)
	stored, _ := f.mem.Snapshot()
	assert.Empty(t, stored)
}

func TestDeleteByDate_ReportsCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	require.NoError(t, f.c.Dispatch(ctx, DeleteByDate{Passphrase: secret, Date: jan1}))
	assert.Equal(t, "Deleted 1 entries on 2024-01-01", f.c.State().Status)
	assert.Equal(t, 1, f.c.View().Total)
}

func TestDispatch_StatusClearsOnNextAction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))

	_ = f.c.Dispatch(ctx, DeleteAll{Passphrase: "nope"})
	require.NotEmpty(t, f.c.State().Status)
	require.NoError(t, f.c.Dispatch(ctx, SetKeyword{Keyword: "x"}))
	assert.Empty(t, f.c.State().Status)
}

func TestState_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storetest.NewMemory(seed()...))
	require.NoError(t, f.c.Dispatch(ctx, OpenReply{Index: 1}))

	s := f.c.State()
	s.Reply.Index = 99
	assert.Equal(t, 1, f.c.State().Reply.Index)
}
