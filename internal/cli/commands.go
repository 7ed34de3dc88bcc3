package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/logboard/internal/models"
	"github.com/dmitrijs2005/logboard/internal/session"
)

var errUsage = errors.New("usage")

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

// report prints the session status line, falling back to err when the
// failure left no status.
func (a *App) report(err error) {
	st := a.ctrl.State().Status
	switch {
	case st != "" && err != nil:
		a.printf("%s", errorStyle.Render(st))
	case st != "":
		a.printf("%s", noticeStyle.Render(st))
	case err != nil:
		a.printf("%s", errorStyle.Render(err.Error()))
	}
}

func (a *App) dispatch(ctx context.Context, actions ...session.Action) error {
	for _, act := range actions {
		if err := a.ctrl.Dispatch(ctx, act); err != nil {
			a.report(err)
			return err
		}
	}
	a.report(nil)
	return nil
}

func (a *App) usage(text string) error {
	a.printf("Usage: %s", text)
	return errUsage
}

func (a *App) SelectUser(ctx context.Context, name string) error {
	if name == "" {
		cur := a.ctrl.State().User
		for _, u := range models.Users {
			a.printf("%s %s", marker(u == cur), userStyle(u).Render(string(u)))
		}
		return nil
	}
	u, err := models.ParseUser(name)
	if err != nil {
		a.report(err)
		return err
	}
	return a.dispatch(ctx, session.SelectUser{User: u})
}

func (a *App) SelectCategory(ctx context.Context, name string) error {
	if name == "" {
		cur := a.ctrl.State().Category
		for _, c := range models.Categories {
			a.printf("%s %s", marker(c == cur), badge(c))
		}
		return nil
	}
	c, err := models.ParseCategory(name)
	if err != nil {
		a.report(err)
		return err
	}
	return a.dispatch(ctx, session.SelectCategory{Category: c})
}

func marker(on bool) string {
	if on {
		return "*"
	}
	return " "
}

// Compose replaces the new-entry draft with typed text.
func (a *App) Compose(ctx context.Context) error {
	s := a.ctrl.State()
	lines, err := GetMultiline(a.reader, fmt.Sprintf("New %s entry as %s", s.Category, s.User), a.out)
	if err != nil {
		return err
	}
	if err := a.dispatch(ctx, session.EditDraft{HTML: toHTML(lines)}); err != nil {
		return err
	}
	a.printf("Draft saved. Type 'post' to submit it.")
	return nil
}

func (a *App) Post(ctx context.Context) error {
	before := a.ctrl.View().Total
	if err := a.dispatch(ctx, session.SubmitDraft{}); err != nil {
		return err
	}
	if a.ctrl.View().Total == before {
		a.printf("Nothing to post.")
		return nil
	}
	return a.List(ctx)
}

func (a *App) ClearDraft(ctx context.Context) error {
	return a.dispatch(ctx, session.ClearDraft{})
}

func (a *App) List(_ context.Context) error {
	fmt.Fprint(a.out, renderView(a.ctrl.View()))
	return nil
}

// rowIndex maps a typed 1-based row number to an entry index.
func (a *App) rowIndex(row string) (int, error) {
	n, err := strconv.Atoi(row)
	if err != nil {
		return 0, a.usage("N must be a row number from 'list'")
	}
	i, err := a.ctrl.IndexOfRow(n)
	if err != nil {
		a.printf("%s", errorStyle.Render(session.StatusNoSuchEntry))
		return 0, err
	}
	return i, nil
}

func (a *App) Close(ctx context.Context, row string) error {
	i, err := a.rowIndex(row)
	if err != nil {
		return err
	}
	if err := a.dispatch(ctx, session.CloseEntry{Index: i}); err != nil {
		return err
	}
	return a.List(ctx)
}

func (a *App) Reply(ctx context.Context, row string) error {
	i, err := a.rowIndex(row)
	if err != nil {
		return err
	}
	if err := a.dispatch(ctx, session.OpenReply{Index: i}); err != nil {
		return err
	}
	a.printf("Replying to entry %s. Type 'send' to write it, 'cancel' to drop it.", row)
	return nil
}

// Send reads the reply text and submits it. An empty reply closes the
// editor without posting.
func (a *App) Send(ctx context.Context) error {
	if a.ctrl.State().Reply == nil {
		return a.usage("reply N, then send")
	}
	lines, err := GetMultiline(a.reader, fmt.Sprintf("Reply as %s", a.ctrl.State().User), a.out)
	if err != nil {
		return err
	}
	if err := a.dispatch(ctx, session.EditReply{HTML: toHTML(lines)}, session.SendReply{}); err != nil {
		return err
	}
	if len(lines) == 0 {
		a.printf("Reply discarded.")
		return nil
	}
	return a.List(ctx)
}

func (a *App) Cancel(ctx context.Context) error {
	return a.dispatch(ctx, session.CancelReply{})
}

func (a *App) parseDate(arg string) (civil.Date, error) {
	if strings.EqualFold(arg, "today") {
		return a.ctrl.Today(), nil
	}
	d, err := civil.ParseDate(arg)
	if err != nil {
		return civil.Date{}, a.usage("date must be YYYY-MM-DD")
	}
	return d, nil
}

func (a *App) Date(ctx context.Context, arg string) error {
	var act session.Action = session.ClearDateFilter{}
	if !strings.EqualFold(arg, "off") {
		d, err := a.parseDate(arg)
		if err != nil {
			return err
		}
		act = session.SetDateFilter{Date: d}
	}
	if err := a.dispatch(ctx, act); err != nil {
		return err
	}
	return a.List(ctx)
}

func (a *App) Search(ctx context.Context, keyword string) error {
	if err := a.dispatch(ctx, session.SetKeyword{Keyword: keyword}); err != nil {
		return err
	}
	return a.List(ctx)
}

func (a *App) OpenOnly(ctx context.Context, arg string) error {
	var on bool
	switch strings.ToLower(arg) {
	case "on":
		on = true
	case "off":
	default:
		return a.usage("open on|off")
	}
	if err := a.dispatch(ctx, session.SetOpenOnly{On: on}); err != nil {
		return err
	}
	return a.List(ctx)
}

func (a *App) Bounds(_ context.Context) error {
	b := a.ctrl.View().Bounds
	if b == nil {
		a.printf("No dated entries.")
		return nil
	}
	a.printf("Entries from %s to %s", b.From, b.To)
	return nil
}

func (a *App) Reload(ctx context.Context) error {
	if err := a.dispatch(ctx, session.Reload{}); err != nil {
		return err
	}
	return a.List(ctx)
}

func (a *App) DeleteAll(ctx context.Context) error {
	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(pw)
	if err := a.dispatch(ctx, session.DeleteAll{Passphrase: string(pw)}); err != nil {
		return err
	}
	return a.List(ctx)
}

func (a *App) DeleteDate(ctx context.Context, arg string) error {
	d, err := a.parseDate(arg)
	if err != nil {
		return err
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(pw)
	if err := a.dispatch(ctx, session.DeleteByDate{Passphrase: string(pw), Date: d}); err != nil {
		return err
	}
	return a.List(ctx)
}
