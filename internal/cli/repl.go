package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL chrome output.
var printlnFn = fmt.Println

const helpText = `Commands:
  user [NAME]              show or switch the posting user
  category [NAME]          show or switch the new-entry category
  new                      write the new-entry draft
  post                     submit the draft
  clear                    discard the draft
  list                     show the filtered board
  close N                  close entry N
  reply N                  open the reply editor on entry N
  send                     write and submit the open reply
  cancel                   close the reply editor
  date YYYY-MM-DD|today|off
  search [KEYWORD]         filter by keyword; no keyword clears it
  open on|off              show only open entries
  bounds                   earliest and latest entry dates
  reload                   reload the board from the store
  deleteall                delete every entry (admin)
  deletedate YYYY-MM-DD    delete entries posted on a date (admin)
  exit | quit`

// execIface is the command surface the REPL drives. App implements it.
type execIface interface {
	SelectUser(ctx context.Context, name string) error
	SelectCategory(ctx context.Context, name string) error
	Compose(ctx context.Context) error
	Post(ctx context.Context) error
	ClearDraft(ctx context.Context) error
	List(ctx context.Context) error
	Close(ctx context.Context, row string) error
	Reply(ctx context.Context, row string) error
	Send(ctx context.Context) error
	Cancel(ctx context.Context) error
	Date(ctx context.Context, arg string) error
	Search(ctx context.Context, keyword string) error
	OpenOnly(ctx context.Context, arg string) error
	Bounds(ctx context.Context) error
	Reload(ctx context.Context) error
	DeleteAll(ctx context.Context) error
	DeleteDate(ctx context.Context, arg string) error
}

// runREPL reads commands from reader until EOF, exit or quit, or ctx is
// done. Command handlers report their own failures, so their errors do not
// stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("board %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		arg := func(usage string) (string, bool) {
			if len(args) == 0 {
				printlnFn("Usage:", usage)
				return "", false
			}
			return args[0], true
		}

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "user":
			_ = a.SelectUser(ctx, strings.Join(args, " "))

		case "category":
			_ = a.SelectCategory(ctx, strings.Join(args, " "))

		case "new":
			_ = a.Compose(ctx)

		case "post":
			_ = a.Post(ctx)

		case "clear":
			_ = a.ClearDraft(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "close":
			if n, ok := arg("close N"); ok {
				_ = a.Close(ctx, n)
			}

		case "reply":
			if n, ok := arg("reply N"); ok {
				_ = a.Reply(ctx, n)
			}

		case "send":
			_ = a.Send(ctx)

		case "cancel":
			_ = a.Cancel(ctx)

		case "date":
			if d, ok := arg("date YYYY-MM-DD|today|off"); ok {
				_ = a.Date(ctx, d)
			}

		case "search":
			_ = a.Search(ctx, strings.Join(args, " "))

		case "open":
			if v, ok := arg("open on|off"); ok {
				_ = a.OpenOnly(ctx, v)
			}

		case "bounds":
			_ = a.Bounds(ctx)

		case "reload":
			_ = a.Reload(ctx)

		case "deleteall":
			_ = a.DeleteAll(ctx)

		case "deletedate":
			if d, ok := arg("deletedate YYYY-MM-DD"); ok {
				_ = a.DeleteDate(ctx, d)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
