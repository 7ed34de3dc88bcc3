package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/logboard/internal/session"
)

// App binds a session to a terminal.
type App struct {
	ctrl   *session.Controller
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctrl *session.Controller) *App {
	return newApp(ctrl, os.Stdin, os.Stdout)
}

func newApp(ctrl *session.Controller, in io.Reader, out io.Writer) *App {
	return &App{ctrl: ctrl, reader: bufio.NewReader(in), out: out}
}

func (a *App) status() string {
	s := a.ctrl.State()
	return fmt.Sprintf("(%s, %s)", s.User, s.Category)
}

// Run shows the board and starts the REPL. It returns when the user quits,
// input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to logboard (type 'help' for commands)")
	a.report(nil)
	_ = a.List(ctx)
	runREPL(ctx, a, a.status, a.reader)
}
