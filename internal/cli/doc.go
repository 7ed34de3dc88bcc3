// Package cli is the interactive terminal client for the board.
//
// It runs one session.Controller against the configured store and drives it
// from a line-oriented REPL. Row numbers typed by the user are positions in
// the current filtered listing and are mapped back to entry indexes before
// any action is dispatched.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// input ends.
package cli
