package cli

import (
	"bufio"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetLine prints prompt to w and reads one trimmed line. A final line
// without a newline is still returned.
func GetLine(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetMultiline reads lines until an empty one or EOF. Lines are kept as
// typed apart from the line terminator.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) ([]string, error) {
	if _, err := fmt.Fprint(w, prompt+" (empty line to finish)\n"); err != nil {
		return nil, err
	}

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return lines, nil
		}
		lines = append(lines, line)
		if err != nil {
			return lines, nil
		}
	}
}

// GetPassword reads a passphrase from the terminal without echo. Callers
// should wipe the returned slice.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Admin password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// toHTML turns typed lines into paragraphs the board stores. Markup typed
// by the user is escaped, not interpreted.
func toHTML(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(l))
		b.WriteString("</p>")
	}
	return b.String()
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
