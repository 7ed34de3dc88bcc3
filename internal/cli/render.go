package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/logboard/internal/filter"
	"github.com/dmitrijs2005/logboard/internal/models"
	"github.com/dmitrijs2005/logboard/internal/richtext"
	"github.com/dmitrijs2005/logboard/internal/session"
)

var (
	colorMuted  = lipgloss.Color("#7F8C8D")
	colorError  = lipgloss.Color("#E74C3C")
	colorNotice = lipgloss.Color("#20B9B4")

	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(colorNotice)
	headerStyle = lipgloss.NewStyle().Bold(true)

	bodyStyle  = lipgloss.NewStyle().PaddingLeft(5)
	replyStyle = lipgloss.NewStyle().PaddingLeft(7)
)

func userStyle(u models.User) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(u.Color()))
}

func badge(c models.Category) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(c.Color())).
		Padding(0, 1).
		Render(c.Label())
}

// filterSummary describes the active filters, e.g. "2024-01-02, open only".
func filterSummary(c filter.Criteria) string {
	var parts []string
	if c.UseDate {
		parts = append(parts, c.Date.String())
	} else {
		parts = append(parts, "all dates")
	}
	if c.OpenOnly {
		parts = append(parts, "open only")
	}
	if c.Keyword != "" {
		parts = append(parts, fmt.Sprintf("matching %q", c.Keyword))
	}
	return strings.Join(parts, ", ")
}

func renderView(v session.View) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%d of %d entries", len(v.Rows), v.Total)))
	b.WriteString(" " + mutedStyle.Render("("+filterSummary(v.Filter)+")") + "\n")

	if len(v.Rows) == 0 {
		b.WriteString(mutedStyle.Render("No entries match the current filter.") + "\n")
		return b.String()
	}

	replyTo := -1
	if v.Reply != nil {
		replyTo = v.Reply.Index
	}
	for n, r := range v.Rows {
		b.WriteString(renderRow(n+1, r, r.Index == replyTo))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRow(n int, r filter.Row, replying bool) string {
	e := r.Entry
	head := fmt.Sprintf("%3d. %s %s %s", n, userStyle(e.User).Render(string(e.User)), badge(e.Category), mutedStyle.Render(e.CreatedAt))
	if e.Closed {
		head += " " + mutedStyle.Render("[closed]")
	}

	lines := []string{head, bodyStyle.Render(richtext.PlainText(e.Comment))}
	for _, rp := range e.Replies {
		lines = append(lines, replyStyle.Render(fmt.Sprintf("> %s %s: %s",
			userStyle(rp.User).Render(string(rp.User)),
			mutedStyle.Render(rp.CreatedAt),
			richtext.PlainText(rp.Comment))))
	}
	if replying {
		lines = append(lines, replyStyle.Render(noticeStyle.Render("(reply in progress)")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
