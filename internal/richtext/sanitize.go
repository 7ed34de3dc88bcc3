// Package richtext normalizes user-submitted HTML fragments before they are
// accepted as entry or reply bodies.
package richtext

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// <p> wrapping only whitespace, non-breaking spaces or line breaks.
	emptyParagraph = regexp.MustCompile(`(?i)<p(?:\s[^>]*)?>(?:\s|&nbsp;|&#160;|\x{00A0}|<br\s*/?>)*</p>`)
	lineBreak      = regexp.MustCompile(`(?i)<br\s*/?>|&nbsp;|&#160;`)
	editorClasses  = regexp.MustCompile(`^(?:ql-[a-z0-9-]+\s*)+$`)
)

// policy keeps the markup a rich-text editor produces and drops scripts,
// event handlers and other active content.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(editorClasses).Globally()
	p.AllowStyles("color", "background-color").Globally()
	return p
}()

var plain = bluemonday.StrictPolicy()

// Sanitize cleans raw and strips vacuous paragraphs. The result is the empty
// string when nothing but whitespace or line-break markup remains; callers
// treat that as "no content" rather than as an error.
func Sanitize(raw string) string {
	cleaned := policy.Sanitize(raw)
	cleaned = strings.TrimSpace(emptyParagraph.ReplaceAllString(cleaned, ""))
	if cleaned == "" || isBlank(cleaned) {
		return ""
	}
	return cleaned
}

// IsEmpty reports whether raw sanitizes to nothing.
func IsEmpty(raw string) bool {
	return Sanitize(raw) == ""
}

func isBlank(s string) bool {
	s = lineBreak.ReplaceAllString(s, "")
	return strings.TrimSpace(s) == ""
}

var (
	blockEnd   = regexp.MustCompile(`(?i)</(?:p|div|li|h[1-6]|blockquote|pre)>|<br\s*/?>`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// PlainText renders a sanitized fragment for terminals: block ends become
// newlines, all remaining tags are removed and entities are unescaped.
func PlainText(fragment string) string {
	s := blockEnd.ReplaceAllString(fragment, "\n")
	s = html.UnescapeString(plain.Sanitize(s))
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
