package report

import (
	"html"
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// PlainText converts an HTML or HTML-encoded job posting to plain text.
// Entities are unescaped first so double-encoded markup is stripped too,
// then tags are removed and whitespace collapsed.
func PlainText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, " ")
	return strings.Join(strings.Fields(plain), " ")
}
