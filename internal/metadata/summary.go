package metadata

import (
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
)

var (
	reHasBeenReleased = regexp.MustCompile(`(?is)\bhas been released\b(.*)$`)
	reWhitespace      = regexp.MustCompile(`\s+`)
)

// Summarize returns the clause following "has been released" in a
// description, or the whole description when the phrase is absent.
func Summarize(description string) string {
	text := strings.TrimSpace(htmlText(description))
	if text == "" {
		return ""
	}

	m := reHasBeenReleased.FindStringSubmatch(text)
	if m == nil {
		return reWhitespace.ReplaceAllString(text, " ")
	}
	clause := strings.TrimSpace(m[1])
	clause = strings.TrimLeft(clause, ",:; ")
	clause = strings.TrimSuffix(clause, ".")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(clause, " "))
}

// htmlText drops markup and decodes entities. Plain text passes through.
func htmlText(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return raw
	}
	var b strings.Builder
	z := nethtml.NewTokenizer(strings.NewReader(raw))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return b.String()
		case nethtml.TextToken:
			b.Write(z.Text())
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br", "p", "div", "li":
				b.WriteByte(' ')
			}
		}
	}
}
