package notes

import (
	"html"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy     *bluemonday.Policy
	stripPolicyOnce sync.Once
)

func getStripPolicy() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}

// PlainText removes markup from a rich-text body and collapses whitespace.
// Block-level tags are turned into spaces first so adjacent paragraphs do not
// run together.
func PlainText(body string) string {
	if body == "" {
		return ""
	}
	spaced := blockBreaks.Replace(body)
	stripped := html.UnescapeString(getStripPolicy().Sanitize(spaced))
	return strings.Join(strings.Fields(stripped), " ")
}

var blockBreaks = strings.NewReplacer(
	"<br>", " <br>",
	"<br/>", " <br/>",
	"<br />", " <br />",
	"</p>", "</p> ",
	"</div>", "</div> ",
	"</li>", "</li> ",
	"</h1>", "</h1> ",
	"</h2>", "</h2> ",
	"</h3>", "</h3> ",
)

// Preview returns at most maxRunes runes of the plain text body, with an
// ellipsis when it was cut.
func (n Note) Preview(maxRunes int) string {
	text := PlainText(n.Body)
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxRunes])) + "..."
}

func (n Note) WordCount() int {
	return len(strings.Fields(PlainText(n.Body)))
}
