// Package termmine extracts candidate terminology from documents: markup
// is stripped, the remaining prose is part-of-speech tagged, and nouns
// that recur above a frequency threshold become candidate terms.
package termmine

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	codeFenceBlock = regexp.MustCompile("(?s)```.*?```")
	inlineCode     = regexp.MustCompile("`[^`\n]*`")
	sgmlComment    = regexp.MustCompile(`(?s)<!--.*?-->`)
	entityRef      = regexp.MustCompile(`&[a-zA-Z#0-9]+;`)
	urlPattern     = regexp.MustCompile(`https?://\S+`)
)

// PlainText strips markup from document content, leaving prose suitable
// for part-of-speech tagging. Code fences, inline code, comments, URLs
// and entity references are removed; SGML/HTML tags are dropped via a
// tolerant parse, so malformed markup degrades to text rather than
// failing.
func PlainText(content string) string {
	content = codeFenceBlock.ReplaceAllString(content, " ")
	content = inlineCode.ReplaceAllString(content, " ")
	content = sgmlComment.ReplaceAllString(content, " ")
	content = urlPattern.ReplaceAllString(content, " ")

	if strings.Contains(content, "<") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
		if err == nil {
			content = doc.Text()
		}
	}

	content = entityRef.ReplaceAllString(content, " ")
	return strings.Join(strings.Fields(content), " ")
}
