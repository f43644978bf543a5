package scraper

import (
	"errors"
	"strings"
	"unicode/utf8"

	"collectkit/lib/fault"

	"github.com/PuerkitoBio/goquery"
)

// ParseDocument interprets raw text as an HTML document. Parsing is
// permissive, degenerate markup still yields a document; only input the
// markup engine cannot interpret at all comes back as
// fault.MalformedContent. Pure, no logging of its own, callers decide what
// a parse failure means for them.
func ParseDocument(raw string) (*goquery.Document, error) {
	if !utf8.ValidString(raw) {
		return nil, &fault.MalformedContent{Err: errors.New("input is not valid utf-8 text")}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, &fault.MalformedContent{Err: err}
	}
	return doc, nil
}
