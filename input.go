package renderopts

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// InputKind tells whether a render input is document markup or an opaque
// locator such as a URL.
type InputKind int

const (
	// InputLocator is passed through untouched; no metadata is extracted.
	InputLocator InputKind = iota
	// InputMarkup is scanned for metadata overrides.
	InputMarkup
)

func (k InputKind) String() string {
	if k == InputMarkup {
		return "markup"
	}
	return "locator"
}

// Classifier decides how an input is treated.
type Classifier func(input string) InputKind

// ClassifyInput treats input as markup when it opens with a tag, or when it
// does not start with an absolute URL and contains a tag or doctype further
// in (a fragment preceded by text). Everything else is a locator.
func ClassifyInput(input string) InputKind {
	trimmed := strings.TrimLeftFunc(input, unicode.IsSpace)
	trimmed = strings.TrimPrefix(trimmed, "\ufeff")
	if strings.HasPrefix(trimmed, "<") {
		return InputMarkup
	}
	if !strings.Contains(trimmed, "<") || isAbsoluteURL(trimmed) {
		return InputLocator
	}
	if containsTag(trimmed) {
		return InputMarkup
	}
	return InputLocator
}

// isAbsoluteURL reports whether the first word of s is a URL with a scheme
// and a host or opaque part.
func isAbsoluteURL(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	u, err := url.Parse(fields[0])
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

func containsTag(s string) bool {
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken, html.DoctypeToken:
			return true
		}
	}
}
