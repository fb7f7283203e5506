package metadata

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// DefaultPrefix marks meta tags that carry rendering option overrides.
const DefaultPrefix = "grover-"

// Entry is one option override found in a document. Name is the full meta
// name, Key the name with the prefix stripped and Content the raw content
// attribute, still entity-escaped.
type Entry struct {
	Name    string
	Key     string
	Content string
}

// attributePattern matches name, name="value", name='value' and name=value
// forms inside a raw start tag.
var attributePattern = regexp.MustCompile(`([^\s"'>/=]+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+)))?`)

// Extract scans markup for <meta> tags whose name starts with prefix and
// returns their entries in document order. An empty prefix means
// DefaultPrefix.
func Extract(markup, prefix string) []Entry {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	var entries []Entry
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return entries
		case html.StartTagToken, html.SelfClosingTagToken:
			// TagName lowercases the token buffer in place, copy Raw first.
			raw := string(z.Raw())
			tag, hasAttr := z.TagName()
			if !hasAttr || string(tag) != "meta" {
				continue
			}
			attrs := rawAttributes(raw[len("<meta"):])
			name, ok := attrs["name"]
			if !ok || !strings.HasPrefix(name, prefix) {
				continue
			}
			entries = append(entries, Entry{
				Name:    name,
				Key:     strings.TrimPrefix(name, prefix),
				Content: attrs["content"],
			})
		}
	}
}

// rawAttributes returns the attributes of a start tag without decoding
// character references. Names are lowercased; the first occurrence of a
// repeated attribute wins.
func rawAttributes(raw string) map[string]string {
	attrs := map[string]string{}
	for _, match := range attributePattern.FindAllStringSubmatch(raw, -1) {
		name := strings.ToLower(match[1])
		if _, seen := attrs[name]; seen {
			continue
		}
		value := match[2]
		if value == "" {
			value = match[3]
		}
		if value == "" {
			value = match[4]
		}
		attrs[name] = value
	}
	return attrs
}
