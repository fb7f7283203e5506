package metadata

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// Kind tags the variant held by a decoded Value.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindNumber
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	default:
		return "string"
	}
}

// Value is the typed result of decoding a metadata content string. Exactly
// one variant is populated, selected by Kind.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	list []string
}

// BoolValue builds a boolean Value.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// NumberValue builds a numeric Value.
func NumberValue(v float64) Value { return Value{kind: KindNumber, n: v} }

// StringValue builds a string Value.
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

// ListValue builds a string list Value. The items are copied.
func ListValue(items ...string) Value {
	return Value{kind: KindList, list: append([]string{}, items...)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) Float() (float64, bool) { return v.n, v.kind == KindNumber }

func (v Value) Text() (string, bool) { return v.s, v.kind == KindString }

func (v Value) Strings() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]string{}, v.list...), true
}

// Native returns the Go value stored in an option mapping: bool, float64,
// []string or string.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindList:
		return append([]string{}, v.list...)
	default:
		return v.s
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindList:
		return "[" + strings.Join(v.list, ", ") + "]"
	default:
		return v.s
	}
}

var numberPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// Decode converts a raw metadata content string into a typed Value. It never
// fails: anything that is not a boolean, a number or a list of quoted strings
// is returned as an entity-unescaped string.
func Decode(raw string) Value {
	switch strings.ToLower(raw) {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}

	if numberPattern.MatchString(raw) {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return NumberValue(n)
		}
	}

	text := html.UnescapeString(raw)
	// quotes inside a double-quoted content attribute arrive as entities
	if items, ok := decodeList(strings.TrimSpace(text)); ok {
		return ListValue(items...)
	}

	return StringValue(text)
}

// decodeList accepts only a flow sequence whose elements are all single or
// double quoted scalars. Single quoted elements are taken literally, so
// backslashes in paths and patterns survive.
func decodeList(raw string) ([]string, bool) {
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return nil, false
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, false
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode || seq.Style&yaml.FlowStyle == 0 || seq.LineComment != "" {
		return nil, false
	}
	items := make([]string, 0, len(seq.Content))
	for _, node := range seq.Content {
		if node.Kind != yaml.ScalarNode || node.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) == 0 {
			return nil, false
		}
		items = append(items, node.Value)
	}
	return items, true
}
