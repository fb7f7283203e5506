package renderopts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  InputKind
	}{
		{name: "empty", input: "", want: InputLocator},
		{name: "url", input: "https://google.com", want: InputLocator},
		{name: "path", input: "/tmp/report.html", want: InputLocator},
		{name: "doctype", input: "<!DOCTYPE html><html></html>", want: InputMarkup},
		{name: "leading whitespace", input: "\n\t  <html>", want: InputMarkup},
		{name: "byte order mark", input: "\ufeff<html>", want: InputMarkup},
		{name: "fragment", input: `<meta name="grover-cache" content="true">`, want: InputMarkup},
		{name: "text before tag", input: "hello <b>world</b>", want: InputMarkup},
		{name: "title before document", input: "Report\n<html><head><meta name=\"grover-quality\" content=\"80\"></head></html>", want: InputMarkup},
		{name: "url with markup in query", input: `https://example.com/?q=<meta name="grover-quality">`, want: InputLocator},
		{name: "opaque url", input: "about:blank", want: InputLocator},
		{name: "comparison text", input: "a < b and c > d", want: InputLocator},
		{name: "relative path", input: "reports/2024/summary.html", want: InputLocator},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyInput(tc.input))
		})
	}
}

func TestInputKindString(t *testing.T) {
	assert.Equal(t, "markup", InputMarkup.String())
	assert.Equal(t, "locator", InputLocator.String())
}
