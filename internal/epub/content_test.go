package epub

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBody(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "body inner markup",
			input:    chapterDoc("<h1>Title</h1><p>Text</p>"),
			expected: "<h1>Title</h1><p>Text</p>",
		},
		{
			name:     "fragment without body",
			input:    "<p>Fragment</p>",
			expected: "<p>Fragment</p>",
		},
		{
			name:     "fragment without body is not reserialized",
			input:    "Tom & Jerry <b>x",
			expected: "Tom & Jerry <b>x",
		},
		{
			name:     "body in a comment does not count",
			input:    "<!-- <body> --><p>A &amp; B",
			expected: "<!-- <body> --><p>A &amp; B",
		},
		{
			name:     "uppercase body tag",
			input:    "<HTML><BODY><p>Loud</p></BODY></HTML>",
			expected: "<p>Loud</p>",
		},
		{
			name:     "scripts removed",
			input:    chapterDoc("<p>A</p><script>alert(1)</script>"),
			expected: "<p>A</p>",
		},
		{
			name:     "event handlers and javascript links removed",
			input:    chapterDoc(`<p onclick="steal()">A</p><a href="javascript:void(0)">link</a>`),
			expected: "<p>A</p><a>link</a>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractBody(tt.input))
		})
	}
}

func TestExtractBody_EmptyBodyReturnsRaw(t *testing.T) {
	raw := "<html><head><title>Only head</title></head><body>  \n </body></html>"
	assert.Equal(t, raw, ExtractBody(raw))
}

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "héllo", decodeText([]byte("héllo")))
	assert.Equal(t, "plain", decodeText([]byte("\xEF\xBB\xBFplain")))
	assert.Equal(t, "café", decodeText([]byte("caf\xe9")))
}

func TestReadSection(t *testing.T) {
	fsys := fstest.MapFS{
		"OEBPS/ch1.xhtml": file(chapterDoc("<p>One</p>")),
		"notes.txt":       file("a < b"),
	}

	html, err := ReadSection(context.Background(), fsys, "OEBPS/ch1.xhtml")
	require.NoError(t, err)
	assert.Equal(t, "<p>One</p>", html)

	html, err = ReadSection(context.Background(), fsys, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "<pre>a &lt; b</pre>", html)

	_, err = ReadSection(context.Background(), fsys, "OEBPS/missing.xhtml")
	var readErr *FileReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "OEBPS/missing.xhtml", readErr.Path)
}
