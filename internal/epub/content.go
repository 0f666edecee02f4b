package epub

import (
	"bytes"
	"context"
	"html"
	"io/fs"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mrlokans/lexreader/internal/pathutil"
)

// ReadSection returns the displayable markup of the section file at p.
// Plain text files are escaped and wrapped in a pre element.
func ReadSection(ctx context.Context, fsys fs.FS, p string) (string, error) {
	text, err := ReadText(ctx, fsys, p)
	if err != nil {
		return "", err
	}
	if pathutil.Ext(p) == ".txt" {
		return "<pre>" + html.EscapeString(text) + "</pre>", nil
	}
	return ExtractBody(text), nil
}

// ExtractBody returns the inner markup of the document body with scripts
// and event handler attributes removed. The raw content is returned when
// the source has no body element, cannot be parsed or has an empty body.
func ExtractBody(content string) string {
	// The parser synthesizes a body for fragments; only a body present in
	// the source counts.
	if !hasBodyTag(content) {
		return content
	}
	doc, err := xhtml.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return content
	}

	sanitize(body)

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := xhtml.Render(&buf, c); err != nil {
			return content
		}
	}
	inner := strings.TrimSpace(buf.String())
	if inner == "" {
		return content
	}
	return inner
}

// hasBodyTag reports whether content contains a body start tag outside
// comments and raw text.
func hasBodyTag(content string) bool {
	z := xhtml.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return false
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Body {
				return true
			}
		}
	}
}

func sanitize(n *xhtml.Node) {
	var next *xhtml.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type != xhtml.ElementNode {
			continue
		}
		if c.DataAtom == atom.Script {
			n.RemoveChild(c)
			continue
		}
		kept := c.Attr[:0]
		for _, a := range c.Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") {
				continue
			}
			if (key == "href" || key == "src" || key == "xlink:href") &&
				strings.HasPrefix(strings.ToLower(strings.TrimSpace(a.Val)), "javascript:") {
				continue
			}
			kept = append(kept, a)
		}
		c.Attr = kept
		sanitize(c)
	}
}
