package epub

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseNavDocument reads the toc nav of a navigation document. When no nav
// is marked with epub:type="toc" the first nav element is used.
func parseNavDocument(data []byte, navPath string) ([]NavNode, error) {
	doc, err := html.Parse(bytes.NewReader(stripBOM(data)))
	if err != nil {
		return nil, fmt.Errorf("parse nav document: %w", err)
	}

	var navs []*html.Node
	collectElements(doc, atom.Nav, &navs)
	if len(navs) == 0 {
		return nil, fmt.Errorf("nav document %s has no nav element", navPath)
	}

	toc := navs[0]
	for _, n := range navs {
		if hasToken(attr(n, "epub:type"), "toc") || hasToken(attr(n, "role"), "doc-toc") {
			toc = n
			break
		}
	}

	ol := findElement(toc, atom.Ol)
	if ol == nil {
		return nil, nil
	}
	return parseNavList(ol, navPath), nil
}

func parseNavList(ol *html.Node, navPath string) []NavNode {
	var nodes []NavNode
	for c := ol.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			nodes = append(nodes, parseNavItem(c, navPath))
		}
	}
	return nodes
}

func parseNavItem(li *html.Node, navPath string) NavNode {
	var node NavNode
	labelled := false
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.A:
			if labelled {
				continue
			}
			labelled = true
			node.Title = collapseSpace(textContent(c))
			node.Target = resolveTarget(navPath, attr(c, "href"))
		case atom.Span:
			if !labelled {
				labelled = true
				node.Title = collapseSpace(textContent(c))
			}
		case atom.Ol:
			node.Children = parseNavList(c, navPath)
		}
	}
	return node
}

func collectElements(n *html.Node, a atom.Atom, out *[]*html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == a {
		*out = append(*out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectElements(c, a, out)
	}
}

// findElement returns the first descendant of n (or n itself) with tag a.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasToken(list, token string) bool {
	for _, t := range strings.Fields(list) {
		if t == token {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
