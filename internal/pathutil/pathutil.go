// Package pathutil resolves paths inside an extracted book.
//
// Book paths are always slash separated and relative to the book root.
// They never start or end with a separator and never contain "." or ".."
// segments. Backslashes written by broken packaging tools are treated as
// separators.
package pathutil

import (
	"net/url"
	"strings"
)

// Normalize collapses a book path into its canonical form.
// "//a/b/../c/" becomes "a/c"; ".." past the root is dropped.
func Normalize(p string) string {
	return strings.Join(walk(nil, p), "/")
}

// Resolve interprets ref relative to the directory containing base.
// A ref starting with "/" is relative to the book root. Any fragment
// on ref is dropped.
func Resolve(base, ref string) string {
	ref = StripFragment(ref)
	ref = strings.ReplaceAll(ref, "\\", "/")

	var segments []string
	if !strings.HasPrefix(ref, "/") {
		segments = walk(nil, Dir(base))
	}
	return strings.Join(walk(segments, ref), "/")
}

// StripFragment removes everything from the first '#'.
func StripFragment(href string) string {
	if idx := strings.IndexByte(href, '#'); idx >= 0 {
		return href[:idx]
	}
	return href
}

// Unescape percent-decodes an href. Hrefs that are not valid escapes
// are returned unchanged.
func Unescape(href string) string {
	if !strings.Contains(href, "%") {
		return href
	}
	decoded, err := url.PathUnescape(href)
	if err != nil {
		return href
	}
	return decoded
}

// Dir returns the directory part of a book path, or "" for files at the root.
func Dir(p string) string {
	segments := walk(nil, p)
	if len(segments) <= 1 {
		return ""
	}
	return strings.Join(segments[:len(segments)-1], "/")
}

// Base returns the last segment of a book path.
func Base(p string) string {
	segments := walk(nil, p)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// Ext returns the lower-cased extension of p including the dot.
func Ext(p string) string {
	base := Base(p)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(base[idx:])
}

// IsExternal reports whether href points outside the book (has a URL scheme).
func IsExternal(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme != "" && len(u.Scheme) > 1
}

func walk(stack []string, p string) []string {
	p = strings.ReplaceAll(p, "\\", "/")
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	return stack
}
