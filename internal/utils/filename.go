package utils

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	multipleSpaces       = regexp.MustCompile(`\s+`)
)

// maxFilenameBytes leaves room for suffixes under the common 255 byte limit.
const maxFilenameBytes = 200

// SanitizeFilename turns a book title into a single safe path segment.
// Separators, reserved characters and leading dots are removed so the
// result can never escape the directory it is joined to.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, " ")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)
	filename = strings.TrimLeft(filename, ". ")
	filename = strings.TrimRight(filename, ". ")

	if len(filename) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(filename[cut]) {
			cut--
		}
		filename = strings.TrimSpace(filename[:cut])
	}

	if filename == "" {
		filename = "Untitled"
	}
	return filename
}

// BookExtensions lists the archive extensions accepted for import.
var BookExtensions = []string{
	".kepub.epub",
	".epub",
}

// IsBookFile reports whether name has one of BookExtensions.
func IsBookFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range BookExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// TitleFromFilename returns the base name of path without its book extension.
func TitleFromFilename(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, ext := range BookExtensions {
		if strings.HasSuffix(lower, ext) {
			return strings.TrimSpace(base[:len(base)-len(ext)])
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}
