package epub

import (
	"context"
	"io/fs"
	"log"
)

var (
	markupExtensions = []string{".xhtml", ".html", ".htm"}
	textExtensions   = []string{".txt"}
)

// ValidateSections drops sections whose file does not exist, repairing
// letter case where possible. When nothing survives, the book directory
// is scanned for markup files and then for plain text files, sorted by
// path. ErrNoReadableContent is returned when both scans come up empty.
func ValidateSections(ctx context.Context, fsys fs.FS, sections []Section) ([]Section, error) {
	valid := make([]Section, 0, len(sections))
	seen := make(map[string]bool, len(sections))

	for _, s := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		actual, ok := findFile(fsys, s.Path)
		if !ok {
			log.Printf("[EPUB] Dropping section %q: %s does not exist", s.Title, s.Path)
			continue
		}
		if actual != s.Path {
			log.Printf("[EPUB] Section path %s repaired to %s", s.Path, actual)
			s.Path = actual
		}
		if seen[s.Path] {
			continue
		}
		seen[s.Path] = true
		valid = append(valid, s)
	}
	if len(valid) > 0 {
		return renumber(valid), nil
	}

	for _, exts := range [][]string{markupExtensions, textExtensions} {
		found, err := scanFiles(ctx, fsys, exts...)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			continue
		}
		log.Printf("[EPUB] No valid sections, using %d files found by directory scan", len(found))
		scanned := make([]Section, len(found))
		for i, p := range found {
			scanned[i] = Section{Path: p, Title: genericTitle(i), Order: i}
		}
		return scanned, nil
	}

	return nil, ErrNoReadableContent
}
