// Package reader keeps the reading position inside an opened book.
package reader

import (
	"context"
	"errors"
	"html"
	"io/fs"
	"log"

	"github.com/mrlokans/lexreader/internal/epub"
)

// ErrNoSections is reported when a navigator has nothing to load.
var ErrNoSections = errors.New("reader: book has no sections")

// ProgressStore persists the last successfully loaded section of a book.
type ProgressStore interface {
	SaveProgress(ctx context.Context, bookID string, sectionIndex int) error
}

// Page is the result of loading a section. When Err is set, HTML holds
// an inline error message that can be shown in place of the content.
type Page struct {
	Index   int          `json:"index"`
	Section epub.Section `json:"section"`
	HTML    string       `json:"html"`
	Err     error        `json:"-"`
}

// Navigator is a cursor over the sections of one book. It is meant to be
// owned by a single reading session and is not safe for concurrent use.
type Navigator struct {
	bookID   string
	fsys     fs.FS
	sections []epub.Section
	progress ProgressStore
	current  int
}

// NewNavigator creates a navigator positioned at start, clamped to the
// section range. progress may be nil.
func NewNavigator(bookID string, fsys fs.FS, sections []epub.Section, start int, progress ProgressStore) *Navigator {
	n := &Navigator{
		bookID:   bookID,
		fsys:     fsys,
		sections: append([]epub.Section(nil), sections...),
		progress: progress,
	}
	n.current = n.clamp(start)
	return n
}

// Load reads the section at index (clamped). On success the cursor moves
// there and the position is saved; a failed save is only logged. On
// failure the cursor stays put and the page carries the error.
func (n *Navigator) Load(ctx context.Context, index int) Page {
	if len(n.sections) == 0 {
		return errorPage(0, epub.Section{}, ErrNoSections)
	}

	idx := n.clamp(index)
	section := n.sections[idx]

	content, err := epub.ReadSection(ctx, n.fsys, section.Path)
	if err != nil {
		log.Printf("[READER] Failed to load section %d (%s) of book %s: %v", idx, section.Path, n.bookID, err)
		return errorPage(idx, section, err)
	}

	n.current = idx
	if n.progress != nil {
		if err := n.progress.SaveProgress(ctx, n.bookID, idx); err != nil {
			log.Printf("[READER] Failed to save progress for book %s: %v", n.bookID, err)
		}
	}

	return Page{Index: idx, Section: section, HTML: content}
}

// LoadCurrent loads the section under the cursor.
func (n *Navigator) LoadCurrent(ctx context.Context) Page {
	return n.Load(ctx, n.current)
}

// Advance moves the cursor forward. It reports false at the last section.
func (n *Navigator) Advance() bool {
	if n.current+1 >= len(n.sections) {
		return false
	}
	n.current++
	return true
}

// Retreat moves the cursor back. It reports false at the first section.
func (n *Navigator) Retreat() bool {
	if n.current <= 0 {
		return false
	}
	n.current--
	return true
}

// Current returns the cursor position.
func (n *Navigator) Current() int {
	return n.current
}

// Section returns the section under the cursor.
func (n *Navigator) Section() (epub.Section, bool) {
	if len(n.sections) == 0 {
		return epub.Section{}, false
	}
	return n.sections[n.current], true
}

// Sections returns a copy of the section list.
func (n *Navigator) Sections() []epub.Section {
	return append([]epub.Section(nil), n.sections...)
}

// Len returns the number of sections.
func (n *Navigator) Len() int {
	return len(n.sections)
}

func (n *Navigator) clamp(index int) int {
	if index < 0 || len(n.sections) == 0 {
		return 0
	}
	if index >= len(n.sections) {
		return len(n.sections) - 1
	}
	return index
}

func errorPage(index int, section epub.Section, err error) Page {
	return Page{
		Index:   index,
		Section: section,
		HTML:    "<p>Error loading section: " + html.EscapeString(err.Error()) + "</p>",
		Err:     err,
	}
}
