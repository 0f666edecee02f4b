package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/lexreader/internal/busy"
	"github.com/mrlokans/lexreader/internal/epub"
	"github.com/mrlokans/lexreader/internal/utils"
)

const defaultAuthor = "Unknown Author"

var ErrNotABook = errors.New("not an epub file")

// ImportResult describes the outcome of a single book import.
type ImportResult struct {
	Book     *Book `json:"book,omitempty"`
	Skipped  bool  `json:"skipped"`
	Sections int   `json:"sections"`
}

// Library ties the store to the directory holding extracted books.
type Library struct {
	store    *Store
	booksDir string
	guard    *busy.Guard
}

// New creates a library whose books are extracted under booksDir.
func New(store *Store, booksDir string) (*Library, error) {
	if err := os.MkdirAll(booksDir, 0755); err != nil {
		return nil, fmt.Errorf("create books dir: %w", err)
	}
	abs, err := filepath.Abs(booksDir)
	if err != nil {
		return nil, err
	}
	return &Library{store: store, booksDir: abs, guard: busy.Shared()}, nil
}

func (l *Library) Store() *Store {
	return l.store
}

func (l *Library) BooksDir() string {
	return l.booksDir
}

// ImportEPUB extracts the archive at path into the books directory and
// records it in the store. A book whose title is already present is
// skipped without touching the disk.
func (l *Library) ImportEPUB(ctx context.Context, path string) (*ImportResult, error) {
	if !utils.IsBookFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrNotABook, path)
	}

	title := utils.TitleFromFilename(path)
	if existing, err := l.store.FindByTitle(ctx, title); err == nil {
		log.Printf("[LIBRARY] %q already in library, skipping", title)
		return &ImportResult{Book: existing, Skipped: true}, nil
	} else if !errors.Is(err, ErrBookNotFound) {
		return nil, err
	}

	dir := filepath.Join(l.booksDir, utils.SanitizeFilename(title))
	release, err := l.guard.TryAcquire(dir)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%w: directory %s", ErrBookExists, dir)
	}

	book, sections, err := l.extract(ctx, path, dir, title)
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			log.Printf("[LIBRARY] Failed to clean up %s: %v", dir, rmErr)
		}
		return nil, err
	}

	log.Printf("[LIBRARY] Imported %q by %s (%d sections)", book.Title, book.Author, sections)
	return &ImportResult{Book: book, Sections: sections}, nil
}

func (l *Library) extract(ctx context.Context, path, dir, title string) (*Book, int, error) {
	if err := utils.ExtractZip(ctx, path, dir, utils.MaxEntrySize); err != nil {
		return nil, 0, fmt.Errorf("extract %s: %w", path, err)
	}

	opened, err := epub.Open(ctx, os.DirFS(dir))
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", title, err)
	}

	meta := opened.Metadata()
	author := strings.TrimSpace(meta.Creator)
	if author == "" {
		author = defaultAuthor
	}
	var image string
	if meta.CoverPath != "" {
		image = filepath.Join(dir, filepath.FromSlash(meta.CoverPath))
	}

	book, err := l.store.Add(ctx, Book{
		Title:    title,
		Author:   author,
		Image:    image,
		Location: dir,
	})
	if err != nil {
		return nil, 0, err
	}
	return book, len(opened.Sections), nil
}

// Delete removes the book record and its extracted directory.
func (l *Library) Delete(ctx context.Context, id string) error {
	book, err := l.store.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !l.owns(book.Location) {
		log.Printf("[LIBRARY] Not removing %s: outside %s", book.Location, l.booksDir)
		return nil
	}
	if err := os.RemoveAll(book.Location); err != nil {
		return fmt.Errorf("remove %s: %w", book.Location, err)
	}
	log.Printf("[LIBRARY] Deleted %q", book.Title)
	return nil
}

// OpenedBook is a stored book with its resolved sections.
type OpenedBook struct {
	Book *Book
	FS   fs.FS
	EPUB *epub.Book
}

// Open resolves the sections of a stored book.
func (l *Library) Open(ctx context.Context, id string) (*OpenedBook, error) {
	book, err := l.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fsys := os.DirFS(book.Location)
	opened, err := epub.Open(ctx, fsys)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", book.Title, err)
	}
	return &OpenedBook{Book: book, FS: fsys, EPUB: opened}, nil
}

// List returns every book in the library.
func (l *Library) List(ctx context.Context) ([]Book, error) {
	return l.store.List(ctx)
}

// Get returns one book record.
func (l *Library) Get(ctx context.Context, id string) (*Book, error) {
	return l.store.Get(ctx, id)
}

// SaveProgress records the last loaded section of a book.
func (l *Library) SaveProgress(ctx context.Context, bookID string, sectionIndex int) error {
	return l.store.SaveProgress(ctx, bookID, sectionIndex)
}

func (l *Library) owns(dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(l.booksDir, dir)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
