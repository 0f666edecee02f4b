// Package library manages the list of imported books and their reading
// progress, kept as a single JSON document on disk.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrBookExists   = errors.New("book already exists")
)

// Progress is the index of the last loaded section. Older library files
// stored it as a string, so both forms are accepted when reading.
type Progress int

func (p *Progress) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid progress %s: %w", data, err)
	}
	*p = Progress(n)
	return nil
}

// Book is one record of the library file.
type Book struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Image    string   `json:"image"`
	Progress Progress `json:"progress"`
	Location string   `json:"location"`
}

// Store reads and rewrites the library file. Every mutation runs under
// one lock and replaces the file atomically.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the JSON file at path. The file is
// created on first write.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the location of the library file.
func (s *Store) Path() string {
	return s.path
}

// List returns every book in insertion order.
func (s *Store) List(ctx context.Context) ([]Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the book with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Book, error) {
	books, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].ID == id {
			return &books[i], nil
		}
	}
	return nil, ErrBookNotFound
}

// FindByTitle returns the book with exactly the given title.
func (s *Store) FindByTitle(ctx context.Context, title string) (*Book, error) {
	books, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range books {
		if books[i].Title == title {
			return &books[i], nil
		}
	}
	return nil, ErrBookNotFound
}

// Add appends book, assigning an id when it has none. Titles are unique.
func (s *Store) Add(ctx context.Context, book Book) (*Book, error) {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	err := s.update(ctx, func(books []Book) ([]Book, error) {
		for _, b := range books {
			if b.Title == book.Title {
				return nil, fmt.Errorf("%w: %s", ErrBookExists, book.Title)
			}
			if b.ID == book.ID {
				return nil, fmt.Errorf("%w: id %s", ErrBookExists, book.ID)
			}
		}
		return append(books, book), nil
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Remove deletes the record with the given id and returns it.
func (s *Store) Remove(ctx context.Context, id string) (*Book, error) {
	var removed *Book
	err := s.update(ctx, func(books []Book) ([]Book, error) {
		for i := range books {
			if books[i].ID == id {
				b := books[i]
				removed = &b
				return append(books[:i], books[i+1:]...), nil
			}
		}
		return nil, ErrBookNotFound
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// SaveProgress records the last loaded section of a book.
func (s *Store) SaveProgress(ctx context.Context, bookID string, sectionIndex int) error {
	return s.update(ctx, func(books []Book) ([]Book, error) {
		for i := range books {
			if books[i].ID == bookID {
				books[i].Progress = Progress(sectionIndex)
				return books, nil
			}
		}
		return nil, ErrBookNotFound
	})
}

func (s *Store) update(ctx context.Context, fn func([]Book) ([]Book, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.load()
	if err != nil {
		return err
	}
	books, err = fn(books)
	if err != nil {
		return err
	}
	return s.write(books)
}

func (s *Store) load() ([]Book, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read library: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []Book{}, nil
	}

	var books []Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("decode library: %w", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

func (s *Store) write(books []Book) error {
	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}

	// Temp file in the same directory keeps the rename atomic.
	tmpFile, err := os.CreateTemp(filepath.Dir(s.path), ".library_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}
