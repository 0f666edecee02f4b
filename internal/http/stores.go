package http

import (
	"context"

	"github.com/mrlokans/lexreader/internal/dictionary"
	"github.com/mrlokans/lexreader/internal/library"
)

// This file collects the interfaces HTTP controllers depend on.

// BookLibrary is the library surface used by the books and reader
// controllers. Implemented by *library.Library.
type BookLibrary interface {
	List(ctx context.Context) ([]library.Book, error)
	Get(ctx context.Context, id string) (*library.Book, error)
	ImportEPUB(ctx context.Context, path string) (*library.ImportResult, error)
	Delete(ctx context.Context, id string) error
	Open(ctx context.Context, id string) (*library.OpenedBook, error)
	SaveProgress(ctx context.Context, bookID string, sectionIndex int) error
}

// DictionaryImporter loads lexicon archives. Implemented by
// *dictionary.Importer.
type DictionaryImporter interface {
	Import(ctx context.Context, archivePath string) (*dictionary.ImportResult, error)
	Busy() bool
}

var (
	_ BookLibrary        = (*library.Library)(nil)
	_ DictionaryImporter = (*dictionary.Importer)(nil)
)
