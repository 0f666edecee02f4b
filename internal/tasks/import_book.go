package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/lexreader/internal/library"
)

// BookImporter imports a single book archive into the library.
type BookImporter interface {
	ImportEPUB(ctx context.Context, path string) (*library.ImportResult, error)
}

// ImportBookTask extracts one .epub file into the library.
type ImportBookTask struct {
	Path string `json:"path"`
}

// Config returns the queue configuration for book import tasks.
func (t ImportBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportBookProcessor creates a processor function for ImportBookTask.
func ImportBookProcessor(importer BookImporter) backlite.QueueProcessor[ImportBookTask] {
	return func(ctx context.Context, task ImportBookTask) error {
		if importer == nil {
			return fmt.Errorf("book importer not configured")
		}

		result, err := importer.ImportEPUB(ctx, task.Path)
		if err != nil {
			return fmt.Errorf("import book %s: %w", task.Path, err)
		}

		if result.Skipped {
			log.Printf("[TASK] Book %s already imported as %q", task.Path, result.Book.Title)
		} else {
			log.Printf("[TASK] Imported book %q (%d sections)", result.Book.Title, result.Sections)
		}
		return nil
	}
}

// NewImportBookQueue creates a backlite queue for book import tasks.
func NewImportBookQueue(importer BookImporter) backlite.Queue {
	return backlite.NewQueue(ImportBookProcessor(importer))
}
