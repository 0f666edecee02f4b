package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/lexreader/internal/dictionary"
)

// DictionaryImporter loads a lexicon archive into the dictionary store.
type DictionaryImporter interface {
	Import(ctx context.Context, archivePath string) (*dictionary.ImportResult, error)
}

// ImportDictionaryTask imports one lexicon archive. Large dictionaries
// take minutes, so the timeout is generous and a failed attempt is not
// retried: the transaction has already been rolled back.
type ImportDictionaryTask struct {
	Path string `json:"path"`
}

// Config returns the queue configuration for dictionary import tasks.
func (t ImportDictionaryTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_dictionary",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     60 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportDictionaryProcessor creates a processor function for ImportDictionaryTask.
func ImportDictionaryProcessor(importer DictionaryImporter) backlite.QueueProcessor[ImportDictionaryTask] {
	return func(ctx context.Context, task ImportDictionaryTask) error {
		if importer == nil {
			return fmt.Errorf("dictionary importer not configured")
		}

		result, err := importer.Import(ctx, task.Path)
		if err != nil {
			return fmt.Errorf("import dictionary %s: %w", task.Path, err)
		}

		log.Printf("[TASK] Dictionary import complete: %d files, %d entries, %d definitions, %d skipped",
			result.Files, result.Entries, result.Definitions, result.Skipped)
		return nil
	}
}

// NewImportDictionaryQueue creates a backlite queue for dictionary import tasks.
func NewImportDictionaryQueue(importer DictionaryImporter) backlite.Queue {
	return backlite.NewQueue(ImportDictionaryProcessor(importer))
}
