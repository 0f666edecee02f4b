package scheduler

import (
	"context"

	"github.com/mrlokans/lexreader/internal/tasks"
)

// QueueSubmitter enqueues an import_book task per file.
type QueueSubmitter struct {
	Client *tasks.Client
}

func (q QueueSubmitter) SubmitBook(ctx context.Context, path string) error {
	_, err := q.Client.Enqueue(ctx, tasks.ImportBookTask{Path: path})
	return err
}

// DirectSubmitter imports the file synchronously. Used when the task
// queue is disabled.
type DirectSubmitter struct {
	Importer tasks.BookImporter
}

func (d DirectSubmitter) SubmitBook(ctx context.Context, path string) error {
	_, err := d.Importer.ImportEPUB(ctx, path)
	return err
}
