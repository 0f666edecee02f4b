package http

import (
	"github.com/mrlokans/lexreader/internal/database"
	"github.com/mrlokans/lexreader/internal/dictionary"
	"github.com/mrlokans/lexreader/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	Library            BookLibrary
	Dictionary         dictionary.Client
	DictionaryImporter DictionaryImporter
	Database           *database.Database

	// Task queue client (optional). When nil, imports run inside the
	// request.
	TaskClient *tasks.Client

	// Application info
	Version string
}
