package http

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/lexreader/internal/busy"
	"github.com/mrlokans/lexreader/internal/epub"
	"github.com/mrlokans/lexreader/internal/library"
	"github.com/mrlokans/lexreader/internal/tasks"
	"github.com/mrlokans/lexreader/internal/utils"
)

// TaskEnqueuer saves a task for background processing.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

var _ TaskEnqueuer = (*tasks.Client)(nil)

// BooksController handles the library endpoints.
type BooksController struct {
	library  BookLibrary
	queue    TaskEnqueuer
	onDelete []func(bookID string)
}

// NewBooksController creates a controller. queue may be nil, in which
// case imports run inside the request.
func NewBooksController(lib BookLibrary, queue TaskEnqueuer) *BooksController {
	return &BooksController{library: lib, queue: queue}
}

// OnDelete registers a callback run after a book is deleted.
func (bc *BooksController) OnDelete(fn func(bookID string)) {
	bc.onDelete = append(bc.onDelete, fn)
}

// List handles GET /api/books
func (bc *BooksController) List(c *gin.Context) {
	books, err := bc.library.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "total": len(books)})
}

// Import handles POST /api/books/import
func (bc *BooksController) Import(c *gin.Context) {
	path, ok := bindPath(c)
	if !ok {
		return
	}
	if !utils.IsBookFile(path) {
		respondBadRequest(c, "only .epub files can be imported")
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		respondBadRequest(c, "file not found: "+path)
		return
	}

	if bc.queue != nil {
		taskID, err := bc.queue.Enqueue(c.Request.Context(), tasks.ImportBookTask{Path: path})
		if err != nil {
			respondInternalError(c, err, "enqueue book import")
			return
		}
		respondAccepted(c, "import queued", gin.H{"task_id": taskID})
		return
	}

	result, err := bc.library.ImportEPUB(c.Request.Context(), path)
	switch {
	case err == nil:
	case errors.Is(err, busy.ErrBusy):
		respondConflict(c, "book is already being imported", "busy")
		return
	case errors.Is(err, library.ErrBookExists):
		respondConflict(c, err.Error(), "exists")
		return
	case errors.Is(err, epub.ErrPackageNotFound), errors.Is(err, epub.ErrNoReadableContent):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	default:
		respondInternalError(c, err, "import book")
		return
	}

	if result.Skipped {
		respondSuccess(c, "book already in library", result)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "book imported", Data: result})
}

// Delete handles DELETE /api/books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := bc.library.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, library.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}
	for _, fn := range bc.onDelete {
		fn(id)
	}
	respondSuccess(c, "book deleted", nil)
}
