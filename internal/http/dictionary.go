package http

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexreader/internal/busy"
	"github.com/mrlokans/lexreader/internal/dictionary"
	"github.com/mrlokans/lexreader/internal/tasks"
)

// DictionaryController handles lookups and dictionary imports.
type DictionaryController struct {
	client   dictionary.Client
	importer DictionaryImporter
	queue    TaskEnqueuer
}

// NewDictionaryController creates a controller. importer and queue may be
// nil; without an importer the import endpoint is unavailable.
func NewDictionaryController(client dictionary.Client, importer DictionaryImporter, queue TaskEnqueuer) *DictionaryController {
	return &DictionaryController{client: client, importer: importer, queue: queue}
}

// LookupResponse is the result of a dictionary lookup.
type LookupResponse struct {
	Query   string             `json:"query"`
	Match   *dictionary.Match  `json:"match,omitempty"`
	Matches []dictionary.Match `json:"matches,omitempty"`
}

// Lookup handles GET /api/dictionary/lookup?q=...&all=true
func (dc *DictionaryController) Lookup(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "q is required")
		return
	}
	all, _ := strconv.ParseBool(c.Query("all"))

	if all {
		matches, err := dc.client.LookupAll(c.Request.Context(), query)
		if err != nil {
			respondInternalError(c, err, "dictionary lookup")
			return
		}
		if len(matches) == 0 {
			respondNotFound(c, "word")
			return
		}
		c.JSON(http.StatusOK, LookupResponse{Query: query, Match: &matches[0], Matches: matches})
		return
	}

	match, found, err := dc.client.Lookup(c.Request.Context(), query)
	if err != nil {
		respondInternalError(c, err, "dictionary lookup")
		return
	}
	if !found {
		respondNotFound(c, "word")
		return
	}
	c.JSON(http.StatusOK, LookupResponse{Query: query, Match: &match})
}

// Import handles POST /api/dictionary/import
func (dc *DictionaryController) Import(c *gin.Context) {
	if dc.importer == nil {
		respondError(c, http.StatusServiceUnavailable, "dictionary import is not configured")
		return
	}
	path, ok := bindPath(c)
	if !ok {
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		respondBadRequest(c, "file not found: "+path)
		return
	}
	if dc.importer.Busy() {
		respondConflict(c, "a dictionary import is already running", "busy")
		return
	}

	if dc.queue != nil {
		taskID, err := dc.queue.Enqueue(c.Request.Context(), tasks.ImportDictionaryTask{Path: path})
		if err != nil {
			respondInternalError(c, err, "enqueue dictionary import")
			return
		}
		respondAccepted(c, "import queued", gin.H{"task_id": taskID})
		return
	}

	result, err := dc.importer.Import(c.Request.Context(), path)
	switch {
	case err == nil:
		respondSuccess(c, "dictionary imported", result)
	case errors.Is(err, busy.ErrBusy):
		respondConflict(c, "a dictionary import is already running", "busy")
	case errors.Is(err, dictionary.ErrNoTermBanks):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		respondInternalError(c, err, "dictionary import")
	}
}
