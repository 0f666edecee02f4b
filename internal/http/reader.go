package http

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexreader/internal/epub"
	"github.com/mrlokans/lexreader/internal/library"
	"github.com/mrlokans/lexreader/internal/reader"
)

// readingSession is one open book. Navigator is not safe for concurrent
// use, so every access goes through mu.
type readingSession struct {
	mu    sync.Mutex
	title string
	toc   []epub.NavNode
	nav   *reader.Navigator
}

// ReaderController serves sections of library books and keeps one
// navigator per open book.
type ReaderController struct {
	library BookLibrary

	mu       sync.Mutex
	sessions map[string]*readingSession
}

func NewReaderController(lib BookLibrary) *ReaderController {
	return &ReaderController{
		library:  lib,
		sessions: make(map[string]*readingSession),
	}
}

// SectionsResponse lists the reading order of a book.
type SectionsResponse struct {
	BookID   string         `json:"book_id"`
	Title    string         `json:"title"`
	Current  int            `json:"current"`
	Sections []epub.Section `json:"sections"`
	TOC      []epub.NavNode `json:"toc,omitempty"`
}

// PageResponse is a loaded section.
type PageResponse struct {
	BookID  string       `json:"book_id"`
	Index   int          `json:"index"`
	Total   int          `json:"total"`
	Section epub.Section `json:"section"`
	HTML    string       `json:"html"`
	Error   string       `json:"error,omitempty"`
	Moved   *bool        `json:"moved,omitempty"`
}

// CloseSession drops the navigator of a book, if open.
func (rc *ReaderController) CloseSession(bookID string) {
	rc.mu.Lock()
	delete(rc.sessions, bookID)
	rc.mu.Unlock()
}

func (rc *ReaderController) session(ctx context.Context, bookID string) (*readingSession, error) {
	rc.mu.Lock()
	s, ok := rc.sessions[bookID]
	rc.mu.Unlock()
	if ok {
		return s, nil
	}

	// Opening resolves the whole package; other books stay reachable meanwhile.
	opened, err := rc.library.Open(ctx, bookID)
	if err != nil {
		return nil, err
	}
	s = &readingSession{
		title: opened.Book.Title,
		toc:   opened.EPUB.TOC,
		nav: reader.NewNavigator(bookID, opened.FS, opened.EPUB.Sections,
			int(opened.Book.Progress), rc.library),
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if existing, ok := rc.sessions[bookID]; ok {
		return existing, nil
	}
	rc.sessions[bookID] = s
	return s, nil
}

// sessionOrRespond resolves the session and writes the error response
// when it cannot be opened.
func (rc *ReaderController) sessionOrRespond(c *gin.Context) (*readingSession, bool) {
	s, err := rc.session(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		return s, true
	case errors.Is(err, library.ErrBookNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, epub.ErrPackageNotFound), errors.Is(err, epub.ErrNoReadableContent):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		respondInternalError(c, err, "open book")
	}
	return nil, false
}

// Sections handles GET /api/books/:id/sections
func (rc *ReaderController) Sections(c *gin.Context) {
	s, ok := rc.sessionOrRespond(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, SectionsResponse{
		BookID:   c.Param("id"),
		Title:    s.title,
		Current:  s.nav.Current(),
		Sections: s.nav.Sections(),
		TOC:      s.toc,
	})
}

// LoadSection handles GET /api/books/:id/sections/:index
func (rc *ReaderController) LoadSection(c *gin.Context) {
	index, ok := parseIndexParam(c, "index")
	if !ok {
		return
	}
	s, ok := rc.sessionOrRespond(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rc.respondPage(c, s, s.nav.Load(c.Request.Context(), index), nil)
}

// Advance handles POST /api/books/:id/advance
func (rc *ReaderController) Advance(c *gin.Context) {
	rc.move(c, (*reader.Navigator).Advance)
}

// Retreat handles POST /api/books/:id/retreat
func (rc *ReaderController) Retreat(c *gin.Context) {
	rc.move(c, (*reader.Navigator).Retreat)
}

func (rc *ReaderController) move(c *gin.Context, step func(*reader.Navigator) bool) {
	s, ok := rc.sessionOrRespond(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	moved := step(s.nav)
	rc.respondPage(c, s, s.nav.LoadCurrent(c.Request.Context()), &moved)
}

func (rc *ReaderController) respondPage(c *gin.Context, s *readingSession, page reader.Page, moved *bool) {
	resp := PageResponse{
		BookID:  c.Param("id"),
		Index:   page.Index,
		Total:   s.nav.Len(),
		Section: page.Section,
		HTML:    page.HTML,
		Moved:   moved,
	}
	if page.Err != nil {
		resp.Error = page.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
