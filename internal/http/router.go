package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Database, cfg.TaskClient, cfg.Version)
	router.GET("/health", healthController.Status)

	api := router.Group("/api")

	if cfg.Library != nil {
		booksController := NewBooksController(cfg.Library, taskQueue(cfg))
		readerController := NewReaderController(cfg.Library)
		booksController.OnDelete(readerController.CloseSession)

		api.GET("/books", booksController.List)
		api.POST("/books/import", booksController.Import)
		api.DELETE("/books/:id", booksController.Delete)

		api.GET("/books/:id/sections", readerController.Sections)
		api.GET("/books/:id/sections/:index", readerController.LoadSection)
		api.POST("/books/:id/advance", readerController.Advance)
		api.POST("/books/:id/retreat", readerController.Retreat)
	}

	if cfg.Dictionary != nil {
		dictionaryController := NewDictionaryController(cfg.Dictionary, cfg.DictionaryImporter, taskQueue(cfg))
		api.GET("/dictionary/lookup", dictionaryController.Lookup)
		api.POST("/dictionary/import", dictionaryController.Import)
	}

	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}

// taskQueue returns the task client as an enqueuer, or nil when the
// queue is disabled.
func taskQueue(cfg RouterConfig) TaskEnqueuer {
	if cfg.TaskClient == nil {
		return nil
	}
	return cfg.TaskClient
}
