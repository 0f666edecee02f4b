package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mrlokans/lexreader/internal/config"
	"github.com/mrlokans/lexreader/internal/database"
	"github.com/mrlokans/lexreader/internal/dictionary"
	http_controllers "github.com/mrlokans/lexreader/internal/http"
	"github.com/mrlokans/lexreader/internal/library"
	"github.com/mrlokans/lexreader/internal/scheduler"
	"github.com/mrlokans/lexreader/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the server so in-flight imports can finish.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Lexreader v%s", version)

	db, err := database.NewDatabase(cfg.Dictionary.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize dictionary database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	store, err := library.NewStore(cfg.Library.LibraryFile())
	if err != nil {
		log.Fatalf("Failed to initialize library store: %v", err)
	}
	lib, err := library.New(store, cfg.Library.BooksDir())
	if err != nil {
		log.Fatalf("Failed to initialize library: %v", err)
	}
	log.Printf("Library file %s, books under %s", store.Path(), lib.BooksDir())

	dictImporter := dictionary.NewImporter(db.DB, cfg.Dictionary.DBPath, cfg.Dictionary.Language)
	dictIndex := dictionary.NewIndex(db.DB)

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Dictionary.DBPath, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewImportBookQueue(lib),
			tasks.NewImportDictionaryQueue(dictImporter),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	} else {
		log.Printf("Task queue disabled, imports run inside the request")
	}

	var submitter scheduler.BookSubmitter = scheduler.DirectSubmitter{Importer: lib}
	if taskClient != nil {
		submitter = scheduler.QueueSubmitter{Client: taskClient}
	}
	inbox := scheduler.NewInboxSyncScheduler(scheduler.InboxConfig{
		Enabled:  cfg.Inbox.Enabled,
		Dir:      cfg.Inbox.Dir,
		Schedule: cfg.Inbox.Schedule,
	}, submitter)
	inboxCtx, inboxCancel := context.WithCancel(context.Background())
	if err := inbox.Start(inboxCtx); err != nil {
		log.Printf("WARNING: Failed to start inbox sync: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Library:            lib,
		Dictionary:         dictIndex,
		DictionaryImporter: dictImporter,
		Database:           db,
		TaskClient:         taskClient,
		Version:            version,
	})

	onShutdown := func(ctx context.Context) {
		inboxCancel()
		inbox.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
