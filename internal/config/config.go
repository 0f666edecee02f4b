package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Library
		Dictionary
		Inbox
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Library struct {
		Dir  string // Root directory; books are extracted under Dir/books
		File string // Library file, relative to Dir unless absolute
	}
	Dictionary struct {
		DBPath   string
		Language string // Stored on every imported entry
	}
	Inbox struct {
		Dir      string
		Enabled  bool
		Schedule string // Cron format: "*/5 * * * *" = every 5 minutes
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

// LibraryFile returns the resolved path of the library file.
func (l Library) LibraryFile() string {
	if filepath.IsAbs(l.File) {
		return l.File
	}
	return filepath.Join(l.Dir, l.File)
}

// BooksDir returns the directory that extracted books are written to.
func (l Library) BooksDir() string {
	return filepath.Join(l.Dir, "books")
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("library_dir", DefaultLibraryDir)
	v.SetDefault("library_file", DefaultLibraryFile)
	v.SetDefault("dictionary_db_path", DefaultDictionaryDBPath)
	v.SetDefault("dictionary_language", DefaultDictionaryLanguage)
	v.SetDefault("inbox_dir", "")
	v.SetDefault("inbox_sync_enabled", false)
	v.SetDefault("inbox_sync_schedule", DefaultInboxSchedule)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Library: Library{
			Dir:  v.GetString("LIBRARY_DIR"),
			File: v.GetString("LIBRARY_FILE"),
		},
		Dictionary: Dictionary{
			DBPath:   v.GetString("DICTIONARY_DB_PATH"),
			Language: v.GetString("DICTIONARY_LANGUAGE"),
		},
		Inbox: Inbox{
			Dir:      v.GetString("INBOX_DIR"),
			Enabled:  v.GetBool("INBOX_SYNC_ENABLED"),
			Schedule: v.GetString("INBOX_SYNC_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}
