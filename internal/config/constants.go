package config

// Default locations, relative to the working directory.
const (
	// DefaultLibraryDir holds the library file and the extracted books.
	DefaultLibraryDir = "./library"

	// DefaultLibraryFile is the JSON list of imported books.
	DefaultLibraryFile = "library.json"

	// DefaultDictionaryDBPath is the SQLite dictionary store. The task
	// queue database lives next to it with a "-tasks" suffix.
	DefaultDictionaryDBPath = "./dictionary.db"

	DefaultDictionaryLanguage = "ja"

	DefaultInboxSchedule = "*/5 * * * *"
)
