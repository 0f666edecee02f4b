package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/lexreader/internal/config"
	"github.com/mrlokans/lexreader/internal/database"
	"github.com/mrlokans/lexreader/internal/library"
)

// output is embedded by commands that print results.
type output struct {
	out io.Writer
}

func (o *output) w() io.Writer {
	if o.out == nil {
		return os.Stdout
	}
	return o.out
}

// SetOutput redirects command output, os.Stdout by default.
func (o *output) SetOutput(w io.Writer) {
	o.out = w
}

// libraryFlags are shared by the commands that work on the library.
type libraryFlags struct {
	LibraryDir  string
	LibraryFile string
}

func (lf *libraryFlags) register(fs *flag.FlagSet) {
	defaults := config.NewConfig().Library
	fs.StringVar(&lf.LibraryDir, "library", defaults.Dir, "Library directory (books are extracted under <library>/books)")
	fs.StringVar(&lf.LibraryFile, "library-file", defaults.File, "Library file, relative to -library unless absolute")
}

func (lf *libraryFlags) open() (*library.Library, error) {
	cfg := config.Library{Dir: lf.LibraryDir, File: lf.LibraryFile}
	store, err := library.NewStore(cfg.LibraryFile())
	if err != nil {
		return nil, err
	}
	lib, err := library.New(store, cfg.BooksDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open library %s: %w", filepath.Clean(lf.LibraryDir), err)
	}
	return lib, nil
}

// dictionaryFlags select the dictionary store.
type dictionaryFlags struct {
	DBPath string
}

func (df *dictionaryFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&df.DBPath, "db", config.NewConfig().Dictionary.DBPath, "Dictionary database path")
}

func (df *dictionaryFlags) open() (*database.Database, error) {
	db, err := database.NewDatabase(df.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", df.DBPath, err)
	}
	return db, nil
}
