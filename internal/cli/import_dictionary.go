package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/lexreader/internal/config"
	"github.com/mrlokans/lexreader/internal/dictionary"
)

// ImportDictionaryCommand loads a term bank archive into the dictionary.
type ImportDictionaryCommand struct {
	output
	dictionaryFlags
	Language string
	Archive  string
}

func NewImportDictionaryCommand() *ImportDictionaryCommand {
	return &ImportDictionaryCommand{}
}

// ParseFlags parses command line flags
func (cmd *ImportDictionaryCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-dictionary", flag.ContinueOnError)
	cmd.dictionaryFlags.register(fs)
	fs.StringVar(&cmd.Language, "language", config.NewConfig().Dictionary.Language, "Language tag stored on imported entries")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-dictionary [options] <archive.zip>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import every term_bank_*.json file of the archive in one transaction.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("exactly one archive is required")
	}
	cmd.Archive = fs.Arg(0)
	return nil
}

// Run executes the command
func (cmd *ImportDictionaryCommand) Run() error {
	out := cmd.w()
	fmt.Fprintln(out, "📖 Dictionary Import")
	fmt.Fprintln(out, "====================")

	db, err := cmd.dictionaryFlags.open()
	if err != nil {
		return err
	}
	defer db.Close()

	start := time.Now()
	importer := dictionary.NewImporter(db.DB, cmd.DBPath, cmd.Language)
	result, err := importer.Import(context.Background(), cmd.Archive)
	if err != nil {
		fmt.Fprintf(out, "❌ Import failed, nothing was written: %v\n", err)
		return err
	}

	if result.Title != "" {
		fmt.Fprintf(out, "Title:       %s\n", result.Title)
	}
	fmt.Fprintf(out, "Files:       %d\n", result.Files)
	fmt.Fprintf(out, "Entries:     %d new\n", result.Entries)
	fmt.Fprintf(out, "Definitions: %d new\n", result.Definitions)
	if result.Skipped > 0 {
		fmt.Fprintf(out, "Skipped:     %d malformed\n", result.Skipped)
	}
	fmt.Fprintf(out, "✅ Done in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
