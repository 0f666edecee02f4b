package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
)

// ImportBookCommand extracts .epub files into the library.
type ImportBookCommand struct {
	output
	libraryFlags
	Paths []string
}

func NewImportBookCommand() *ImportBookCommand {
	return &ImportBookCommand{}
}

// ParseFlags parses command line flags
func (cmd *ImportBookCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-book", flag.ContinueOnError)
	cmd.libraryFlags.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-book [options] <file.epub>...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Extract books into the library. Books whose title is already present are skipped.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd.Paths = fs.Args()
	if len(cmd.Paths) == 0 {
		fs.Usage()
		return errors.New("at least one .epub file is required")
	}
	return nil
}

// Run executes the import. It keeps going after a failed book and
// reports the failures at the end.
func (cmd *ImportBookCommand) Run() error {
	out := cmd.w()
	fmt.Fprintln(out, "📚 Book Import")
	fmt.Fprintln(out, "==============")

	lib, err := cmd.libraryFlags.open()
	if err != nil {
		return err
	}

	ctx := context.Background()
	var failed int
	for _, path := range cmd.Paths {
		result, err := lib.ImportEPUB(ctx, path)
		if err != nil {
			fmt.Fprintf(out, "❌ %s: %v\n", path, err)
			failed++
			continue
		}
		if result.Skipped {
			fmt.Fprintf(out, "⏭️  %s: already in library\n", result.Book.Title)
			continue
		}
		fmt.Fprintf(out, "✅ %s by %s (%d sections) [%s]\n",
			result.Book.Title, result.Book.Author, result.Sections, result.Book.ID)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d books failed to import", failed, len(cmd.Paths))
	}
	return nil
}
