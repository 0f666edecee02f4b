package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/lexreader/internal/reader"
)

// ReadCommand prints the body of one section and records it as the
// reading position.
type ReadCommand struct {
	output
	libraryFlags
	BookID  string
	Section int
	Next    bool
	Prev    bool
}

func NewReadCommand() *ReadCommand {
	return &ReadCommand{}
}

// ParseFlags parses command line flags
func (cmd *ReadCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	cmd.libraryFlags.register(fs)
	fs.StringVar(&cmd.BookID, "book", "", "Library book ID (required)")
	fs.IntVar(&cmd.Section, "section", -1, "Section index (default: saved position)")
	fs.BoolVar(&cmd.Next, "next", false, "Read the section after the saved position")
	fs.BoolVar(&cmd.Prev, "prev", false, "Read the section before the saved position")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s read -book <id> [-section N | -next | -prev]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print a section's HTML body and save it as the reading position.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.BookID == "" {
		fs.Usage()
		return errors.New("-book is required")
	}
	if cmd.Next && cmd.Prev {
		return errors.New("-next and -prev are mutually exclusive")
	}
	return nil
}

// Run executes the command
func (cmd *ReadCommand) Run() error {
	ctx := context.Background()
	out := cmd.w()

	lib, err := cmd.libraryFlags.open()
	if err != nil {
		return err
	}
	opened, err := lib.Open(ctx, cmd.BookID)
	if err != nil {
		return err
	}

	nav := reader.NewNavigator(cmd.BookID, opened.FS, opened.EPUB.Sections, int(opened.Book.Progress), lib)
	switch {
	case cmd.Section >= 0:
		// Load clamps the index.
	case cmd.Next:
		nav.Advance()
		cmd.Section = nav.Current()
	case cmd.Prev:
		nav.Retreat()
		cmd.Section = nav.Current()
	default:
		cmd.Section = nav.Current()
	}

	page := nav.Load(ctx, cmd.Section)
	fmt.Fprintf(out, "<!-- %s: section %d/%d %q (%s) -->\n",
		opened.Book.Title, page.Index+1, nav.Len(), page.Section.Title, page.Section.Path)
	fmt.Fprintln(out, page.HTML)
	if page.Err != nil {
		return fmt.Errorf("section %d: %w", page.Index, page.Err)
	}
	return nil
}
