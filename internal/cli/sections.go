package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/lexreader/internal/epub"
)

// SectionsCommand prints the resolved reading order of a book.
type SectionsCommand struct {
	output
	libraryFlags
	BookID string
	Dir    string
	TOC    bool
}

func NewSectionsCommand() *SectionsCommand {
	return &SectionsCommand{}
}

// ParseFlags parses command line flags
func (cmd *SectionsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sections", flag.ContinueOnError)
	cmd.libraryFlags.register(fs)
	fs.StringVar(&cmd.BookID, "book", "", "Library book ID")
	fs.StringVar(&cmd.Dir, "dir", "", "Extracted book directory (instead of -book)")
	fs.BoolVar(&cmd.TOC, "toc", false, "Also print the table of contents tree")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sections (-book <id> | -dir <path>) [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List the sections of a book in reading order.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if (cmd.BookID == "") == (cmd.Dir == "") {
		fs.Usage()
		return errors.New("exactly one of -book or -dir is required")
	}
	return nil
}

// Run executes the command
func (cmd *SectionsCommand) Run() error {
	ctx := context.Background()
	out := cmd.w()

	var (
		title   string
		current = -1
		book    *epub.Book
	)
	if cmd.Dir != "" {
		opened, err := epub.Open(ctx, os.DirFS(cmd.Dir))
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", cmd.Dir, err)
		}
		book = opened
		title = opened.Metadata().Title
	} else {
		lib, err := cmd.libraryFlags.open()
		if err != nil {
			return err
		}
		opened, err := lib.Open(ctx, cmd.BookID)
		if err != nil {
			return err
		}
		book = opened.EPUB
		title = opened.Book.Title
		current = int(opened.Book.Progress)
	}

	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(out, "📖 %s\n", title)
	fmt.Fprintf(out, "📁 Package: %s\n\n", book.PackagePath)

	for _, s := range book.Sections {
		marker := "  "
		if s.Order == current {
			marker = "▶ "
		}
		fmt.Fprintf(out, "%s%3d  %-40s %s\n", marker, s.Order, s.Title, s.Path)
	}

	if cmd.TOC && len(book.TOC) > 0 {
		fmt.Fprintln(out, "\nTable of contents:")
		printTOC(out, book.TOC, 1)
	}
	return nil
}

func printTOC(out io.Writer, nodes []epub.NavNode, depth int) {
	for _, n := range nodes {
		target := n.Target
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(out, "%s%s (%s)\n", strings.Repeat("  ", depth), n.Title, target)
		printTOC(out, n.Children, depth+1)
	}
}
