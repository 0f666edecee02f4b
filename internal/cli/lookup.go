package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/lexreader/internal/dictionary"
)

// ErrNoMatch is returned by LookupCommand when the token is not in the
// dictionary.
var ErrNoMatch = errors.New("no definition found")

// LookupCommand prints the definitions of a word or reading.
type LookupCommand struct {
	output
	dictionaryFlags
	All   bool
	Token string
}

func NewLookupCommand() *LookupCommand {
	return &LookupCommand{}
}

// ParseFlags parses command line flags
func (cmd *LookupCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	cmd.dictionaryFlags.register(fs)
	fs.BoolVar(&cmd.All, "all", false, "Print every definition instead of the first")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s lookup [options] <word>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Look up a word by its written form or reading.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("exactly one word is required")
	}
	cmd.Token = fs.Arg(0)
	return nil
}

// Run executes the command
func (cmd *LookupCommand) Run() error {
	out := cmd.w()

	db, err := cmd.dictionaryFlags.open()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	index := dictionary.NewIndex(db.DB)

	var matches []dictionary.Match
	if cmd.All {
		matches, err = index.LookupAll(ctx, cmd.Token)
	} else {
		var (
			m     dictionary.Match
			found bool
		)
		m, found, err = index.Lookup(ctx, cmd.Token)
		if found {
			matches = []dictionary.Match{m}
		}
	}
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintf(out, "🔍 %s: no definition found\n", cmd.Token)
		return ErrNoMatch
	}

	for _, m := range matches {
		head := m.Word
		if m.Reading != "" && m.Reading != m.Word {
			head += " [" + m.Reading + "]"
		}
		if m.PartOfSpeech != "" {
			head += " (" + m.PartOfSpeech + ")"
		}
		fmt.Fprintf(out, "%s\n    %s\n", head, m.Definition)
	}
	return nil
}
