package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/lexreader/internal/cli"
	"github.com/mrlokans/lexreader/internal/config"
	"github.com/mrlokans/lexreader/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "import-book":
		cmd = cli.NewImportBookCommand()
	case "sections":
		cmd = cli.NewSectionsCommand()
	case "read":
		cmd = cli.NewReadCommand()
	case "import-dictionary":
		cmd = cli.NewImportDictionaryCommand()
	case "lookup":
		cmd = cli.NewLookupCommand()
	case "version":
		fmt.Printf("lexreader %s (%s)\n", Version, Commit)
		return
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve               Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  import-book         Extract .epub files into the library\n")
	fmt.Fprintf(os.Stderr, "  sections            List a book's sections in reading order\n")
	fmt.Fprintf(os.Stderr, "  read                Print a section and save the reading position\n")
	fmt.Fprintf(os.Stderr, "  import-dictionary   Import a term bank archive into the dictionary\n")
	fmt.Fprintf(os.Stderr, "  lookup              Look up a word by written form or reading\n")
	fmt.Fprintf(os.Stderr, "  version             Print the version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
