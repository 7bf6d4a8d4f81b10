package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "watch":
		return runWatch(args[1:])
	case "serve":
		return runServe(args[1:])
	case "lookup":
		return runLookup(args[1:])
	case "history":
		return runHistory(args[1:])
	case "providers":
		return runProviders(args[1:])
	case "health":
		return runHealth(args[1:])
	case "glossary":
		return runGlossary(args[1:])
	case "hash-token":
		return runHashToken(args[1:])
	case "version", "--version":
		return runVersion(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "dynamictranslator CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  dynamictranslator <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  watch       Translate clipboard (or stdin) changes as they happen")
	fmt.Fprintln(os.Stderr, "  serve       Start the HTTP API and translate pushed changes")
	fmt.Fprintln(os.Stderr, "  lookup      Translate one text and print the ranked candidates")
	fmt.Fprintln(os.Stderr, "  history     List recent notifications")
	fmt.Fprintln(os.Stderr, "  providers   List registered providers in lookup order")
	fmt.Fprintln(os.Stderr, "  health      Verify configuration, providers and database")
	fmt.Fprintln(os.Stderr, "  glossary    Manage glossary entries (add, list, import)")
	fmt.Fprintln(os.Stderr, "  hash-token  Print a bcrypt hash for API_TOKEN_HASH")
	fmt.Fprintln(os.Stderr, "  version     Print the build version")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"dynamictranslator <command> -h\" for command-specific flags.")
}
