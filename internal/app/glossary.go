package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/dynamictranslator/internal/cli"
	"horse.fit/dynamictranslator/internal/db"
	"horse.fit/dynamictranslator/internal/payloadschema"
)

type glossaryItem struct {
	EntryUUID  string `json:"entry_uuid"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Term       string `json:"term"`
	Meaning    string `json:"meaning"`
	CreatedAt  string `json:"created_at"`
}

func runGlossary(args []string) int {
	if len(args) == 0 {
		printGlossaryUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printGlossaryUsage()
		return 0
	case "add":
		return runGlossaryAdd(args[1:])
	case "list":
		return runGlossaryList(args[1:])
	case "import":
		return runGlossaryImport(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown glossary command: %s\n\n", args[0])
		printGlossaryUsage()
		return 2
	}
}

func printGlossaryUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  dynamictranslator glossary add --term <text> --meaning <text> [--source <lang>] [--target <lang>]")
	fmt.Fprintln(os.Stderr, "  dynamictranslator glossary list [--target <lang>] [--limit N] [--format table|json]")
	fmt.Fprintln(os.Stderr, "  dynamictranslator glossary import --file <path>")
}

func runGlossaryAdd(args []string) int {
	fs := flag.NewFlagSet("glossary add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	term := fs.String("term", "", "Term to define (required)")
	meaning := fs.String("meaning", "", "Meaning shown for the term (required)")
	source := fs.String("source", "", "Source language code (blank matches any detected language)")
	target := fs.String("target", "", "Target language code (defaults to TARGET_LANGUAGE)")
	timeout := fs.Duration("timeout", 15*time.Second, "Database timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if strings.TrimSpace(*term) == "" || strings.TrimSpace(*meaning) == "" {
		fmt.Fprintln(os.Stderr, "--term and --meaning are required")
		return 2
	}

	cfg, logger, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	targetLang := *target
	if strings.TrimSpace(targetLang) == "" {
		targetLang = cfg.Target()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := connectPool(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer pool.Close()

	if err := pool.UpsertGlossaryEntry(ctx, db.GlossaryEntryInput{
		SourceLang: *source,
		TargetLang: targetLang,
		Term:       *term,
		Meaning:    *meaning,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save glossary entry: %v\n", err)
		return 1
	}
	fmt.Printf("Saved %q.\n", strings.TrimSpace(*term))
	return 0
}

func runGlossaryList(args []string) int {
	fs := flag.NewFlagSet("glossary list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	target := fs.String("target", "", "Only list entries for this target language")
	limit := fs.Int("limit", db.DefaultListLimit, "Maximum entries to list")
	formatRaw := fs.String("format", outputFormatTable, "Output format: table or json")
	timeout := fs.Duration("timeout", 15*time.Second, "Database timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *limit <= 0 {
		fmt.Fprintln(os.Stderr, "--limit must be > 0")
		return 2
	}
	format, err := parseOutputFormat(*formatRaw, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, logger, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := connectPool(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer pool.Close()

	entries, err := pool.ListGlossaryEntries(ctx, *target, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list glossary entries: %v\n", err)
		return 1
	}

	items := make([]glossaryItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, glossaryItem{
			EntryUUID:  entry.EntryUUID,
			SourceLang: entry.SourceLang,
			TargetLang: entry.TargetLang,
			Term:       entry.Term,
			Meaning:    entry.Meaning,
			CreatedAt:  formatUTCTimestamp(entry.CreatedAt),
		})
	}

	if format == outputFormatJSON {
		if err := printJSON(items); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	if len(items) == 0 {
		fmt.Println("No glossary entries.")
		return 0
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.SourceLang,
			item.TargetLang,
			truncateForTable(item.Term, 40),
			truncateForTable(item.Meaning, 60),
		})
	}
	if err := writeTable([]string{"SOURCE", "TARGET", "TERM", "MEANING"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write table: %v\n", err)
		return 1
	}
	return 0
}

func runGlossaryImport(args []string) int {
	fs := flag.NewFlagSet("glossary import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	file := fs.String("file", "", "Path to a JSON glossary document (required)")
	timeout := fs.Duration("timeout", time.Minute, "Database timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if strings.TrimSpace(*file) == "" {
		fmt.Fprintln(os.Stderr, "--file is required")
		return 2
	}

	payload, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", *file, err)
		return 1
	}
	doc, err := payloadschema.ValidateGlossaryImportPayload(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid glossary document: %v\n", err)
		return 1
	}

	cfg, logger, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := connectPool(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer pool.Close()

	entries := make([]db.GlossaryEntryInput, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		entries = append(entries, db.GlossaryEntryInput{
			SourceLang: entry.SourceLang,
			TargetLang: entry.TargetLang,
			Term:       entry.Term,
			Meaning:    entry.Meaning,
		})
	}
	imported, err := pool.ImportGlossaryEntries(ctx, entries)
	if err != nil {
		logger.Error().Err(err).Str("file", *file).Msg("glossary import failed")
		fmt.Fprintf(os.Stderr, "Glossary import failed: %v\n", err)
		return 1
	}
	logger.Info().Str("file", *file).Int("entries", imported).Msg("glossary imported")
	fmt.Printf("Imported %d glossary entries.\n", imported)
	return 0
}
