package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"horse.fit/dynamictranslator/internal/cli"
	"horse.fit/dynamictranslator/internal/translation"
)

type providersOutput struct {
	TargetLanguage string                       `json:"target_language"`
	Providers      []string                     `json:"providers"`
	Skipped        []string                     `json:"skipped,omitempty"`
	Languages      []translation.LanguageOption `json:"languages"`
}

// runProviders lists providers without opening the database, so the
// glossary provider is reported as skipped.
func runProviders(args []string) int {
	fs := flag.NewFlagSet("providers", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	formatRaw := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	format, err := parseOutputFormat(*formatRaw, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg, _, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	registry, skipped, err := translation.NewRegistryFromConfig(cfg, nil, translation.NewHTTPClient())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register providers: %v\n", err)
		return 1
	}
	if !translation.IsKnownLanguage(cfg.Target()) {
		fmt.Fprintf(os.Stderr, "Warning: target language %q has no label entry\n", cfg.Target())
	}

	out := providersOutput{
		TargetLanguage: cfg.Target(),
		Providers:      registry.ProviderNames(),
		Skipped:        skipped,
		Languages:      translation.LanguageOptions(registry),
	}
	if format == outputFormatJSON {
		if err := printJSON(out); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(out.Providers)+len(skipped))
	for i, name := range out.Providers {
		rows = append(rows, []string{strconv.Itoa(i + 1), name, "registered"})
	}
	for _, name := range skipped {
		rows = append(rows, []string{"-", name, "skipped (no DATABASE_URL)"})
	}
	if err := writeTable([]string{"ORDER", "PROVIDER", "STATUS"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write table: %v\n", err)
		return 1
	}

	codes := make([]string, 0, len(out.Languages))
	for _, option := range out.Languages {
		codes = append(codes, option.Code)
	}
	fmt.Printf("\nTarget: %s\nLanguages: %s\n", out.TargetLanguage, strings.Join(codes, ", "))
	return 0
}
