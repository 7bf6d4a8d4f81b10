package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"horse.fit/dynamictranslator/internal/cli"
)

type lookupOutput struct {
	Text           string   `json:"text"`
	TargetLanguage string   `json:"target_language"`
	Candidates     []string `json:"candidates"`
	Message        string   `json:"message"`
}

func runLookup(args []string) int {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	formatRaw := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: dynamictranslator lookup [flags] <text>")
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

	ctx, cancel := signalContext()
	defer cancel()

	rt, err := newRuntime(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.close()

	candidates, err := rt.finder.Lookup(ctx, text)
	if err != nil {
		logger.Error().Err(err).Msg("lookup failed")
		fmt.Fprintf(os.Stderr, "Lookup failed: %v\n", err)
		return 1
	}

	out := lookupOutput{
		Text:           text,
		TargetLanguage: cfg.Target(),
		Candidates:     candidates,
		Message:        strings.Join(candidates, "\n"),
	}
	if format == outputFormatJSON {
		if err := printJSON(out); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	if len(candidates) == 0 {
		fmt.Println("No translations found.")
		return 0
	}
	rows := make([][]string, 0, len(candidates))
	for i, candidate := range candidates {
		rows = append(rows, []string{strconv.Itoa(i + 1), truncateForTable(candidate, 100)})
	}
	if err := writeTable([]string{"RANK", "TRANSLATION"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write table: %v\n", err)
		return 1
	}
	return 0
}
