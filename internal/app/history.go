package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/dynamictranslator/internal/cli"
	"horse.fit/dynamictranslator/internal/db"
)

type historyItem struct {
	NotificationUUID string `json:"notification_uuid"`
	SourceText       string `json:"source_text"`
	IconRef          string `json:"icon_ref"`
	Message          string `json:"message"`
	CreatedAt        string `json:"created_at"`
}

func runHistory(args []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	limit := fs.Int("limit", db.DefaultListLimit, "Maximum notifications to list")
	formatRaw := fs.String("format", outputFormatTable, "Output format: table or json")
	timeout := fs.Duration("timeout", 15*time.Second, "Query timeout")

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

	rows, err := pool.ListNotifications(ctx, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list notifications: %v\n", err)
		return 1
	}

	items := make([]historyItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, historyItem{
			NotificationUUID: row.NotificationUUID,
			SourceText:       row.SourceText,
			IconRef:          row.IconRef,
			Message:          row.Message,
			CreatedAt:        formatUTCTimestamp(row.CreatedAt),
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
		fmt.Println("No notifications.")
		return 0
	}
	table := make([][]string, 0, len(items))
	for _, item := range items {
		table = append(table, []string{
			item.CreatedAt,
			truncateForTable(item.SourceText, 40),
			truncateForTable(item.Message, 60),
		})
	}
	if err := writeTable([]string{"CREATED_AT", "TEXT", "TRANSLATION"}, table); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write table: %v\n", err)
		return 1
	}
	return 0
}
