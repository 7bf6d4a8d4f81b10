package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/dynamictranslator/internal/cli"
	"horse.fit/dynamictranslator/internal/translation"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Database ping timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, logger, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("config: ok (environment=%s target=%s)\n", cfg.Environment, cfg.Target())

	registry, skipped, err := translation.NewRegistryFromConfig(cfg, nil, translation.NewHTTPClient())
	if err != nil {
		fmt.Fprintf(os.Stderr, "providers: %v\n", err)
		return 1
	}
	fmt.Printf("providers: ok (%d registered, %d skipped)\n", registry.Len(), len(skipped))

	if !cfg.HasDatabase() {
		fmt.Println("database: disabled")
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := connectPool(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("health check failed")
		fmt.Fprintf(os.Stderr, "database: %v\n", err)
		return 1
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("health check failed")
		fmt.Fprintf(os.Stderr, "database: %v\n", err)
		return 1
	}
	fmt.Println("database: ok")
	return 0
}
