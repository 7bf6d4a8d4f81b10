package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"

	"horse.fit/dynamictranslator/internal/cli"
	"horse.fit/dynamictranslator/internal/watch"
)

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	stdin := fs.Bool("stdin", false, "Read one change per line from stdin instead of polling the clipboard")
	withHTTP := fs.Bool("http", false, "Also serve the HTTP API")
	server := addServerFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *withHTTP {
		if err := server.validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
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
		logger.Error().Err(err).Msg("watch failed to start")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.close()

	var source watch.Source = &watch.ClipboardSource{
		Interval: cfg.ClipboardPollInterval,
		Logger:   logger,
	}
	if *stdin {
		source = &watch.LineSource{Reader: os.Stdin}
	}

	var (
		wg        sync.WaitGroup
		serverErr error
	)
	if *withHTTP {
		srv := rt.newServer(server)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Start(ctx); err != nil {
				serverErr = err
				cancel()
			}
		}()
	}
	heartbeatDone := rt.startHeartbeat(ctx)
	// Load language models before the first event.
	rt.detector.Warm()

	logger.Info().
		Strs("providers", rt.registry.ProviderNames()).
		Str("target_language", cfg.Target()).
		Bool("stdin", *stdin).
		Msg("watching for changes")

	events, sourceErrs := watch.Pipe(ctx, source)
	runErr := rt.finder.Run(ctx, events)
	sourceErr := <-sourceErrs

	// Stdin ends the watch at EOF; stop the server and heartbeat as well.
	cancel()
	wg.Wait()
	<-heartbeatDone
	rt.finder.Close()

	for _, err := range []error{sourceErr, runErr, serverErr} {
		if err != nil {
			logger.Error().Err(err).Msg("watch failed")
			fmt.Fprintf(os.Stderr, "Watch failed: %v\n", err)
			return 1
		}
	}
	return 0
}
