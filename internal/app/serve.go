package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/dynamictranslator/internal/cli"
	"horse.fit/dynamictranslator/internal/httpapi"
	"horse.fit/dynamictranslator/internal/tracking"
	"horse.fit/dynamictranslator/internal/version"
)

type serverFlags struct {
	host            *string
	port            *int
	readTimeout     *time.Duration
	writeTimeout    *time.Duration
	shutdownTimeout *time.Duration
}

func addServerFlags(fs *flag.FlagSet) serverFlags {
	return serverFlags{
		host:            fs.String("host", "127.0.0.1", "Host interface to bind"),
		port:            fs.Int("port", 8846, "HTTP port"),
		readTimeout:     fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout"),
		writeTimeout:    fs.Duration("write-timeout", 60*time.Second, "HTTP write timeout"),
		shutdownTimeout: fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout"),
	}
}

func (f serverFlags) validate() error {
	if *f.port <= 0 || *f.port > 65535 {
		return fmt.Errorf("--port must be between 1 and 65535")
	}
	return nil
}

func (rt *runtime) newServer(f serverFlags) *httpapi.Server {
	var history httpapi.HistoryStore
	if rt.pool != nil {
		history = rt.pool
	}
	return httpapi.NewServer(httpapi.Deps{
		Translator: rt.finder,
		Providers:  rt.registry,
		History:    history,
		Gatherer:   rt.gatherer,
	}, rt.logger, httpapi.Options{
		Host:            *f.host,
		Port:            *f.port,
		ReadTimeout:     *f.readTimeout,
		WriteTimeout:    *f.writeTimeout,
		ShutdownTimeout: *f.shutdownTimeout,
		TargetLanguage:  rt.cfg.Target(),
		Version:         version.Version,
		APITokenHash:    rt.cfg.APITokenHash,
	})
}

func (rt *runtime) startHeartbeat(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		tracking.Heartbeat(ctx, rt.tracker, tracking.HeartbeatOptions{
			Interval:   rt.cfg.ScreenTrackInterval,
			AppName:    "DynamicTranslator",
			AppVersion: version.Version,
			ClientID:   rt.cfg.ClientID,
			Logger:     rt.logger,
		})
	}()
	return done
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	server := addServerFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if err := server.validate(); err != nil {
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
		logger.Error().Err(err).Msg("serve failed to start")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.close()

	heartbeatDone := rt.startHeartbeat(ctx)
	rt.detector.Warm()
	err = rt.newServer(server).Start(ctx)
	cancel()
	<-heartbeatDone
	rt.finder.Close()

	if err != nil {
		logger.Error().Err(err).Str("host", *server.host).Int("port", *server.port).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}
	return 0
}
