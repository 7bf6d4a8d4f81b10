package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"horse.fit/dynamictranslator/internal/cli"
	"horse.fit/dynamictranslator/internal/config"
	"horse.fit/dynamictranslator/internal/db"
	"horse.fit/dynamictranslator/internal/finder"
	"horse.fit/dynamictranslator/internal/langdetect"
	"horse.fit/dynamictranslator/internal/logging"
	"horse.fit/dynamictranslator/internal/metrics"
	"horse.fit/dynamictranslator/internal/notify"
	"horse.fit/dynamictranslator/internal/organize"
	"horse.fit/dynamictranslator/internal/resultcache"
	"horse.fit/dynamictranslator/internal/tracking"
	"horse.fit/dynamictranslator/internal/translation"
	"horse.fit/dynamictranslator/internal/version"
)

// runtime is the wired process: one of each collaborator, built once.
type runtime struct {
	cfg      *config.Config
	logger   zerolog.Logger
	pool     *db.Pool
	registry *translation.Registry
	metrics  *metrics.Collector
	gatherer *prometheus.Registry
	tracker  tracking.Tracker
	detector *langdetect.Detector
	finder   *finder.Finder
}

// loadConfig loads the .env file and the environment, then builds the logger.
func loadConfig(envLoader *cli.EnvLoader) (*config.Config, zerolog.Logger, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Logger{}, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

func newRuntime(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*runtime, error) {
	rt := &runtime{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics.NewCollector(),
		detector: langdetect.New(),
	}

	if cfg.HasDatabase() {
		pool, err := db.NewPool(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		rt.pool = pool
	}

	var glossary translation.GlossaryStore
	if rt.pool != nil {
		glossary = rt.pool
	}
	registry, skipped, err := translation.NewRegistryFromConfig(cfg, glossary, translation.NewHTTPClient())
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("failed to register providers: %w", err)
	}
	if len(skipped) > 0 {
		logger.Warn().Strs("providers", skipped).Msg("providers skipped: DATABASE_URL is not set")
	}
	rt.registry = registry

	gatherer, err := metrics.NewRegistry(rt.metrics)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	rt.gatherer = gatherer

	notifiers := notify.Multi{notify.NewLogNotifier(logger)}
	trackers := tracking.Multi{tracking.NewLogTracker(logger)}
	if rt.pool != nil {
		notifiers = append(notifiers, notify.NewStoreNotifier(rt.pool))
		trackers = append(trackers, tracking.NewStoreTracker(rt.pool))
	}
	rt.tracker = trackers

	f, err := finder.New(finder.Deps{
		Detector:  rt.detector,
		Providers: registry,
		Cache: resultcache.New(resultcache.Options{
			Size:           cfg.CacheSize,
			TTL:            cfg.CacheTTL,
			ComputeTimeout: cfg.LookupTimeout,
			Metrics:        rt.metrics,
		}),
		Organizer: organize.New(),
		Notifier:  notifiers,
		Tracker:   trackers,
	}, finder.Options{
		NotificationIcon: cfg.NotificationIcon,
		TargetLanguage:   cfg.Target(),
		ClientID:         cfg.ClientID,
		AppVersion:       version.Version,
		ProviderTimeout:  cfg.ProviderTimeout,
		LookupTimeout:    cfg.LookupTimeout,
		Logger:           logger,
		Metrics:          rt.metrics,
	})
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("failed to build finder: %w", err)
	}
	rt.finder = f
	return rt, nil
}

func (rt *runtime) close() {
	if rt == nil || rt.pool == nil {
		return
	}
	if err := rt.pool.Close(); err != nil {
		rt.logger.Warn().Err(err).Msg("close database")
	}
}

// connectPool opens the database for commands that only read or write rows.
func connectPool(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*db.Pool, error) {
	if !cfg.HasDatabase() {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	pool, err := db.NewPool(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
