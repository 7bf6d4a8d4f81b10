// Package finder reacts to changes of a watched text value: it detects the
// language, looks the text up through every provider (once per distinct text),
// ranks the answers and hands the best one to the notifier and tracker.
package finder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/dynamictranslator/internal/globaltime"
	"horse.fit/dynamictranslator/internal/metrics"
	"horse.fit/dynamictranslator/internal/resultcache"
	"horse.fit/dynamictranslator/internal/translation"
	"horse.fit/dynamictranslator/internal/watch"
)

const (
	trackingCategory   = "DynamicTranslator"
	trackingAction     = "Translate"
	trackingAppName    = "DynamicTranslator"
	trackingScreenName = "notification"

	defaultDispatchTimeout = 10 * time.Second
)

var (
	ErrDetection = errors.New("language detection failed")
	ErrLookup    = errors.New("translation lookup failed")
	ErrOrganize  = errors.New("result organization failed")
)

type Detector interface {
	DetectLanguage(ctx context.Context, text string) (string, error)
}

type ProviderSet interface {
	Providers() []translation.Provider
}

type Cache interface {
	GetOrCompute(ctx context.Context, key string, compute resultcache.ComputeFunc) (translation.ResultSet, error)
}

type Organizer interface {
	Organize(ctx context.Context, results translation.ResultSet, originalText string) ([]string, error)
}

type Notifier interface {
	Notify(ctx context.Context, sourceText, iconRef, message string) error
}

type Tracker interface {
	TrackEvent(ctx context.Context, category, action, label string, value *string) error
	TrackScreen(ctx context.Context, appName, appVersion, clientID, anonClientID, screenName string) error
}

// Deps are the collaborators of a Finder. All of them are required.
type Deps struct {
	Detector  Detector
	Providers ProviderSet
	Cache     Cache
	Organizer Organizer
	Notifier  Notifier
	Tracker   Tracker
}

type Options struct {
	NotificationIcon string
	TargetLanguage   string
	ClientID         string
	AppVersion       string

	// ProviderTimeout bounds each provider call. LookupTimeout bounds steps
	// from detection to organization. Zero disables either bound.
	ProviderTimeout time.Duration
	LookupTimeout   time.Duration
	DispatchTimeout time.Duration

	Logger  zerolog.Logger
	Metrics *metrics.Collector
}

// Finder is the change-event orchestrator. It is safe for concurrent use.
type Finder struct {
	deps Deps
	opts Options
	log  zerolog.Logger

	mu       sync.Mutex
	previous string
	started  bool

	// life guards closed so no task is added once Close starts waiting.
	life   sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func New(deps Deps, opts Options) (*Finder, error) {
	switch {
	case deps.Detector == nil:
		return nil, fmt.Errorf("detector is required")
	case deps.Providers == nil:
		return nil, fmt.Errorf("provider set is required")
	case deps.Cache == nil:
		return nil, fmt.Errorf("result cache is required")
	case deps.Organizer == nil:
		return nil, fmt.Errorf("result organizer is required")
	case deps.Notifier == nil:
		return nil, fmt.Errorf("notifier is required")
	case deps.Tracker == nil:
		return nil, fmt.Errorf("tracker is required")
	}
	if opts.DispatchTimeout <= 0 {
		opts.DispatchTimeout = defaultDispatchTimeout
	}

	return &Finder{
		deps: deps,
		opts: opts,
		log:  opts.Logger.With().Str("component", "finder").Logger(),
	}, nil
}

// OnChange handles text on its own goroutine and returns immediately.
// Changes arriving after Close are dropped.
func (f *Finder) OnChange(text string) {
	f.onChange(context.Background(), text)
}

func (f *Finder) onChange(ctx context.Context, text string) {
	f.life.Lock()
	if f.closed {
		f.life.Unlock()
		f.log.Debug().Int("text_length", len(text)).Msg("change ignored after shutdown")
		return
	}
	f.wg.Add(1)
	f.life.Unlock()

	go func() {
		defer f.wg.Done()
		if _, err := f.Handle(ctx, text); err != nil {
			f.logFailure(err, text)
		}
	}()
}

// Run calls OnChange for every event until ctx is done or events is closed,
// then closes the finder. In-flight lookups are canceled with ctx;
// dispatches that already started are not.
func (f *Finder) Run(ctx context.Context, events <-chan watch.ChangeEvent) error {
	defer f.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			f.log.Debug().
				Str("source", event.Source).
				Int("text_length", len(event.CurrentText)).
				Msg("change event received")
			f.onChange(ctx, event.CurrentText)
		}
	}
}

// Wait blocks until every event task and dispatch has finished.
func (f *Finder) Wait() {
	f.wg.Wait()
}

// Close stops accepting changes and waits for accepted ones to finish.
// It is safe to call more than once.
func (f *Finder) Close() {
	f.life.Lock()
	f.closed = true
	f.life.Unlock()
	f.Wait()
}

// Handle runs the whole pipeline for text. It reports false, with a nil
// error, when text repeats the previously started text. Notification and
// tracking are dispatched asynchronously; use Wait to observe them.
func (f *Finder) Handle(ctx context.Context, text string) (bool, error) {
	if !f.swapPrevious(text) {
		f.opts.Metrics.ObserveEvent(metrics.OutcomeSuppressed)
		return false, nil
	}

	candidates, err := f.Lookup(ctx, text)
	if err != nil {
		f.opts.Metrics.ObserveEvent(outcomeFor(err))
		return true, err
	}

	message := ""
	if len(candidates) > 0 {
		message = candidates[0]
	}
	f.opts.Metrics.ObserveEvent(metrics.OutcomeTranslated)
	f.dispatch(ctx, text, message)
	return true, nil
}

// Lookup detects, fetches through the cache and organizes, without touching
// the previous-text state or dispatching anything.
func (f *Finder) Lookup(ctx context.Context, text string) ([]string, error) {
	if f.opts.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.LookupTimeout)
		defer cancel()
	}
	startedAt := globaltime.Now()

	sourceLang, err := f.deps.Detector.DetectLanguage(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetection, err)
	}

	results, err := f.deps.Cache.GetOrCompute(ctx, text, func(computeCtx context.Context) (translation.ResultSet, error) {
		req := translation.TranslateRequest{
			Text:       text,
			SourceLang: sourceLang,
			TargetLang: f.opts.TargetLanguage,
		}
		results, err := translation.FindAll(computeCtx, f.deps.Providers.Providers(), req, f.opts.ProviderTimeout)
		if err != nil {
			var providerErr *translation.ProviderError
			if errors.As(err, &providerErr) {
				f.opts.Metrics.ObserveProviderFailure(providerErr.Provider)
			}
			return nil, err
		}
		return results, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookup, err)
	}

	candidates, err := f.deps.Organizer.Organize(ctx, results, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOrganize, err)
	}

	f.opts.Metrics.ObserveLookupDuration(globaltime.Now().Sub(startedAt))
	return candidates, nil
}

// swapPrevious records text as the previous text and reports whether it
// differed. The comparison and the write are one step.
func (f *Finder) swapPrevious(text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started && f.previous == text {
		return false
	}
	f.previous = text
	f.started = true
	return true
}

func (f *Finder) dispatch(ctx context.Context, text, message string) {
	base := context.WithoutCancel(ctx)

	f.goDispatch(base, "notifier", func(ctx context.Context) error {
		return f.deps.Notifier.Notify(ctx, text, f.opts.NotificationIcon, message)
	})
	f.goDispatch(base, "tracker_event", func(ctx context.Context) error {
		return f.deps.Tracker.TrackEvent(ctx, trackingCategory, trackingAction, text, nil)
	})
	f.goDispatch(base, "tracker_screen", func(ctx context.Context) error {
		return f.deps.Tracker.TrackScreen(ctx, trackingAppName, f.opts.AppVersion, f.opts.ClientID, f.opts.ClientID, trackingScreenName)
	})
}

func (f *Finder) goDispatch(ctx context.Context, sink string, call func(context.Context) error) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				f.opts.Metrics.ObserveDispatchFailure(sink)
				f.log.Error().Str("sink", sink).Interface("panic", r).Msg("dispatch panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(ctx, f.opts.DispatchTimeout)
		defer cancel()
		if err := call(ctx); err != nil {
			f.opts.Metrics.ObserveDispatchFailure(sink)
			f.log.Error().Err(err).Str("sink", sink).Msg("dispatch failed")
		}
	}()
}

func (f *Finder) logFailure(err error, text string) {
	event := f.log.Warn()
	if errors.Is(err, ErrOrganize) {
		event = f.log.Error()
	}
	event.Err(err).Int("text_length", len(text)).Msg("change event failed")
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrDetection):
		return metrics.OutcomeDetection
	case errors.Is(err, ErrOrganize):
		return metrics.OutcomeOrganize
	default:
		return metrics.OutcomeLookup
	}
}
