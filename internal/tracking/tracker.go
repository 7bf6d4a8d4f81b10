// Package tracking records that translations happened.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/dynamictranslator/internal/db"
)

// MainWindowScreen is the screen name reported by the heartbeat.
const MainWindowScreen = "MainWindow"

type Tracker interface {
	TrackEvent(ctx context.Context, category, action, label string, value *string) error
	TrackScreen(ctx context.Context, appName, appVersion, clientID, anonClientID, screenName string) error
}

type LogTracker struct {
	log zerolog.Logger
}

func NewLogTracker(logger zerolog.Logger) *LogTracker {
	return &LogTracker{log: logger.With().Str("component", "tracker").Logger()}
}

func (t *LogTracker) TrackEvent(_ context.Context, category, action, label string, value *string) error {
	event := t.log.Debug().
		Str("category", category).
		Str("action", action).
		Int("label_length", len(label))
	if value != nil {
		event = event.Str("value", *value)
	}
	event.Msg("usage event")
	return nil
}

func (t *LogTracker) TrackScreen(_ context.Context, appName, appVersion, clientID, _ string, screenName string) error {
	t.log.Debug().
		Str("app", appName).
		Str("version", appVersion).
		Str("client_id", clientID).
		Str("screen", screenName).
		Msg("screen view")
	return nil
}

type UsageWriter interface {
	InsertUsageEvent(ctx context.Context, in db.UsageEventInput) error
}

// StoreTracker persists usage rows.
type StoreTracker struct {
	store UsageWriter
}

func NewStoreTracker(store UsageWriter) *StoreTracker {
	return &StoreTracker{store: store}
}

func (t *StoreTracker) TrackEvent(ctx context.Context, category, action, label string, value *string) error {
	if t == nil || t.store == nil {
		return fmt.Errorf("usage store is not initialized")
	}
	return t.store.InsertUsageEvent(ctx, db.UsageEventInput{
		Kind:     db.UsageKindEvent,
		Category: category,
		Action:   action,
		Label:    label,
		Value:    value,
	})
}

func (t *StoreTracker) TrackScreen(ctx context.Context, appName, appVersion, clientID, anonClientID, screenName string) error {
	if t == nil || t.store == nil {
		return fmt.Errorf("usage store is not initialized")
	}
	return t.store.InsertUsageEvent(ctx, db.UsageEventInput{
		Kind:         db.UsageKindScreen,
		AppName:      appName,
		AppVersion:   appVersion,
		ClientID:     clientID,
		AnonClientID: anonClientID,
		ScreenName:   screenName,
	})
}

// Multi forwards to every tracker and joins their errors.
type Multi []Tracker

func (m Multi) TrackEvent(ctx context.Context, category, action, label string, value *string) error {
	var errs []error
	for _, t := range m {
		if t == nil {
			continue
		}
		if err := t.TrackEvent(ctx, category, action, label, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) TrackScreen(ctx context.Context, appName, appVersion, clientID, anonClientID, screenName string) error {
	var errs []error
	for _, t := range m {
		if t == nil {
			continue
		}
		if err := t.TrackScreen(ctx, appName, appVersion, clientID, anonClientID, screenName); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HeartbeatOptions describe the application reported by Heartbeat.
type HeartbeatOptions struct {
	Interval   time.Duration
	AppName    string
	AppVersion string
	ClientID   string
	Logger     zerolog.Logger
}

// Heartbeat reports a MainWindow screen view once immediately and then every
// Interval until ctx is done. A non-positive Interval returns at once.
func Heartbeat(ctx context.Context, tracker Tracker, opts HeartbeatOptions) {
	if tracker == nil || opts.Interval <= 0 {
		return
	}
	log := opts.Logger.With().Str("component", "heartbeat").Logger()

	send := func() {
		if err := tracker.TrackScreen(ctx, opts.AppName, opts.AppVersion, opts.ClientID, opts.ClientID, MainWindowScreen); err != nil {
			log.Error().Err(err).Msg("track main window screen failed")
		}
	}

	send()
	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			send()
		}
	}
}
