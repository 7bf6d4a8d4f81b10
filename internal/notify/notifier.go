// Package notify delivers the chosen meaning of a watched text.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"horse.fit/dynamictranslator/internal/db"
)

type Notifier interface {
	Notify(ctx context.Context, sourceText, iconRef, message string) error
}

// LogNotifier writes notifications to the log. It is the console "popup".
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: logger.With().Str("component", "notifier").Logger()}
}

func (n *LogNotifier) Notify(_ context.Context, sourceText, iconRef, message string) error {
	event := n.log.Info()
	if message == "" {
		event = n.log.Warn()
	}
	event.
		Str("text", sourceText).
		Str("icon", iconRef).
		Str("meaning", message).
		Msg("notification")
	return nil
}

type NotificationWriter interface {
	InsertNotification(ctx context.Context, in db.NotificationInput) (db.Notification, error)
}

// StoreNotifier keeps a history of notifications in the database.
type StoreNotifier struct {
	store NotificationWriter
}

func NewStoreNotifier(store NotificationWriter) *StoreNotifier {
	return &StoreNotifier{store: store}
}

func (n *StoreNotifier) Notify(ctx context.Context, sourceText, iconRef, message string) error {
	if n == nil || n.store == nil {
		return fmt.Errorf("notification store is not initialized")
	}
	_, err := n.store.InsertNotification(ctx, db.NotificationInput{
		SourceText: sourceText,
		IconRef:    iconRef,
		Message:    message,
	})
	return err
}

// Multi calls every notifier, even after one fails, and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, sourceText, iconRef, message string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, sourceText, iconRef, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
