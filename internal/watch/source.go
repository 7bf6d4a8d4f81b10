// Package watch produces change events for the finder from the system
// clipboard or from a line-oriented reader.
package watch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"horse.fit/dynamictranslator/internal/globaltime"
)

const (
	SourceClipboard = "clipboard"
	SourceLines     = "lines"
	SourceHTTP      = "http"

	DefaultPollInterval = 500 * time.Millisecond
)

var ErrClipboardUnsupported = errors.New("clipboard is not supported on this system")

// ChangeEvent carries the new value of the watched text.
type ChangeEvent struct {
	CurrentText string
	At          time.Time
	Source      string
}

func NewChangeEvent(source, text string) ChangeEvent {
	return ChangeEvent{CurrentText: text, At: globaltime.UTC(), Source: source}
}

// Source writes change events to out until it is exhausted or ctx is done.
type Source interface {
	Run(ctx context.Context, out chan<- ChangeEvent) error
}

// ClipboardSource polls the clipboard and emits an event whenever its text
// differs from the last value seen. The value present at start is not emitted.
type ClipboardSource struct {
	Interval time.Duration
	Logger   zerolog.Logger

	// ReadText defaults to clipboard.ReadAll.
	ReadText func() (string, error)
}

// Run polls until ctx is done. Read errors are logged and polling continues.
func (s *ClipboardSource) Run(ctx context.Context, out chan<- ChangeEvent) error {
	read := s.ReadText
	if read == nil {
		if clipboard.Unsupported {
			return ErrClipboardUnsupported
		}
		read = clipboard.ReadAll
	}
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	log := s.Logger.With().Str("component", "clipboard_source").Logger()

	last, err := read()
	if err != nil {
		log.Warn().Err(err).Msg("initial clipboard read failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		current, err := read()
		if err != nil {
			log.Warn().Err(err).Msg("clipboard read failed")
			continue
		}
		if current == last {
			continue
		}
		last = current
		if strings.TrimSpace(current) == "" {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case out <- NewChangeEvent(SourceClipboard, current):
		}
	}
}

// LineSource emits one event per non-blank line read from Reader.
type LineSource struct {
	Reader io.Reader
	Source string
}

// Run returns nil at end of input or when ctx is done.
func (s *LineSource) Run(ctx context.Context, out chan<- ChangeEvent) error {
	if s.Reader == nil {
		return fmt.Errorf("line source reader is nil")
	}
	source := s.Source
	if source == "" {
		source = SourceLines
	}

	scanner := bufio.NewScanner(s.Reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case out <- NewChangeEvent(source, line):
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read lines: %w", err)
	}
	return nil
}

// Pipe runs source on its own goroutine and returns its events. The channel
// is closed when the source stops; the source's error is sent on errs.
func Pipe(ctx context.Context, source Source) (<-chan ChangeEvent, <-chan error) {
	events := make(chan ChangeEvent)
	errs := make(chan error, 1)
	go func() {
		defer close(events)
		errs <- source.Run(ctx, events)
		close(errs)
	}()
	return events, errs
}
