package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"horse.fit/dynamictranslator/internal/globaltime"
)

const (
	UsageKindEvent  = "event"
	UsageKindScreen = "screen"
)

// UsageEventInput is one tracked event or screen view.
type UsageEventInput struct {
	Kind         string
	Category     string
	Action       string
	Label        string
	Value        *string
	AppName      string
	AppVersion   string
	ClientID     string
	AnonClientID string
	ScreenName   string
}

func (p *Pool) InsertUsageEvent(ctx context.Context, in UsageEventInput) error {
	const q = `
INSERT INTO usage_events (
	event_uuid, kind, category, action, label, value,
	app_name, app_version, client_id, anon_client_id, screen_name, created_at
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

	switch in.Kind {
	case UsageKindEvent, UsageKindScreen:
	default:
		return fmt.Errorf("unsupported usage kind %q", in.Kind)
	}

	_, err := p.Exec(ctx, q,
		uuid.NewString(),
		in.Kind,
		in.Category,
		in.Action,
		in.Label,
		in.Value,
		in.AppName,
		in.AppVersion,
		in.ClientID,
		in.AnonClientID,
		in.ScreenName,
		globaltime.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert usage event: %w", err)
	}
	return nil
}

// CountUsageEvents returns the number of stored rows per kind.
func (p *Pool) CountUsageEvents(ctx context.Context) (map[string]int64, error) {
	const q = `
SELECT kind, COUNT(*)
FROM usage_events
GROUP BY kind
`

	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query usage counts: %w", err)
	}
	defer rows.Close()

	out := map[string]int64{
		UsageKindEvent:  0,
		UsageKindScreen: 0,
	}
	for rows.Next() {
		var (
			kind  string
			count int64
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scan usage count row: %w", err)
		}
		out[kind] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage count rows: %w", err)
	}
	return out, nil
}
