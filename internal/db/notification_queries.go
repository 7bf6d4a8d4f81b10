package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"horse.fit/dynamictranslator/internal/globaltime"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// NotificationInput is one notification to persist.
type NotificationInput struct {
	SourceText string
	IconRef    string
	Message    string
}

func (p *Pool) InsertNotification(ctx context.Context, in NotificationInput) (Notification, error) {
	const q = `
INSERT INTO notifications (notification_uuid, source_text, icon_ref, message, created_at)
VALUES (?, ?, ?, ?, ?)
`

	row := Notification{
		NotificationUUID: uuid.NewString(),
		SourceText:       in.SourceText,
		IconRef:          strings.TrimSpace(in.IconRef),
		Message:          in.Message,
		CreatedAt:        globaltime.UTC(),
	}
	if _, err := p.Exec(ctx, q, row.NotificationUUID, row.SourceText, row.IconRef, row.Message, row.CreatedAt); err != nil {
		return Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return row, nil
}

// ListNotifications returns the newest notifications first.
func (p *Pool) ListNotifications(ctx context.Context, limit int) ([]Notification, error) {
	const q = `
SELECT id, notification_uuid, source_text, icon_ref, message, created_at
FROM notifications
ORDER BY created_at DESC, id DESC
LIMIT ?
`

	rows, err := p.Query(ctx, q, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		var row Notification
		if err := rows.Scan(
			&row.ID,
			&row.NotificationUUID,
			&row.SourceText,
			&row.IconRef,
			&row.Message,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
