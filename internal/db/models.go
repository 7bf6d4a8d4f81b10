package db

import "time"

// Notification maps notifications: one row per delivered notification.
type Notification struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	NotificationUUID string    `gorm:"column:notification_uuid;size:36;not null;uniqueIndex"`
	SourceText       string    `gorm:"column:source_text;type:text;not null"`
	IconRef          string    `gorm:"column:icon_ref;type:text;not null;default:''"`
	Message          string    `gorm:"column:message;type:text;not null;default:''"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;index"`
}

func (Notification) TableName() string { return "notifications" }

// UsageEvent maps usage_events. Kind is "event" or "screen"; the columns of
// the other kind stay empty.
type UsageEvent struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EventUUID    string    `gorm:"column:event_uuid;size:36;not null;uniqueIndex"`
	Kind         string    `gorm:"column:kind;size:16;not null;index"`
	Category     string    `gorm:"column:category;type:text;not null;default:''"`
	Action       string    `gorm:"column:action;type:text;not null;default:''"`
	Label        string    `gorm:"column:label;type:text;not null;default:''"`
	Value        *string   `gorm:"column:value;type:text"`
	AppName      string    `gorm:"column:app_name;type:text;not null;default:''"`
	AppVersion   string    `gorm:"column:app_version;type:text;not null;default:''"`
	ClientID     string    `gorm:"column:client_id;type:text;not null;default:''"`
	AnonClientID string    `gorm:"column:anon_client_id;type:text;not null;default:''"`
	ScreenName   string    `gorm:"column:screen_name;type:text;not null;default:''"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
}

func (UsageEvent) TableName() string { return "usage_events" }

// GlossaryEntry maps glossary_entries. TermKey is the case-folded term used for lookups.
type GlossaryEntry struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EntryUUID  string    `gorm:"column:entry_uuid;size:36;not null;uniqueIndex"`
	SourceLang string    `gorm:"column:source_lang;size:16;not null;uniqueIndex:idx_glossary_entries_key,priority:1"`
	TargetLang string    `gorm:"column:target_lang;size:16;not null;uniqueIndex:idx_glossary_entries_key,priority:2"`
	Term       string    `gorm:"column:term;type:text;not null"`
	TermKey    string    `gorm:"column:term_key;size:512;not null;uniqueIndex:idx_glossary_entries_key,priority:3"`
	Meaning    string    `gorm:"column:meaning;type:text;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
}

func (GlossaryEntry) TableName() string { return "glossary_entries" }

func autoMigrateModels() []any {
	return []any{
		&Notification{},
		&UsageEvent{},
		&GlossaryEntry{},
	}
}
