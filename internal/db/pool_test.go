package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"horse.fit/dynamictranslator/internal/config"
	"horse.fit/dynamictranslator/internal/globaltime"
)

func newTestPool(t *testing.T) *Pool {
	t.Helper()

	cfg := &config.Config{
		Environment: "test",
		LogLevel:    "silent",
		DatabaseURL: "sqlite:" + filepath.Join(t.TempDir(), "dynamictranslator.db"),
		DBMinConns:  1,
		DBMaxConns:  4,
	}
	pool, err := NewPool(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite pool: %v", err)
	}
	t.Cleanup(func() {
		_ = pool.Close()
	})
	return pool
}

func TestNewPool_RejectsUnknownScheme(t *testing.T) {
	t.Parallel()

	_, err := NewPool(context.Background(), &config.Config{DatabaseURL: "mysql://localhost/db", DBMaxConns: 1}, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected unsupported scheme to fail")
	}
}

func TestNotifications_InsertAndList(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	defer globaltime.ResetTime()
	for i, text := range []string{"hello", "bonjour", "hola"} {
		globaltime.SetMockTime(base.Add(time.Duration(i) * time.Minute))
		if _, err := pool.InsertNotification(ctx, NotificationInput{
			SourceText: text,
			IconRef:    " icon.png ",
			Message:    "m-" + text,
		}); err != nil {
			t.Fatalf("insert %q: %v", text, err)
		}
	}

	rows, err := pool.ListNotifications(ctx, 2)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected row count: got %d want 2", len(rows))
	}
	if rows[0].SourceText != "hola" || rows[1].SourceText != "bonjour" {
		t.Fatalf("expected newest first, got %q then %q", rows[0].SourceText, rows[1].SourceText)
	}
	if rows[0].IconRef != "icon.png" || rows[0].Message != "m-hola" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if rows[0].NotificationUUID == "" || rows[0].NotificationUUID == rows[1].NotificationUUID {
		t.Fatalf("expected distinct uuids, got %q and %q", rows[0].NotificationUUID, rows[1].NotificationUUID)
	}
}

func TestUsageEvents_InsertAndCount(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t)
	ctx := context.Background()

	value := "1"
	inputs := []UsageEventInput{
		{Kind: UsageKindEvent, Category: "DynamicTranslator", Action: "Translate", Label: "hello"},
		{Kind: UsageKindEvent, Category: "DynamicTranslator", Action: "Translate", Label: "hola", Value: &value},
		{Kind: UsageKindScreen, AppName: "DynamicTranslator", AppVersion: "dev", ScreenName: "notification"},
	}
	for _, in := range inputs {
		if err := pool.InsertUsageEvent(ctx, in); err != nil {
			t.Fatalf("insert usage event: %v", err)
		}
	}
	if err := pool.InsertUsageEvent(ctx, UsageEventInput{Kind: "page"}); err == nil {
		t.Fatalf("expected unknown kind to fail")
	}

	counts, err := pool.CountUsageEvents(ctx)
	if err != nil {
		t.Fatalf("count usage events: %v", err)
	}
	if counts[UsageKindEvent] != 2 || counts[UsageKindScreen] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestGlossary_UpsertLookupAndList(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t)
	ctx := context.Background()

	if err := pool.UpsertGlossaryEntry(ctx, GlossaryEntryInput{SourceLang: "en", TargetLang: "tr", Term: "Pull  Request", Meaning: "değişiklik isteği"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := pool.UpsertGlossaryEntry(ctx, GlossaryEntryInput{SourceLang: "en", TargetLang: "tr", Term: "pull request", Meaning: "çekme isteği"}); err != nil {
		t.Fatalf("upsert replace: %v", err)
	}
	if err := pool.UpsertGlossaryEntry(ctx, GlossaryEntryInput{TargetLang: "tr", Term: "commit", Meaning: "işleme"}); err != nil {
		t.Fatalf("upsert any-source: %v", err)
	}

	meaning, found, err := pool.LookupGlossaryMeaning(ctx, "en-US", "TR", "PULL REQUEST")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !found || meaning != "çekme isteği" {
		t.Fatalf("unexpected lookup: found=%v meaning=%q", found, meaning)
	}

	meaning, found, err = pool.LookupGlossaryMeaning(ctx, "de", "tr", "Commit")
	if err != nil {
		t.Fatalf("lookup any-source: %v", err)
	}
	if !found || meaning != "işleme" {
		t.Fatalf("expected any-source entry, found=%v meaning=%q", found, meaning)
	}

	if _, found, err := pool.LookupGlossaryMeaning(ctx, "en", "de", "commit"); err != nil || found {
		t.Fatalf("expected miss for other target, found=%v err=%v", found, err)
	}

	entries, err := pool.ListGlossaryEntries(ctx, "tr", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("unexpected entry count: got %d want 2", len(entries))
	}
	if entries[0].TermKey != "commit" || entries[1].TermKey != "pull request" {
		t.Fatalf("unexpected order: %q, %q", entries[0].TermKey, entries[1].TermKey)
	}
}

func TestGlossary_ImportIsAtomic(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t)
	ctx := context.Background()

	_, err := pool.ImportGlossaryEntries(ctx, []GlossaryEntryInput{
		{SourceLang: "en", TargetLang: "tr", Term: "branch", Meaning: "dal"},
		{SourceLang: "en", TargetLang: "tr", Term: "", Meaning: "boş"},
	})
	if err == nil {
		t.Fatalf("expected invalid entry to fail the import")
	}
	if _, found, _ := pool.LookupGlossaryMeaning(ctx, "en", "tr", "branch"); found {
		t.Fatalf("expected failed import to roll back")
	}

	count, err := pool.ImportGlossaryEntries(ctx, []GlossaryEntryInput{
		{SourceLang: "en", TargetLang: "tr", Term: "branch", Meaning: "dal"},
		{SourceLang: "en", TargetLang: "tr", Term: "merge", Meaning: "birleştirme"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if count != 2 {
		t.Fatalf("unexpected import count: got %d want 2", count)
	}
}

func TestGlossaryTermKey(t *testing.T) {
	t.Parallel()

	if got := GlossaryTermKey("  Pull \t Request "); got != "pull request" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestResolveGormLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]gormlogger.LogLevel{
		"debug":  gormlogger.Info,
		"INFO":   gormlogger.Warn,
		"":       gormlogger.Warn,
		"error":  gormlogger.Error,
		"silent": gormlogger.Silent,
	}
	for input, want := range cases {
		if got := resolveGormLogLevel(input); got != want {
			t.Fatalf("resolveGormLogLevel(%q): got %v want %v", input, got, want)
		}
	}
}
