package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"horse.fit/dynamictranslator/internal/globaltime"
	"horse.fit/dynamictranslator/internal/language"
)

// AnySourceLang marks a glossary entry that applies whatever language was detected.
const AnySourceLang = "und"

// GlossaryEntryInput is one user-curated meaning.
type GlossaryEntryInput struct {
	SourceLang string
	TargetLang string
	Term       string
	Meaning    string
}

// GlossaryTermKey folds case and collapses whitespace so lookups match regardless of spelling.
func GlossaryTermKey(term string) string {
	return cases.Fold().String(strings.Join(strings.Fields(term), " "))
}

func normalizeGlossaryInput(in GlossaryEntryInput) (GlossaryEntryInput, string, error) {
	in.SourceLang = language.NormalizeCode(in.SourceLang)
	if in.SourceLang == "" {
		in.SourceLang = AnySourceLang
	}
	in.TargetLang = language.NormalizeCode(in.TargetLang)
	if in.TargetLang == "" {
		return GlossaryEntryInput{}, "", fmt.Errorf("glossary target language is required")
	}
	in.Term = strings.TrimSpace(in.Term)
	in.Meaning = strings.TrimSpace(in.Meaning)
	key := GlossaryTermKey(in.Term)
	if key == "" {
		return GlossaryEntryInput{}, "", fmt.Errorf("glossary term is required")
	}
	if in.Meaning == "" {
		return GlossaryEntryInput{}, "", fmt.Errorf("glossary meaning is required")
	}
	return in, key, nil
}

// UpsertGlossaryEntry inserts an entry or replaces the meaning of the entry
// with the same languages and term key.
func (p *Pool) UpsertGlossaryEntry(ctx context.Context, in GlossaryEntryInput) error {
	return upsertGlossaryEntry(ctx, p.Conn, in)
}

// ImportGlossaryEntries upserts all entries in one transaction.
func (p *Pool) ImportGlossaryEntries(ctx context.Context, entries []GlossaryEntryInput) (int, error) {
	err := p.Transaction(ctx, func(tx Conn) error {
		for i, entry := range entries {
			if err := upsertGlossaryEntry(ctx, tx, entry); err != nil {
				return fmt.Errorf("entry %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import glossary: %w", err)
	}
	return len(entries), nil
}

func upsertGlossaryEntry(ctx context.Context, db Conn, in GlossaryEntryInput) error {
	const q = `
INSERT INTO glossary_entries (entry_uuid, source_lang, target_lang, term, term_key, meaning, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (source_lang, target_lang, term_key)
DO UPDATE SET term = excluded.term, meaning = excluded.meaning
`

	in, key, err := normalizeGlossaryInput(in)
	if err != nil {
		return err
	}
	if _, err := db.Exec(ctx, q, uuid.NewString(), in.SourceLang, in.TargetLang, in.Term, key, in.Meaning, globaltime.UTC()); err != nil {
		return fmt.Errorf("upsert glossary entry: %w", err)
	}
	return nil
}

// LookupGlossaryMeaning prefers an entry for sourceLang over one for any source language.
func (p *Pool) LookupGlossaryMeaning(ctx context.Context, sourceLang, targetLang, term string) (string, bool, error) {
	const q = `
SELECT meaning
FROM glossary_entries
WHERE target_lang = ?
  AND term_key = ?
  AND source_lang IN (?, ?)
ORDER BY CASE WHEN source_lang = ? THEN 0 ELSE 1 END
LIMIT 1
`

	source := language.NormalizeCode(sourceLang)
	if source == "" {
		source = AnySourceLang
	}
	var meaning string
	err := p.QueryRow(ctx, q, language.NormalizeCode(targetLang), GlossaryTermKey(term), source, AnySourceLang, source).Scan(&meaning)
	if err != nil {
		if IsNoRows(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query glossary meaning: %w", err)
	}
	return meaning, true, nil
}

// ListGlossaryEntries lists entries for targetLang (all targets when blank), ordered by term.
func (p *Pool) ListGlossaryEntries(ctx context.Context, targetLang string, limit int) ([]GlossaryEntry, error) {
	const q = `
SELECT id, entry_uuid, source_lang, target_lang, term, term_key, meaning, created_at
FROM glossary_entries
WHERE (? = '' OR target_lang = ?)
ORDER BY term_key ASC, source_lang ASC
LIMIT ?
`

	target := language.NormalizeCode(targetLang)
	rows, err := p.Query(ctx, q, target, target, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query glossary entries: %w", err)
	}
	defer rows.Close()

	out := make([]GlossaryEntry, 0)
	for rows.Next() {
		var row GlossaryEntry
		if err := rows.Scan(
			&row.ID,
			&row.EntryUUID,
			&row.SourceLang,
			&row.TargetLang,
			&row.Term,
			&row.TermKey,
			&row.Meaning,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan glossary row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate glossary rows: %w", err)
	}
	return out, nil
}
