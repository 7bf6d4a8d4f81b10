// Package organize reduces a provider result set to a ranked list of
// distinct candidate strings.
package organize

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"horse.fit/dynamictranslator/internal/translation"
)

// Organizer ranks candidates by how many providers agree on them. Ties keep
// the order in which the candidate first appeared in the result set.
type Organizer struct{}

func New() *Organizer {
	return &Organizer{}
}

type candidate struct {
	text  string
	votes int
	first int
}

// Organize never fails on empty or all-failed input and does not modify results.
// Candidates that merely echo originalText are dropped.
func (o *Organizer) Organize(ctx context.Context, results translation.ResultSet, originalText string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// cases.Caser carries state and is not safe for concurrent use.
	fold := cases.Fold()
	echo := fold.String(normalizeMessage(originalText))

	byKey := make(map[string]*candidate, len(results))
	ordered := make([]*candidate, 0, len(results))
	for _, result := range results {
		message, ok := result.Text()
		if !result.IsSuccess || !ok {
			continue
		}
		text := normalizeMessage(message)
		if text == "" {
			continue
		}

		key := fold.String(text)
		if key == echo {
			continue
		}
		if existing, found := byKey[key]; found {
			existing.votes++
			continue
		}
		c := &candidate{text: text, votes: 1, first: len(ordered)}
		byKey[key] = c
		ordered = append(ordered, c)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].votes != ordered[j].votes {
			return ordered[i].votes > ordered[j].votes
		}
		return ordered[i].first < ordered[j].first
	})

	out := make([]string, 0, len(ordered))
	for _, c := range ordered {
		out = append(out, c.text)
	}
	return out, nil
}

// normalizeMessage applies NFC and collapses runs of whitespace to one space.
func normalizeMessage(value string) string {
	value = norm.NFC.String(value)
	return strings.Join(strings.FieldsFunc(value, unicode.IsSpace), " ")
}
