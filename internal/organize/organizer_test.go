package organize

import (
	"context"
	"reflect"
	"testing"

	"horse.fit/dynamictranslator/internal/translation"
)

func TestOrganize_DegenerateInput(t *testing.T) {
	t.Parallel()

	organizer := New()
	for name, input := range map[string]translation.ResultSet{
		"nil":         nil,
		"empty":       {},
		"all failed":  {translation.Failure()},
		"no message":  {translation.NewTranslateResult()},
		"failed text": {translation.FailureWithMessage("no meaning found")},
		"blank":       {translation.Success("  \t ")},
	} {
		got, err := organizer.Organize(context.Background(), input, "x")
		if err != nil {
			t.Fatalf("%s: organize: %v", name, err)
		}
		if len(got) != 0 {
			t.Fatalf("%s: expected empty result, got %#v", name, got)
		}
	}
}

func TestOrganize_DedupesCandidates(t *testing.T) {
	t.Parallel()

	results := translation.ResultSet{
		translation.Success("merhaba"),
		translation.Failure(),
		translation.Success("merhaba"),
	}
	got, err := New().Organize(context.Background(), results, "hello")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"merhaba"}) {
		t.Fatalf("unexpected candidates: %#v", got)
	}
}

func TestOrganize_RanksByAgreementThenOrder(t *testing.T) {
	t.Parallel()

	results := translation.ResultSet{
		translation.Success("selam"),
		translation.Success("Merhaba"),
		translation.Success("iyi günler"),
		translation.Success("  merhaba "),
		translation.Success("Iyi   günler"),
		translation.Success("merhaba"),
	}
	got, err := New().Organize(context.Background(), results, "hello")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	want := []string{"Merhaba", "iyi günler", "selam"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected ranking: got %#v want %#v", got, want)
	}
}

func TestOrganize_DropsEchoOfOriginalText(t *testing.T) {
	t.Parallel()

	results := translation.ResultSet{
		translation.Success("Hello"),
		translation.Success("merhaba"),
	}
	got, err := New().Organize(context.Background(), results, "hello")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"merhaba"}) {
		t.Fatalf("unexpected candidates: %#v", got)
	}
}

func TestOrganize_NormalizesComposition(t *testing.T) {
	t.Parallel()

	// \u00fc precomposed and as u + combining diaeresis.
	results := translation.ResultSet{
		translation.Success("g\u00fcnayd\u0131n"),
		translation.Success("gu\u0308nayd\u0131n"),
	}
	got, err := New().Organize(context.Background(), results, "good morning")
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"g\u00fcnayd\u0131n"}) {
		t.Fatalf("unexpected candidates: %#v", got)
	}
}

func TestOrganize_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	results := translation.ResultSet{
		translation.Success("  merhaba  "),
		translation.Failure(),
	}
	before := results.Clone()
	if _, err := New().Organize(context.Background(), results, "hello"); err != nil {
		t.Fatalf("organize: %v", err)
	}
	if !reflect.DeepEqual(results, before) {
		t.Fatalf("input was modified: got %#v want %#v", results, before)
	}
}
