package langdetect

import (
	"context"
	"errors"
	"testing"

	lingua "github.com/pemistahl/lingua-go"
)

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	detector := New(lingua.English, lingua.Turkish, lingua.German)

	code, err := detector.DetectLanguage(context.Background(), "The weather is lovely today and we are going for a walk")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if code != "en" {
		t.Fatalf("unexpected language: got %q want en", code)
	}

	code, err = detector.DetectLanguage(context.Background(), "Bugün hava çok güzel ve yürüyüşe çıkıyoruz")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if code != "tr" {
		t.Fatalf("unexpected language: got %q want tr", code)
	}
}

func TestDetectLanguage_NoLetters(t *testing.T) {
	t.Parallel()

	detector := New(lingua.English, lingua.Turkish)
	for _, input := range []string{"", "   ", "12345 !!"} {
		if _, err := detector.DetectLanguage(context.Background(), input); !errors.Is(err, ErrNoText) {
			t.Fatalf("expected ErrNoText for %q, got %v", input, err)
		}
	}
}

func TestDetectLanguage_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().DetectLanguage(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
