package translation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type stubProvider struct {
	name  string
	calls atomic.Int32
	delay time.Duration
	resp  TranslateResult
	err   error
}

func (p *stubProvider) Find(ctx context.Context, _ TranslateRequest) (TranslateResult, error) {
	p.calls.Add(1)
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return TranslateResult{}, ctx.Err()
		}
	}
	if p.err != nil {
		return TranslateResult{}, p.err
	}
	return p.resp, nil
}

func (p *stubProvider) Name() string {
	return p.name
}

func (p *stubProvider) SupportedLanguages() []string {
	return []string{"en", "tr"}
}

func TestFindAll_PreservesRegistrationOrder(t *testing.T) {
	t.Parallel()

	providers := []Provider{
		&stubProvider{name: "slow", delay: 30 * time.Millisecond, resp: Success("first")},
		&stubProvider{name: "failed", resp: Failure()},
		&stubProvider{name: "fast", resp: Success("third")},
	}

	for i := 0; i < 5; i++ {
		results, err := FindAll(context.Background(), providers, TranslateRequest{Text: "hello", SourceLang: "en", TargetLang: "tr"}, 0)
		if err != nil {
			t.Fatalf("find all: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("unexpected result count: got %d want 3", len(results))
		}
		if msg, _ := results[0].Text(); msg != "first" {
			t.Fatalf("unexpected slot 0: %+v", results[0])
		}
		if results[1].IsSuccess {
			t.Fatalf("expected slot 1 to be a failure, got %+v", results[1])
		}
		if msg, _ := results[2].Text(); msg != "third" {
			t.Fatalf("unexpected slot 2: %+v", results[2])
		}
	}
}

func TestFindAll_ProviderErrorFailsFanOut(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	providers := []Provider{
		&stubProvider{name: "a", resp: Success("x")},
		&stubProvider{name: "b", err: boom},
		&stubProvider{name: "c", resp: Success("y")},
	}

	results, err := FindAll(context.Background(), providers, TranslateRequest{Text: "bonjour"}, 0)
	if err == nil {
		t.Fatalf("expected fan-out to fail")
	}
	if results != nil {
		t.Fatalf("did not expect partial results, got %+v", results)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) || providerErr.Provider != "b" {
		t.Fatalf("expected ProviderError for b, got %v", err)
	}
}

func TestFindAll_TimeoutCountsAsFailure(t *testing.T) {
	t.Parallel()

	providers := []Provider{
		&stubProvider{name: "stuck", delay: time.Second, resp: Success("late")},
	}

	_, err := FindAll(context.Background(), providers, TranslateRequest{Text: "hello"}, 20*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestFindAll_NoProviders(t *testing.T) {
	t.Parallel()

	if _, err := FindAll(context.Background(), nil, TranslateRequest{Text: "hello"}, 0); !errors.Is(err, ErrNoProviders) {
		t.Fatalf("expected ErrNoProviders, got %v", err)
	}
}
