package resultcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"horse.fit/dynamictranslator/internal/translation"
)

func TestGetOrCompute_MissThenHit(t *testing.T) {
	t.Parallel()

	cache := New(Options{})
	var calls atomic.Int32
	compute := func(context.Context) (translation.ResultSet, error) {
		calls.Add(1)
		return translation.ResultSet{translation.Success("merhaba")}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := cache.GetOrCompute(context.Background(), "hello", compute)
		if err != nil {
			t.Fatalf("get or compute: %v", err)
		}
		if msg, _ := got[0].Text(); msg != "merhaba" {
			t.Fatalf("unexpected value: %+v", got)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("unexpected compute count: got %d want 1", calls.Load())
	}
}

func TestGetOrCompute_KeysAreExact(t *testing.T) {
	t.Parallel()

	cache := New(Options{})
	var calls atomic.Int32
	compute := func(context.Context) (translation.ResultSet, error) {
		calls.Add(1)
		return translation.ResultSet{translation.Success("x")}, nil
	}

	for _, key := range []string{"Hello", "hello", "hello "} {
		if _, err := cache.GetOrCompute(context.Background(), key, compute); err != nil {
			t.Fatalf("get or compute %q: %v", key, err)
		}
	}
	if calls.Load() != 3 {
		t.Fatalf("expected one compute per distinct key, got %d", calls.Load())
	}
}

func TestGetOrCompute_SingleFlight(t *testing.T) {
	t.Parallel()

	cache := New(Options{})
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	compute := func(context.Context) (translation.ResultSet, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return translation.ResultSet{translation.Success("merhaba"), translation.Failure()}, nil
	}

	const waiters = 8
	results := make([]translation.ResultSet, waiters)
	errs := make([]error, waiters)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = cache.GetOrCompute(context.Background(), "hello", compute)
	}()
	<-started
	for i := 1; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.GetOrCompute(context.Background(), "hello", compute)
		}(i)
	}

	// Give the late callers time to attach to the running flight.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("unexpected compute count: got %d want 1", calls.Load())
	}
	for i := 0; i < waiters; i++ {
		if errs[i] != nil {
			t.Fatalf("waiter %d: %v", i, errs[i])
		}
		if len(results[i]) != 2 {
			t.Fatalf("waiter %d got unexpected result: %+v", i, results[i])
		}
		if msg, _ := results[i][0].Text(); msg != "merhaba" {
			t.Fatalf("waiter %d got unexpected message: %q", i, msg)
		}
	}
}

func TestGetOrCompute_FailureSharedAndNotStored(t *testing.T) {
	t.Parallel()

	cache := New(Options{})
	boom := errors.New("provider b failed")
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	failing := func(context.Context) (translation.ResultSet, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return nil, boom
	}

	var wg sync.WaitGroup
	errs := make([]error, 3)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = cache.GetOrCompute(context.Background(), "bonjour", failing)
	}()
	<-started
	for i := 1; i < len(errs); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cache.GetOrCompute(context.Background(), "bonjour", failing)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, boom) {
			t.Fatalf("waiter %d: expected shared failure, got %v", i, err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("unexpected compute count: got %d want 1", calls.Load())
	}
	if _, ok := cache.Peek("bonjour"); ok {
		t.Fatalf("did not expect failed computation to be stored")
	}

	got, err := cache.GetOrCompute(context.Background(), "bonjour", func(context.Context) (translation.ResultSet, error) {
		calls.Add(1)
		return translation.ResultSet{translation.Success("hello")}, nil
	})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if calls.Load() != 2 || len(got) != 1 {
		t.Fatalf("expected retry to recompute, calls=%d got=%+v", calls.Load(), got)
	}
}

func TestGetOrCompute_CanceledWaiterDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	cache := New(Options{})
	release := make(chan struct{})
	started := make(chan struct{})
	compute := func(ctx context.Context) (translation.ResultSet, error) {
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return translation.ResultSet{translation.Success("merhaba")}, nil
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.GetOrCompute(firstCtx, "hello", compute)
		firstErr <- err
	}()
	<-started

	secondDone := make(chan error, 1)
	go func() {
		_, err := cache.GetOrCompute(context.Background(), "hello", compute)
		secondDone <- err
	}()

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected first waiter to be canceled, got %v", err)
	}

	close(release)
	if err := <-secondDone; err != nil {
		t.Fatalf("second waiter: %v", err)
	}
	if _, ok := cache.Peek("hello"); !ok {
		t.Fatalf("expected computation to be stored")
	}
}

func TestGetOrCompute_ReturnsCopies(t *testing.T) {
	t.Parallel()

	cache := New(Options{})
	got, err := cache.GetOrCompute(context.Background(), "hello", func(context.Context) (translation.ResultSet, error) {
		return translation.ResultSet{translation.Success("merhaba")}, nil
	})
	if err != nil {
		t.Fatalf("get or compute: %v", err)
	}
	got[0] = translation.Failure()

	stored, ok := cache.Peek("hello")
	if !ok {
		t.Fatalf("expected stored value")
	}
	if !stored[0].IsSuccess {
		t.Fatalf("caller mutation leaked into the cache")
	}
}

func TestGetOrCompute_TTLExpiry(t *testing.T) {
	t.Parallel()

	cache := New(Options{TTL: 30 * time.Millisecond})
	var calls atomic.Int32
	compute := func(context.Context) (translation.ResultSet, error) {
		calls.Add(1)
		return translation.ResultSet{translation.Success("merhaba")}, nil
	}

	if _, err := cache.GetOrCompute(context.Background(), "hello", compute); err != nil {
		t.Fatalf("first: %v", err)
	}
	time.Sleep(80 * time.Millisecond)
	if _, err := cache.GetOrCompute(context.Background(), "hello", compute); err != nil {
		t.Fatalf("second: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected expired key to be recomputed, got %d computes", calls.Load())
	}
}

func TestGetOrCompute_NilCompute(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{}).GetOrCompute(context.Background(), "hello", nil); err == nil {
		t.Fatalf("expected nil compute to fail")
	}
}
