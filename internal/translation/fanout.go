package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrNoProviders = errors.New("no translation providers are registered")

// ProviderError identifies the provider that failed a fan-out.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// FindAll sends req to every provider concurrently and waits for all of them.
// Slot i of the result holds provider i's answer. The first failure cancels the
// remaining calls and fails the whole fan-out. A positive timeout bounds each call.
func FindAll(ctx context.Context, providers []Provider, req TranslateRequest, timeout time.Duration) (ResultSet, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	results := make(ResultSet, len(providers))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, provider := range providers {
		i, provider := i, provider
		group.Go(func() error {
			callCtx := groupCtx
			if timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(groupCtx, timeout)
				defer cancel()
			}

			result, err := provider.Find(callCtx, req)
			if err != nil {
				return &ProviderError{Provider: provider.Name(), Err: err}
			}
			results[i] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
