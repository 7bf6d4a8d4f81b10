// Package resultcache stores provider result sets by exact input text and
// guarantees at most one in-flight computation per key.
package resultcache

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"horse.fit/dynamictranslator/internal/metrics"
	"horse.fit/dynamictranslator/internal/translation"
)

const DefaultSize = 1024

// ComputeFunc produces the value for a missing key.
type ComputeFunc func(ctx context.Context) (translation.ResultSet, error)

type Options struct {
	// Size bounds the number of stored keys. Values <= 0 use DefaultSize.
	Size int
	// TTL expires stored keys. Values <= 0 disable expiry.
	TTL time.Duration
	// ComputeTimeout bounds one shared computation. Values <= 0 disable it.
	ComputeTimeout time.Duration
	Metrics        *metrics.Collector
}

// Cache maps raw input text to the provider result set computed for it.
// Keys are compared exactly: no case folding or trimming.
type Cache struct {
	store          *expirable.LRU[string, translation.ResultSet]
	group          singleflight.Group
	computeTimeout time.Duration
	metrics        *metrics.Collector
}

func New(opts Options) *Cache {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	return &Cache{
		store:          expirable.NewLRU[string, translation.ResultSet](size, nil, opts.TTL),
		computeTimeout: opts.ComputeTimeout,
		metrics:        opts.Metrics,
	}
}

// GetOrCompute returns the stored value for key, or runs compute once for all
// concurrent callers of that key. Failures are shared with every waiter and
// are not stored. The computation is detached from the first caller's
// cancellation; a canceled caller stops waiting without failing the others.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute ComputeFunc) (translation.ResultSet, error) {
	if compute == nil {
		return nil, fmt.Errorf("compute function is nil")
	}
	if value, ok := c.store.Get(key); ok {
		c.metrics.ObserveCacheLookup(metrics.CacheHit)
		return value.Clone(), nil
	}

	resultCh := c.group.DoChan(key, func() (any, error) {
		// A flight for key may have finished between the lookup above and DoChan.
		if value, ok := c.store.Get(key); ok {
			return value, nil
		}

		c.metrics.ObserveCacheLookup(metrics.CacheMiss)
		computeCtx := context.WithoutCancel(ctx)
		if c.computeTimeout > 0 {
			var cancel context.CancelFunc
			computeCtx, cancel = context.WithTimeout(computeCtx, c.computeTimeout)
			defer cancel()
		}

		value, err := compute(computeCtx)
		if err != nil {
			return nil, err
		}
		c.store.Add(key, value.Clone())
		return value, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultCh:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.metrics.ObserveCacheLookup(metrics.CacheShared)
		}
		value, _ := res.Val.(translation.ResultSet)
		return value.Clone(), nil
	}
}

// Peek returns a copy of the stored value without touching recency.
func (c *Cache) Peek(key string) (translation.ResultSet, bool) {
	value, ok := c.store.Peek(key)
	if !ok {
		return nil, false
	}
	return value.Clone(), true
}

func (c *Cache) Len() int {
	return c.store.Len()
}
