// Package cache provides an unbounded in-process cache that performs at most
// one upstream fetch per key at a time.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const tracerName = "github.com/agenthands/pokedex/internal/core/cache"

// FetchFunc loads the value for key on a miss.
type FetchFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Name     string `json:"name"`
	Entries  int    `json:"entries"`
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
	Fetches  uint64 `json:"fetches"`
	Failures uint64 `json:"failures"`
}

// Keyed caches successful fetch results forever. Concurrent misses on the
// same key share a single fetch; misses on different keys never wait on each
// other. Failed fetches are not stored, so the next call retries.
type Keyed[K comparable, V any] struct {
	name  string
	fetch FetchFunc[K, V]

	mu      sync.RWMutex
	entries map[K]V
	group   singleflight.Group

	hits     atomic.Uint64
	misses   atomic.Uint64
	fetches  atomic.Uint64
	failures atomic.Uint64

	tracer trace.Tracer
}

// New returns an empty cache that loads misses with fetch. In-flight fetches
// are tracked by the key's type and %v text, so distinct keys of K must not
// print alike; ints, strings and their named types are safe.
func New[K comparable, V any](name string, fetch FetchFunc[K, V]) *Keyed[K, V] {
	return &Keyed[K, V]{
		name:    name,
		fetch:   fetch,
		entries: make(map[K]V),
		tracer:  otel.Tracer(tracerName),
	}
}

// GetOrFetch returns the cached value for key, fetching it on a miss. The
// shared fetch is not cancelled when one waiter's ctx ends; that waiter gets
// ctx.Err() and the others keep waiting. A caller whose ctx is already done
// gets cached values only and never starts a fetch.
func (c *Keyed[K, V]) GetOrFetch(ctx context.Context, key K) (V, error) {
	if v, ok := c.Peek(key); ok {
		c.hits.Add(1)
		return v, nil
	}
	if err := ctx.Err(); err != nil {
		var zero V
		return zero, err
	}
	c.misses.Add(1)

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey(key), func() (interface{}, error) {
		// A flight that finished between our Peek and DoChan already stored
		// the value.
		if v, ok := c.Peek(key); ok {
			return v, nil
		}
		return c.load(flightCtx, key)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

func flightKey[K comparable](key K) string {
	return fmt.Sprintf("%T:%v", key, key)
}

func (c *Keyed[K, V]) load(ctx context.Context, key K) (V, error) {
	ctx, span := c.tracer.Start(ctx, "cache."+c.name+".fetch",
		trace.WithAttributes(attribute.String("cache.key", fmt.Sprint(key))))
	defer span.End()

	c.fetches.Add(1)
	v, err := c.fetch(ctx, key)
	if err != nil {
		c.failures.Add(1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return v, err
	}

	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
	return v, nil
}

// Peek returns the cached value without fetching or touching the counters.
func (c *Keyed[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *Keyed[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Keyed[K, V]) Stats() Stats {
	return Stats{
		Name:     c.name,
		Entries:  c.Len(),
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Fetches:  c.fetches.Load(),
		Failures: c.failures.Load(),
	}
}
