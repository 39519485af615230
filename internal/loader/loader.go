// Package loader batches and deduplicates per-item lookups made while one
// GraphQL operation is executed. Loaders live for a single operation only.
package loader

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	DefaultWait     = 2 * time.Millisecond
	DefaultMaxBatch = 100
)

// ErrNotFound is returned for keys the batch function had no value for.
var ErrNotFound = errors.New("loader: not found")

// BatchFunc fetches many keys at once. Keys missing from the result map are
// reported as ErrNotFound.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) (map[K]V, error)

type Option func(*options)

type options struct {
	wait     time.Duration
	maxBatch int
}

func WithWait(d time.Duration) Option {
	return func(o *options) { o.wait = d }
}

func WithMaxBatch(n int) Option {
	return func(o *options) { o.maxBatch = n }
}

// Loader collects the keys requested within a short window and resolves them
// with a single BatchFunc call. Results are memoized for the loader's lifetime.
type Loader[K comparable, V any] struct {
	fetch    BatchFunc[K, V]
	wait     time.Duration
	maxBatch int

	mu      sync.Mutex
	cache   map[K]*result[V]
	pending *batch[K, V]
}

type result[V any] struct {
	done  chan struct{}
	value V
	err   error
}

type batch[K comparable, V any] struct {
	keys    []K
	results map[K]*result[V]
	closed  bool
}

func New[K comparable, V any](fetch BatchFunc[K, V], opts ...Option) *Loader[K, V] {
	o := options{wait: DefaultWait, maxBatch: DefaultMaxBatch}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxBatch <= 0 {
		o.maxBatch = DefaultMaxBatch
	}
	return &Loader[K, V]{
		fetch:    fetch,
		wait:     o.wait,
		maxBatch: o.maxBatch,
		cache:    make(map[K]*result[V]),
	}
}

// Load returns the value for key, joining the batch currently being collected.
func (l *Loader[K, V]) Load(ctx context.Context, key K) (V, error) {
	r := l.enqueue(ctx, key)

	select {
	case <-r.done:
		return r.value, r.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// LoadMany loads every key; errs[i] belongs to keys[i].
func (l *Loader[K, V]) LoadMany(ctx context.Context, keys []K) ([]V, []error) {
	results := make([]*result[V], len(keys))
	for i, key := range keys {
		results[i] = l.enqueue(ctx, key)
	}

	values := make([]V, len(keys))
	errs := make([]error, len(keys))
	for i, r := range results {
		select {
		case <-r.done:
			values[i], errs[i] = r.value, r.err
		case <-ctx.Done():
			errs[i] = ctx.Err()
		}
	}
	return values, errs
}

func (l *Loader[K, V]) enqueue(ctx context.Context, key K) *result[V] {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok := l.cache[key]; ok {
		return r
	}

	r := &result[V]{done: make(chan struct{})}
	l.cache[key] = r

	if l.pending == nil {
		l.pending = &batch[K, V]{results: make(map[K]*result[V])}
		b := l.pending
		// the batch runs detached from the first caller's cancellation
		bctx := context.WithoutCancel(ctx)
		time.AfterFunc(l.wait, func() {
			l.dispatch(bctx, b)
		})
	}
	b := l.pending
	b.keys = append(b.keys, key)
	b.results[key] = r

	if len(b.keys) >= l.maxBatch {
		l.pending = nil
		b.closed = true
		go l.run(context.WithoutCancel(ctx), b)
	}

	return r
}

func (l *Loader[K, V]) dispatch(ctx context.Context, b *batch[K, V]) {
	l.mu.Lock()
	if b.closed {
		l.mu.Unlock()
		return
	}
	b.closed = true
	if l.pending == b {
		l.pending = nil
	}
	l.mu.Unlock()

	l.run(ctx, b)
}

func (l *Loader[K, V]) run(ctx context.Context, b *batch[K, V]) {
	values, err := l.call(ctx, b.keys)
	for _, key := range b.keys {
		r := b.results[key]
		switch {
		case err != nil:
			r.err = err
		default:
			v, ok := values[key]
			if ok {
				r.value = v
			} else {
				r.err = ErrNotFound
			}
		}
		close(r.done)
	}
}

func (l *Loader[K, V]) call(ctx context.Context, keys []K) (values map[K]V, err error) {
	defer func() {
		if rv := recover(); rv != nil {
			err = errors.New("loader: batch function panicked")
		}
	}()
	return l.fetch(ctx, keys)
}
