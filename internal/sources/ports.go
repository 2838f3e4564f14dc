// Package sources loads purchase records from external data sources.
//
// A Loader reads one source completely; LoadAll reads several of them
// concurrently and concatenates their records in declaration order.
package sources

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"purchases/internal/cache"
	"purchases/internal/core"
)

// MaxParallelLoads bounds how many sources are read at the same time.
const MaxParallelLoads = 4

// Loader reads every purchase record of one source.
type Loader interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Load reads the whole source. Any failure aborts the load.
	Load(ctx context.Context) ([]core.PurchaseRecord, error)
}

// Settler is implemented by sources that hold what they handed out until
// the caller accepts or rejects the load, such as message queues.
type Settler interface {
	Settle(ctx context.Context, accept bool) error
}

// SettleAll settles every loader that is, or wraps, a Settler. Rejected data
// is returned to its source.
func SettleAll(ctx context.Context, accept bool, loaders ...Loader) error {
	var errs []error
	for _, l := range loaders {
		s, ok := settler(l)
		if !ok {
			continue
		}
		if err := s.Settle(ctx, accept); err != nil {
			errs = append(errs, asSourceError(l.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func settler(l Loader) (Settler, bool) {
	for {
		if s, ok := l.(Settler); ok {
			return s, true
		}
		w, ok := l.(interface{ Unwrap() Loader })
		if !ok {
			return nil, false
		}
		l = w.Unwrap()
	}
}

// LoadAll loads every source and returns their records in loader order.
// The first failure cancels the remaining loads and is returned as a
// *core.SourceError; no partial result is returned.
func LoadAll(ctx context.Context, loaders ...Loader) ([]core.PurchaseRecord, error) {
	results := make([][]core.PurchaseRecord, len(loaders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxParallelLoads)
	for i, l := range loaders {
		g.Go(func() error {
			records, err := l.Load(gctx)
			if err != nil {
				return asSourceError(l.Name(), err)
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]core.PurchaseRecord, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func asSourceError(name string, err error) error {
	var se *core.SourceError
	if errors.As(err, &se) {
		return err
	}
	return &core.SourceError{Source: name, Err: err}
}

// Cached wraps l so that its records are read once per cache lifetime.
// A source listed twice still contributes its records twice.
func Cached(l Loader, c cache.Cache[[]core.PurchaseRecord]) Loader {
	return &cachedLoader{Loader: l, cache: c}
}

type cachedLoader struct {
	Loader
	cache cache.Cache[[]core.PurchaseRecord]
}

func (c *cachedLoader) Unwrap() Loader {
	return c.Loader
}

func (c *cachedLoader) Load(ctx context.Context) ([]core.PurchaseRecord, error) {
	if records, ok := c.cache.Get(c.Name()); ok {
		return records, nil
	}
	records, err := c.Loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(c.Name(), records)
	return records, nil
}
