package container

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Dispose empties the cache of c and runs the disposer of every cached
// entry that has one, concurrently. It waits for all of them and returns
// their errors combined.
//
// Only c's own cache is released: disposing the root releases singletons,
// disposing a scope releases its scoped values. Child scopes are not
// disposed.
//
//	defer scope.Dispose(ctx)
func (c *Container) Dispose(ctx context.Context) error {
	c.mu.Lock()
	entries := c.cache
	c.cache = make(map[Key]cacheEntry)
	c.mu.Unlock()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for name, e := range entries {
		if e.resolver.dispose == nil {
			continue
		}

		wg.Add(1)
		go func(name Key, e cacheEntry) {
			defer wg.Done()
			if err := runDisposer(ctx, e); err != nil {
				c.log.Warn().Str("name", keyString(name)).Err(err).Msg("dispose failed")
				mu.Lock()
				errs = multierr.Append(errs, errors.Wrapf(err, "dispose %s", keyString(name)))
				mu.Unlock()
			}
		}(name, e)
	}
	wg.Wait()

	c.log.Debug().Int("entries", len(entries)).Msg("disposed")
	return errs
}

func runDisposer(ctx context.Context, e cacheEntry) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("disposer panicked: %v", p)
		}
	}()
	return e.resolver.dispose(ctx, e.value)
}
