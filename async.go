package webasset

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of an asynchronous load.
type Result struct {
	Err  error
	Name string
	Data []byte
}

// LoadAsync starts loading the named asset on its own goroutine. Exactly one
// Result is sent on the returned channel, which is then closed. The load
// can't be stopped once started other than through ctx.
func (f *FS) LoadAsync(ctx context.Context, name string) <-chan Result {
	ch := make(chan Result, 1)

	go func() {
		defer close(ch)

		b, err := f.Load(ctx, name)
		ch <- Result{Name: name, Data: b, Err: err}
	}()

	return ch
}

// LoadAll loads all the named assets concurrently and returns their results
// in the same order as names. A failure to load one asset doesn't affect the
// others.
func (f *FS) LoadAll(ctx context.Context, names ...string) []Result {
	results := make([]Result, len(names))

	var g errgroup.Group

	for i, name := range names {
		g.Go(func() error {
			b, err := f.Load(ctx, name)
			results[i] = Result{Name: name, Data: b, Err: err}

			return nil
		})
	}

	_ = g.Wait()

	return results
}
