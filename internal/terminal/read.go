package terminal

import "context"

// readContext runs read on its own goroutine and returns early with
// ctx.Err() when ctx is done first. The abandoned read keeps its input and
// its result is dropped.
func readContext[T any](ctx context.Context, read func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := read()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
