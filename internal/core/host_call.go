package core

import (
	"context"
	"fmt"
	"time"
)

type hostResult[T any] struct {
	value T
	err   error
}

// callHost runs a host call with a deadline. The call is abandoned when the
// deadline passes or ctx is cancelled, even if fn does not watch its context.
func callHost[T any](ctx context.Context, timeout time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan hostResult[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- hostResult[T]{err: fmt.Errorf("%s: host call panicked: %v", op, r)}
			}
		}()
		v, err := fn(ctx)
		done <- hostResult[T]{value: v, err: err}
	}()

	var zero T
	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return zero, fmt.Errorf("%s: %w after %s", op, ErrHostTimeout, timeout)
		}
		return zero, fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

// callHostErr is callHost for calls that return only an error
func callHostErr(ctx context.Context, timeout time.Duration, op string, fn func(context.Context) error) error {
	_, err := callHost(ctx, timeout, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
