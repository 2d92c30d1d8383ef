package result

import "context"

// Result carries either fetched data or the error that prevented it.
// A failed fetch never yields placeholder data.
type Result[T any] struct {
	Data T
	Err  error
}

// OK reports whether the fetch succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Fetch runs fn and wraps its outcome.
func Fetch[T any](ctx context.Context, fn func(context.Context) (T, error)) Result[T] {
	data, err := fn(ctx)
	if err != nil {
		var zero T
		return Result[T]{Data: zero, Err: err}
	}
	return Result[T]{Data: data}
}
