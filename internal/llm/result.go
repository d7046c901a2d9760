package llm

import (
	"context"
	"errors"
	"reflect"
)

// Result is the outcome of a typed call.
type Result[T any] struct {
	Value    T
	Err      error
	Attempts int
}

// OK reports whether the call produced a value.
func (r Result[T]) OK() bool { return r.Err == nil }

// Exhausted reports whether the call failed after using its retry budget.
func (r Result[T]) Exhausted() bool { return errors.Is(r.Err, ErrRetriesExhausted) }

// Unwrap returns the value or the error.
func (r Result[T]) Unwrap() (T, error) { return r.Value, r.Err }

// Do performs a call and decodes the response into a T.
func Do[T any](ctx context.Context, c *Caller, prompt string, schema Schema) Result[T] {
	var v T
	n, err := c.call(ctx, prompt, schema, reflect.ValueOf(&v))
	if err != nil {
		var zero T
		return Result[T]{Value: zero, Err: err, Attempts: n}
	}
	return Result[T]{Value: v, Attempts: n}
}
