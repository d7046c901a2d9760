package llm

import (
	"errors"
	"fmt"
)

// Sentinel errors for the model-call layer.
var (
	ErrRetriesExhausted = errors.New("llm: retries exhausted")
	ErrEmptyResponse    = errors.New("llm: empty response")
	ErrRefused          = errors.New("llm: model refused")
)

// ExhaustedError is returned once every attempt of a call has failed. It
// carries the attempt count and the cause of the final failure.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("llm: retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap exposes both ErrRetriesExhausted and the last cause to errors.Is.
func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.Last}
}

// DecodeError reports a response that is not valid JSON for the target type.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	raw := e.Raw
	if len(raw) > 200 {
		raw = raw[:200] + "..."
	}
	return fmt.Sprintf("llm: decode response: %v; raw=%s", e.Err, raw)
}

func (e *DecodeError) Unwrap() error { return e.Err }
