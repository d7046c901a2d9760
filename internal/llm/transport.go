package llm

import "context"

// Request is one structured-output completion.
type Request struct {
	Prompt string
	Schema Schema
}

// Transport sends a single completion to a model service and returns the raw
// JSON text the service produced. Implementations do not retry.
type Transport interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// Limiter throttles outgoing requests. Wait blocks until a request may be
// sent or ctx is done.
type Limiter interface {
	Wait(ctx context.Context) error
}
