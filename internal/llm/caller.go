// Package llm issues structured-output requests to a model service and
// retries failed attempts with jittered exponential backoff.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"reflect"
	"strings"
	"time"
)

// Config tunes the retry loop.
type Config struct {
	MaxRetries  int
	BaseBackoff time.Duration
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option customizes a Caller.
type Option func(*Caller)

// WithSleeper replaces the wall-clock sleeper.
func WithSleeper(s Sleeper) Option {
	return func(c *Caller) { c.sleep = s }
}

// WithJitter replaces the random source. f must return values in [0, 1).
func WithJitter(f func() float64) Option {
	return func(c *Caller) { c.jitter = f }
}

// WithLimiter throttles every attempt through l.
func WithLimiter(l Limiter) Option {
	return func(c *Caller) { c.limiter = l }
}

// WithMetrics records attempts on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Caller) { c.metrics = m }
}

// Caller wraps a Transport with decoding and retries. It is safe for
// concurrent use when the Transport is.
type Caller struct {
	transport Transport
	cfg       Config
	log       *slog.Logger
	sleep     Sleeper
	jitter    func() float64
	limiter   Limiter
	metrics   *Metrics
}

// NewCaller creates a Caller. A negative MaxRetries is treated as zero.
func NewCaller(t Transport, cfg Config, log *slog.Logger, opts ...Option) *Caller {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	c := &Caller{
		transport: t,
		cfg:       cfg,
		log:       log.With("component", "llm", "provider", t.Name()),
		sleep:     sleepCtx,
		jitter:    rand.Float64,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Provider returns the transport name.
func (c *Caller) Provider() string { return c.transport.Name() }

// Call sends prompt and decodes the JSON response into out, which must be a
// non-nil pointer. Each attempt decodes into a fresh value so a failed
// attempt never leaves partial data in out. After MaxRetries+1 failed
// attempts it returns an *ExhaustedError.
func (c *Caller) Call(ctx context.Context, prompt string, schema Schema, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("llm: out must be a non-nil pointer, got %T", out)
	}
	_, err := c.call(ctx, prompt, schema, rv)
	return err
}

func (c *Caller) call(ctx context.Context, prompt string, schema Schema, out reflect.Value) (int, error) {
	req := Request{Prompt: prompt, Schema: schema}
	elem := out.Elem().Type()

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return attempt - 1, fmt.Errorf("llm: rate limiter: %w", err)
			}
		}

		fresh := reflect.New(elem)
		err := c.attempt(ctx, req, fresh.Interface())
		if err == nil {
			out.Elem().Set(fresh.Elem())
			return attempt, nil
		}

		if attempt > c.cfg.MaxRetries {
			c.metrics.gaveUp(c.transport.Name())
			c.log.WarnContext(ctx, "model call failed, giving up",
				slog.String("schema", schema.Name),
				slog.Int("attempts", attempt),
				slog.String("error", err.Error()),
			)
			return attempt, &ExhaustedError{Attempts: attempt, Last: err}
		}

		delay := c.backoff(attempt)
		c.metrics.retried(c.transport.Name())
		c.log.DebugContext(ctx, "model call failed, retrying",
			slog.String("schema", schema.Name),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return attempt, fmt.Errorf("llm: backoff interrupted after %d attempts: %w", attempt, err)
		}
	}
}

func (c *Caller) attempt(ctx context.Context, req Request, dst any) error {
	start := time.Now()
	raw, err := c.transport.Complete(ctx, req)
	c.metrics.observe(c.transport.Name(), err, time.Since(start))
	if err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return &DecodeError{Raw: raw, Err: err}
	}
	return nil
}

// backoff returns the delay after the n-th failed attempt:
// base * 2^(n-1) scaled by a factor in [0.7, 1.3).
func (c *Caller) backoff(n int) time.Duration {
	factor := 0.7 + 0.6*c.jitter()
	d := float64(c.cfg.BaseBackoff) * math.Pow(2, float64(n-1)) * factor
	return time.Duration(d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
