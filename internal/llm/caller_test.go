package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type reply struct {
	text string
	err  error
}

type scriptedTransport struct {
	mu      sync.Mutex
	replies []reply
	calls   int
	prompts []string
}

func (s *scriptedTransport) Name() string { return "fake" }

func (s *scriptedTransport) Complete(_ context.Context, req Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, req.Prompt)
	i := s.calls
	s.calls++
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return s.replies[i].text, s.replies[i].err
}

type sleepRecorder struct {
	delays []time.Duration
	err    error
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return r.err
}

type limiterMock struct {
	WaitFn func(ctx context.Context) error
}

func (m *limiterMock) Wait(ctx context.Context) error { return m.WaitFn(ctx) }

type payload struct {
	Candidates []string `json:"candidates"`
}

var errUnavailable = errors.New("service unavailable")

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCaller(t *scriptedTransport, maxRetries int, rec *sleepRecorder, opts ...Option) *Caller {
	opts = append([]Option{
		WithSleeper(rec.sleep),
		WithJitter(func() float64 { return 0.5 }),
	}, opts...)
	return NewCaller(t, Config{MaxRetries: maxRetries, BaseBackoff: 800 * time.Millisecond}, newTestLogger(), opts...)
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCaller_SucceedsFirstTry(t *testing.T) {
	t.Parallel()

	tr := &scriptedTransport{replies: []reply{{text: `{"candidates":["a","b"]}`}}}
	rec := &sleepRecorder{}
	c := newTestCaller(tr, 3, rec)

	var got payload
	require.NoError(t, c.Call(context.Background(), "p", CandidateSchema(), &got))

	assert.Equal(t, []string{"a", "b"}, got.Candidates)
	assert.Equal(t, 1, tr.calls)
	assert.Empty(t, rec.delays)
}

func TestCaller_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	for failures := 1; failures <= 3; failures++ {
		replies := make([]reply, 0, failures+1)
		for range failures {
			replies = append(replies, reply{err: errUnavailable})
		}
		replies = append(replies, reply{text: `{"candidates":["ok"]}`})

		tr := &scriptedTransport{replies: replies}
		rec := &sleepRecorder{}
		c := newTestCaller(tr, 3, rec)

		res := Do[payload](context.Background(), c, "p", CandidateSchema())
		require.True(t, res.OK(), "failures=%d: %v", failures, res.Err)
		assert.Equal(t, []string{"ok"}, res.Value.Candidates)
		assert.Equal(t, failures+1, res.Attempts)
		assert.Equal(t, failures+1, tr.calls)
		assert.Len(t, rec.delays, failures)
	}
}

func TestCaller_Exhausted(t *testing.T) {
	t.Parallel()

	tr := &scriptedTransport{replies: []reply{{err: errUnavailable}}}
	rec := &sleepRecorder{}
	c := newTestCaller(tr, 3, rec)

	var got payload
	err := c.Call(context.Background(), "p", CandidateSchema(), &got)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, errUnavailable)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 4, exhausted.Attempts)
	assert.Equal(t, 4, tr.calls)
	assert.Len(t, rec.delays, 3)
	assert.Nil(t, got.Candidates)
}

func TestCaller_ZeroRetries(t *testing.T) {
	t.Parallel()

	tr := &scriptedTransport{replies: []reply{{err: errUnavailable}}}
	rec := &sleepRecorder{}
	c := newTestCaller(tr, 0, rec)

	res := Do[payload](context.Background(), c, "p", CandidateSchema())
	assert.True(t, res.Exhausted())
	assert.Equal(t, 1, tr.calls)
	assert.Empty(t, rec.delays)
}

func TestCaller_BackoffDelays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		jitter float64
		want   []time.Duration
	}{
		{
			name:   "midpoint jitter",
			jitter: 0.5,
			want:   []time.Duration{800 * time.Millisecond, 1600 * time.Millisecond, 3200 * time.Millisecond},
		},
		{
			name:   "minimum jitter",
			jitter: 0,
			want:   []time.Duration{560 * time.Millisecond, 1120 * time.Millisecond, 2240 * time.Millisecond},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr := &scriptedTransport{replies: []reply{{err: errUnavailable}}}
			rec := &sleepRecorder{}
			c := newTestCaller(tr, 3, rec, WithJitter(func() float64 { return tt.jitter }))

			_ = c.Call(context.Background(), "p", CandidateSchema(), &payload{})

			require.Len(t, rec.delays, len(tt.want))
			for i, want := range tt.want {
				assert.InDelta(t, float64(want), float64(rec.delays[i]), float64(time.Millisecond), "delay %d", i)
			}
		})
	}
}

func TestCaller_DecodeFailureIsRetried(t *testing.T) {
	t.Parallel()

	tr := &scriptedTransport{replies: []reply{
		{text: `{"candidates":`},
		{text: `   `},
		{text: `{"candidates":["fine"]}`},
	}}
	rec := &sleepRecorder{}
	c := newTestCaller(tr, 3, rec)

	var got payload
	require.NoError(t, c.Call(context.Background(), "p", CandidateSchema(), &got))
	assert.Equal(t, []string{"fine"}, got.Candidates)
	assert.Equal(t, 3, tr.calls)
}

func TestCaller_DecodeErrorSurfacesWhenExhausted(t *testing.T) {
	t.Parallel()

	tr := &scriptedTransport{replies: []reply{{text: "not json"}}}
	c := newTestCaller(tr, 1, &sleepRecorder{})

	err := c.Call(context.Background(), "p", CandidateSchema(), &payload{})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "not json", decodeErr.Raw)
}

func TestCaller_CancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	tr := &scriptedTransport{replies: []reply{{err: errUnavailable}}}
	rec := &sleepRecorder{err: context.Canceled}
	c := newTestCaller(tr, 3, rec)

	err := c.Call(context.Background(), "p", CandidateSchema(), &payload{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 1, tr.calls)
}

func TestCaller_CancelledBeforeCall(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := &scriptedTransport{replies: []reply{{text: `{"candidates":[]}`}}}
	c := newTestCaller(tr, 3, &sleepRecorder{})

	res := Do[payload](ctx, c, "p", CandidateSchema())
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, 0, tr.calls)
	assert.Equal(t, 0, res.Attempts)
}

func TestCaller_DefaultSleeperHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	tr := &scriptedTransport{replies: []reply{{err: errUnavailable}}}
	c := NewCaller(tr, Config{MaxRetries: 3, BaseBackoff: time.Hour}, newTestLogger())

	start := time.Now()
	err := c.Call(ctx, "p", CandidateSchema(), &payload{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCaller_LimiterError(t *testing.T) {
	t.Parallel()

	limitErr := errors.New("redis down")
	tr := &scriptedTransport{replies: []reply{{text: `{"candidates":[]}`}}}
	c := newTestCaller(tr, 3, &sleepRecorder{}, WithLimiter(&limiterMock{
		WaitFn: func(context.Context) error { return limitErr },
	}))

	err := c.Call(context.Background(), "p", CandidateSchema(), &payload{})
	assert.ErrorIs(t, err, limitErr)
	assert.Equal(t, 0, tr.calls)
}

func TestCaller_LimiterPerAttempt(t *testing.T) {
	t.Parallel()

	waits := 0
	tr := &scriptedTransport{replies: []reply{{err: errUnavailable}, {text: `{"candidates":[]}`}}}
	c := newTestCaller(tr, 3, &sleepRecorder{}, WithLimiter(&limiterMock{
		WaitFn: func(context.Context) error { waits++; return nil },
	}))

	require.NoError(t, c.Call(context.Background(), "p", CandidateSchema(), &payload{}))
	assert.Equal(t, 2, waits)
}

func TestCaller_RejectsNonPointer(t *testing.T) {
	t.Parallel()

	c := newTestCaller(&scriptedTransport{replies: []reply{{text: "{}"}}}, 0, &sleepRecorder{})
	assert.Error(t, c.Call(context.Background(), "p", CandidateSchema(), payload{}))
	assert.Error(t, c.Call(context.Background(), "p", CandidateSchema(), (*payload)(nil)))
}

func TestCaller_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	tr := &scriptedTransport{replies: []reply{{err: errUnavailable}}}
	c := newTestCaller(tr, 2, &sleepRecorder{}, WithMetrics(m))
	_ = c.Call(context.Background(), "p", CandidateSchema(), &payload{})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("fake", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.retries.WithLabelValues("fake")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exhausted.WithLabelValues("fake")))
}

func TestResult_Unwrap(t *testing.T) {
	t.Parallel()

	ok := Result[int]{Value: 7, Attempts: 1}
	v, err := ok.Unwrap()
	assert.Equal(t, 7, v)
	assert.NoError(t, err)
	assert.True(t, ok.OK())
	assert.False(t, ok.Exhausted())

	bad := Result[int]{Err: &ExhaustedError{Attempts: 2, Last: errUnavailable}}
	assert.False(t, bad.OK())
	assert.True(t, bad.Exhausted())
	assert.Contains(t, bad.Err.Error(), "after 2 attempts")
}
