package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/modelrelay/relay/pkg/api"
)

// modelsHandler returns a minimal /v1/models payload.
func modelsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"object":"list","data":[{"id":"gpt-4o","object":"model","owned_by":"openai"}]}`))
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	c, err := New("sk-test", append([]Option{WithBaseURL(baseURL)}, opts...)...)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestMissingCredential(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	_, err := New("")
	if err == nil {
		t.Fatal("expected construction to fail without a credential")
	}
	var ce *api.ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("expected *api.ConfigError, got %T", err)
	}
}

func TestCredentialFromEnvironment(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-from-env")

	c, err := New("")
	if err != nil {
		t.Fatalf("expected env credential to be used: %v", err)
	}
	if c.apiKey != "sk-from-env" {
		t.Errorf("apiKey = %q, want %q", c.apiKey, "sk-from-env")
	}
}

func TestSpacingInvariant_Sequential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(modelsHandler))
	defer srv.Close()

	const interval = 30 * time.Millisecond
	c := newTestClient(t, srv.URL, WithMinInterval(interval))

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 4; i++ {
		if _, err := c.ListModels(ctx); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}

	// Four calls through one dispatcher must span at least three
	// spacing intervals, measured by issue time.
	if elapsed := time.Since(start); elapsed < 3*interval {
		t.Errorf("4 calls completed in %v, want >= %v", elapsed, 3*interval)
	}
}

func TestSpacingInvariant_Concurrent(t *testing.T) {
	var mu sync.Mutex
	var arrivals []time.Time

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		modelsHandler(w, r)
	}))
	defer srv.Close()

	const interval = 30 * time.Millisecond
	c := newTestClient(t, srv.URL, WithMinInterval(interval))

	ctx := context.Background()
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.ListModels(ctx); err != nil {
				t.Errorf("concurrent call failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if elapsed := time.Since(start); elapsed < 3*interval {
		t.Errorf("4 concurrent calls completed in %v, want >= %v", elapsed, 3*interval)
	}
	if len(arrivals) != 4 {
		t.Errorf("server saw %d requests, want 4", len(arrivals))
	}
}

func TestRetryBound(t *testing.T) {
	tests := []struct {
		name         string
		retries      int
		wantAttempts int32
	}{
		{"budget 2", 2, 3},
		{"budget 0", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				attempts.Add(1)
				// Zero wait keeps the test fast while still
				// exercising the backoff path.
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL,
				WithMinInterval(0), WithMaxRetries(tt.retries))

			_, err := c.ListModels(context.Background())
			if err == nil {
				t.Fatal("expected the final 429 to propagate")
			}
			if !api.IsRateLimited(err) {
				t.Errorf("expected a rate-limited error, got %v", err)
			}
			if got := attempts.Load(); got != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", got, tt.wantAttempts)
			}

			// The provider's final 429 surfaces as-is.
			var pe *api.ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *api.ProviderError, got %T", err)
			}
			if pe.Message != "Rate limit reached" {
				t.Errorf("Message = %q, want provider message", pe.Message)
			}
		})
	}
}

func TestBackoffHonorsRetryAfter(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		modelsHandler(w, r)
	}))
	defer srv.Close()

	mClock := quartz.NewMock(t)
	trap := mClock.Trap().NewTimer("backoff")
	defer trap.Close()

	c := newTestClient(t, srv.URL,
		WithMinInterval(0), WithClock(mClock))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := c.ListModels(ctx)
		done <- err
	}()

	// The first attempt fails with 429; the dispatcher must arm a
	// backoff timer for exactly the server-requested 2 seconds.
	call := trap.MustWait(ctx)
	call.Release(ctx)
	if call.Duration != 2*time.Second {
		t.Errorf("backoff duration = %v, want 2s", call.Duration)
	}

	mClock.Advance(2 * time.Second).MustWait(ctx)

	if err := <-done; err != nil {
		t.Fatalf("retried call failed: %v", err)
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestBackoffDefaultWhenHeaderMissing(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		modelsHandler(w, r)
	}))
	defer srv.Close()

	mClock := quartz.NewMock(t)
	trap := mClock.Trap().NewTimer("backoff")
	defer trap.Close()

	c := newTestClient(t, srv.URL,
		WithMinInterval(0), WithClock(mClock))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := c.ListModels(ctx)
		done <- err
	}()

	call := trap.MustWait(ctx)
	call.Release(ctx)
	if call.Duration != time.Second {
		t.Errorf("backoff duration = %v, want the 1s default", call.Duration)
	}

	mClock.Advance(time.Second).MustWait(ctx)

	if err := <-done; err != nil {
		t.Fatalf("retried call failed: %v", err)
	}
}

func TestNonRetryablePassthrough(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"The server had an error","type":"server_error"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithMinInterval(0), WithMaxRetries(3))

	start := time.Now()
	_, err := c.ListModels(context.Background())
	elapsed := time.Since(start)

	var pe *api.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *api.ProviderError, got %v", err)
	}
	if pe.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", pe.StatusCode)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on 500)", got)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("call took %v, want immediate failure with no delay", elapsed)
	}
}

func TestTransportErrorNotRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(modelsHandler))
	srv.Close() // refuse connections

	c := newTestClient(t, srv.URL, WithMinInterval(0))

	_, err := c.ListModels(context.Background())
	var te *api.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *api.TransportError, got %v", err)
	}
	if te.Op != "models.list" {
		t.Errorf("Op = %q, want %q", te.Op, "models.list")
	}
}

func TestCancellationDuringBackoff(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithMinInterval(0))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.ListModels(ctx)
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context error, got %v", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1 (cancelled before retry)", got)
	}
	if elapsed > 5*time.Second {
		t.Errorf("cancellation took %v, want prompt unblock", elapsed)
	}
}

func TestRetryAfterParsing(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"2", 2 * time.Second},
		{" 5 ", 5 * time.Second},
		{"0", 0},
		{"", time.Second},
		{"soon", time.Second},
		{"-3", time.Second},
		{"1.5", time.Second},
	}
	for _, tt := range tests {
		if got := retryAfter(tt.raw); got != tt.want {
			t.Errorf("retryAfter(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
