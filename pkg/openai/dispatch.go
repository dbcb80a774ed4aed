package openai

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/modelrelay/relay/pkg/api"
	"github.com/modelrelay/relay/pkg/debug"
	"github.com/modelrelay/relay/pkg/observability"
)

// fallbackBackoff is the wait applied when a 429 carries no usable
// Retry-After header.
const fallbackBackoff = time.Second

// issue is the dispatch chokepoint. It waits for the next send slot,
// invokes call (which performs exactly one HTTP request), and retries
// throttling responses within the retry budget. The spacing check
// applies before every attempt, including retries.
//
// Written as a loop rather than recursion so a pathological retry
// budget cannot grow the stack.
func (c *Client) issue(ctx context.Context, endpoint string, call func(context.Context) error) error {
	retries := c.maxRetries
	for {
		if err := c.waitTurn(ctx); err != nil {
			return err
		}

		err := call(ctx)
		if err == nil {
			return nil
		}

		var pe *api.ProviderError
		if !errors.As(err, &pe) || pe.StatusCode != http.StatusTooManyRequests || retries <= 0 {
			return err
		}

		wait := retryAfter(pe.RetryAfter)
		debug.Log("dispatch", "provider throttled, backing off",
			"endpoint", endpoint, "wait", wait, "retries_left", retries)
		observability.OutboundRetriesTotal.WithLabelValues(endpoint).Inc()
		observability.DispatchWaitSeconds.WithLabelValues("backoff").Observe(wait.Seconds())

		if err := c.sleep(ctx, wait, "backoff"); err != nil {
			return err
		}
		retries--
	}
}

// waitTurn reserves the next send slot and sleeps until it arrives.
//
// The reservation is a read-modify-write on the shared slot timestamp:
// each caller takes max(now, next) as its own issue time and bumps next
// by the spacing interval before releasing the lock. Lock-acquisition
// order is the tie-break between racing callers, and issue times stay
// at least one interval apart even if a waiter is cancelled afterwards
// (its slot goes unused).
func (c *Client) waitTurn(ctx context.Context) error {
	c.mu.Lock()
	now := c.clock.Now()
	at := c.next
	if at.Before(now) {
		at = now
	}
	c.next = at.Add(c.minInterval)
	c.mu.Unlock()

	d := at.Sub(now)
	if d <= 0 {
		return nil
	}
	debug.Trace("dispatch", "pacing", "wait", d)
	observability.DispatchWaitSeconds.WithLabelValues("pacing").Observe(d.Seconds())
	return c.sleep(ctx, d, "pacing")
}

// sleep blocks for d or until ctx is done, whichever comes first.
func (c *Client) sleep(ctx context.Context, d time.Duration, tag string) error {
	if d <= 0 {
		return nil
	}
	timer := c.clock.NewTimer(d, tag)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryAfter parses a Retry-After header value as an integer number of
// seconds. Absent or unparsable values fall back to one second.
func retryAfter(raw string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || secs < 0 {
		return fallbackBackoff
	}
	return time.Duration(secs) * time.Second
}
