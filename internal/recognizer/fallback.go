package recognizer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"repdf/internal/port"
)

// circuitState tracks rate-limit backoff for a single backend.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackBackend tries backends in order, skipping those with open circuits.
// It implements port.RecognitionBackend.
type FallbackBackend struct {
	backends []port.RecognitionBackend
	circuits []*circuitState
}

// NewFallbackBackend creates a FallbackBackend from an ordered list of backends.
func NewFallbackBackend(backends []port.RecognitionBackend) *FallbackBackend {
	circuits := make([]*circuitState, len(backends))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackBackend{
		backends: backends,
		circuits: circuits,
	}
}

func (f *FallbackBackend) Name() string {
	names := make([]string, len(f.backends))
	for i, b := range f.backends {
		names[i] = b.Name()
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

func (f *FallbackBackend) Recognize(ctx context.Context, input port.RecognizeInput) (string, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, b := range f.backends {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Printf("recognizer.FallbackBackend: skipping %s (circuit open until %s)", b.Name(), resetAt.Format(time.RFC3339))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		reply, err := b.Recognize(ctx, input)
		if err == nil {
			return reply, nil
		}

		log.Printf("recognizer.FallbackBackend: %s failed on page %d: %v", b.Name(), input.PageNumber, err)
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}

		if ctx.Err() != nil {
			return "", fmt.Errorf("recognition aborted: %w", ctx.Err())
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return "", NewRateLimitError("all", fmt.Errorf("all recognition backends rate limited"), int(retryAfter.Seconds()))
	}

	return "", fmt.Errorf("all recognition backends failed: %w", lastErr)
}
