package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/devspell/cli/internal/output"
)

// Middleware decorates a Client with a cross-cutting concern.
type Middleware func(Client) Client

// Wrap applies middlewares so that the first one is outermost:
// Wrap(inner, A, B) == A(B(inner)).
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// clientFunc adapts a generate function plus the wrapped client's identity.
type clientFunc struct {
	next Client
	gen  func(ctx context.Context, req Request) (string, error)
}

func (c *clientFunc) Name() string { return c.next.Name() }
func (c *clientFunc) Close() error { return c.next.Close() }
func (c *clientFunc) Generate(ctx context.Context, req Request) (string, error) {
	return c.gen(ctx, req)
}

// Retry retries failed calls up to maxAttempts times with exponential
// backoff starting at baseDelay. Permanent errors and cancellation stop it.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next Client) Client {
		return &clientFunc{next: next, gen: func(ctx context.Context, req Request) (string, error) {
			var last error
			for i := 0; i < maxAttempts; i++ {
				out, err := next.Generate(ctx, req)
				if err == nil {
					return out, nil
				}
				if IsPermanent(err) {
					return "", err
				}
				last = err
				if i == maxAttempts-1 {
					break
				}

				timer := time.NewTimer(baseDelay * time.Duration(1<<i))
				select {
				case <-ctx.Done():
					timer.Stop()
					return "", ctx.Err()
				case <-timer.C:
				}
			}
			return "", last
		}}
	}
}

// Timeout bounds every call with d. Zero or negative disables it.
func Timeout(d time.Duration) Middleware {
	return func(next Client) Client {
		if d <= 0 {
			return next
		}
		return &clientFunc{next: next, gen: func(ctx context.Context, req Request) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next.Generate(ctx, req)
		}}
	}
}

// RateLimit limits calls to rps per second with the given burst. A
// non-positive rps disables it.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Client) Client {
		if rps <= 0 {
			return next
		}
		if burst < 1 {
			burst = 1
		}
		lim := rate.NewLimiter(rate.Limit(rps), burst)
		return &clientFunc{next: next, gen: func(ctx context.Context, req Request) (string, error) {
			if err := lim.Wait(ctx); err != nil {
				return "", err
			}
			return next.Generate(ctx, req)
		}}
	}
}

// Logging logs each call at debug level and failures at warn level.
func Logging() Middleware {
	return func(next Client) Client {
		return &clientFunc{next: next, gen: func(ctx context.Context, req Request) (string, error) {
			start := time.Now()
			out, err := next.Generate(ctx, req)
			elapsed := time.Since(start).Round(time.Millisecond)
			if err != nil {
				output.Warn("llm call failed", "client", next.Name(), "kind", req.Kind, "elapsed", elapsed, "err", err)
				return "", err
			}
			output.Debug("llm call", "client", next.Name(), "kind", req.Kind,
				"prompt_bytes", len(req.Prompt), "response_bytes", len(out), "elapsed", elapsed)
			return out, nil
		}}
	}
}
