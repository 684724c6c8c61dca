package externalapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultMaxRetries      = 3
	defaultInitialBackoff  = 1 * time.Second
	defaultRequestsPerTick = 5
)

// limiter throttles outbound calls to a single external host. The
// original connectors had no client-side throttle at all; a shared
// limiter here guards against a burst of unresolved ingredients
// hammering USDA FDC or Open Food Facts in the same request.
var limiter = rate.NewLimiter(rate.Every(time.Second/defaultRequestsPerTick), defaultRequestsPerTick)

// getWithRetries issues an HTTP GET with up to maxRetries attempts and
// exponential backoff on timeout or connection errors: with the default
// 3 attempts it waits 1s after the first failure and 2s after the
// second, and does not wait after the last one.
func getWithRetries(ctx context.Context, client *http.Client, rawURL string, params url.Values, log *zap.Logger) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if log != nil {
			log.Warn("external_api retry",
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", defaultMaxRetries),
				zap.String("url", rawURL),
				zap.Error(err),
			)
		}
		if attempt < defaultMaxRetries-1 {
			delay := defaultInitialBackoff * time.Duration(1<<attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("external_api: all retries failed: %w", lastErr)
}
