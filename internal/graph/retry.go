package graph

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// RetryBaseDelay is the first backoff on HTTP 429; it doubles per attempt.
// Tests override it to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps a server-provided Retry-After.
const maxRetryAfter = 2 * time.Minute

// doWithRetry sends the request built by newReq and retries on HTTP 429 with
// exponential backoff, or the server's Retry-After when it is given in
// seconds. After maxRetries retries the last 429 response is returned.
func doWithRetry(ctx context.Context, client *http.Client, newReq func(context.Context) (*http.Request, error), maxRetries int, log zerolog.Logger) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := newReq(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			backoff = min(time.Duration(secs)*time.Second, maxRetryAfter)
		}
		log.Debug().
			Dur("backoff", backoff).
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Msg("rate limited, retrying")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
