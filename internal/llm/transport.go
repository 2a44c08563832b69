package llm

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"aura/internal/errs"
	"aura/internal/logging"
)

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }

// rateLimiter enforces a minimum interval between requests from one client,
// the same pattern every teacher provider client uses (a mutex-guarded
// lastRequest timestamp) instead of a token-bucket library.
type rateLimiter struct {
	mu       sync.Mutex
	last     time.Time
	minDelta time.Duration
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	elapsed := time.Since(r.last)
	if elapsed < r.minDelta {
		time.Sleep(r.minDelta - elapsed)
	}
	r.last = time.Now()
}

// doWithRetry POSTs jsonBody to url with the given headers, retrying up to
// maxRetries times on HTTP 429 or a transport/read error with exponential
// backoff (1s, 2s, 4s, ...), mirroring the teacher's per-provider retry loop.
// It returns the response body on any non-429, non-transport-error outcome so
// each caller's response-shape-specific unmarshal stays in its own file. Once
// retries are exhausted it returns LlmRateLimit if the last attempt was a 429,
// otherwise LlmNetwork.
func doWithRetry(ctx context.Context, client *http.Client, url string, headers map[string]string, jsonBody []byte, maxRetries int) ([]byte, int, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(1<<uint(attempt-1)) * time.Second):
			case <-ctx.Done():
				return nil, 0, errs.Wrap(errs.Timeout, "llm request canceled during backoff", ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytesReader(jsonBody))
		if err != nil {
			return nil, 0, errs.Wrap(errs.Internal, "could not build llm request", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			logging.LLM("request attempt %d failed: %v", attempt, err)
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = errs.New(errs.LlmRateLimit, "rate limited (429)")
			continue
		}
		return body, resp.StatusCode, nil
	}
	if errs.KindOf(lastErr) == errs.LlmRateLimit {
		return nil, 0, errs.Wrap(errs.LlmRateLimit, "llm request still rate limited after retries", lastErr)
	}
	return nil, 0, errs.Wrap(errs.LlmNetwork, "llm request failed after retries", lastErr)
}
