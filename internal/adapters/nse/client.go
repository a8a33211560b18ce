// Package nse polls NSE's public JSON endpoints for option-chain and
// derivative quotes. There is no login: the exchange only wants a
// browser-like session cookie, which the client picks up from the home
// page and refreshes when it goes stale.
package nse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.nseindia.com"

	chainPath = "/api/option-chain-indices"
	quotePath = "/api/quote-derivative"

	// NSE tolerates very little; stay well under the informal limit.
	requestsPerSec = 2

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond

	// Session cookies rot after a few minutes of reuse.
	sessionTTL = 5 * time.Minute

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Client is the NSE HTTP client with rate limiting, retries and
// automatic session refresh.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter

	mu       sync.Mutex
	warmedAt time.Time
}

// NewClient creates a Client against the given base URL.
// An empty baseURL means the production exchange.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second, Jar: jar},
		baseURL: baseURL,
		limiter: rate.NewLimiter(requestsPerSec, 1),
	}
}

// ensureSession fetches the home page so the cookie jar holds a fresh
// session. force skips the TTL check and is used after a 401/403.
func (c *Client) ensureSession(ctx context.Context, force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !force && time.Since(c.warmedAt) < sessionTTL {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	c.setBrowserHeaders(req)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("warm session: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	c.warmedAt = time.Now()
	return nil
}

// get does a GET with session warm-up, rate limiting and retries.
func (c *Client) get(ctx context.Context, url string, out any) error {
	forceWarm := false
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.ensureSession(ctx, forceWarm); err != nil {
			return fmt.Errorf("session: %w", err)
		}
		forceWarm = false

		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		c.setBrowserHeaders(req)
		req.Header.Set("Accept", "application/json, text/plain, */*")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			// Session cookie expired mid-flight: rebuild and go again.
			resp.Body.Close()
			forceWarm = true
			c.sleep(ctx, attempt)
			continue

		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			slog.Warn("rate limited by NSE", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue

		case resp.StatusCode >= 500:
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue

		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// setBrowserHeaders makes the request look like the option-chain page.
// NSE serves 401s to anything that does not.
func (c *Client) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", c.baseURL+"/option-chain")
}

// sleep waits with exponential backoff, honoring the context.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
