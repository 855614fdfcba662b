package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultPageSize   = 200
	defaultRetryAfter = 1 * time.Second
	maxNetworkRetries = 3
)

// APIError is a non-rate-limit failure reported by the Slack Web API
// (ok:false envelope or unexpected HTTP status). It is never retried here.
type APIError struct {
	Method string
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack api %s failed: %s", e.Method, e.Code)
}

// IsAlreadyInChannel reports whether err is the benign join outcome.
func IsAlreadyInChannel(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "already_in_channel"
}

// Client is a thin wrapper over the Slack Web API. A 429 response suspends
// the calling goroutine for the server-provided Retry-After and retries the
// same request; the shared limiter throttles all outgoing calls so concurrent
// sync workers do not amplify rate-limit pressure.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
}

// NewClient creates a Slack client. ratePerSec <= 0 disables client-side
// throttling (the 429 handling still applies).
func NewClient(token, baseURL string, ratePerSec float64) *Client {
	if baseURL == "" {
		baseURL = "https://slack.com/api"
	}

	var limiter *rate.Limiter
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}

	return &Client{
		token:      token,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    limiter,
		pageSize:   defaultPageSize,
	}
}

// apiEnvelope is the common part of every Slack API response.
type apiEnvelope struct {
	OK               bool   `json:"ok"`
	Error            string `json:"error"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

// call issues one API request, retrying transparently on 429. Transient
// network errors get a small bounded retry so one flaky page cannot loop
// forever; everything else surfaces immediately.
func (c *Client) call(ctx context.Context, method string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + "/" + method + "?" + params.Encode()

	netRetries := 0
	for {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			netRetries++
			if netRetries >= maxNetworkRetries {
				return fmt.Errorf("slack request %s failed after %d attempts: %w", method, netRetries, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			delay := retryAfter(resp)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			log.Printf("[Slack] rate limited on %s, retrying in %s", method, delay)
			if err := sleepCtx(ctx, delay); err != nil {
				return err
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("slack request %s: reading response: %w", method, err)
		}

		if resp.StatusCode != http.StatusOK {
			return &APIError{Method: method, Code: fmt.Sprintf("http_%d", resp.StatusCode)}
		}

		var env apiEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return fmt.Errorf("slack request %s: malformed response: %w", method, err)
		}
		if !env.OK {
			return &APIError{Method: method, Code: env.Error}
		}

		if out != nil {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("slack request %s: malformed response: %w", method, err)
			}
		}
		return nil
	}
}

// retryAfter reads the server-provided delay, falling back to one second.
func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultRetryAfter
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
