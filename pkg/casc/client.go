package casc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "adtfetch/pkg/errors"
	"adtfetch/pkg/logger"
	"adtfetch/pkg/retry"
)

// Result is one successful fetch: the body bytes and the full response
// header set, from which the trusted filename is later resolved.
type Result struct {
	Body   []byte
	Header http.Header
}

// Options configures a Client
type Options struct {
	BaseURL     string
	UserAgent   string
	Token       string // optional bearer token
	Timeout     time.Duration
	MaxAttempts int
	Backoff     retry.BackoffStrategy
}

// Client fetches CASC files by numeric ID with bounded retries
type Client struct {
	httpClient  *http.Client
	baseURL     string
	headers     map[string]string
	maxAttempts int
	backoff     retry.BackoffStrategy
	logger      logger.Logger
}

// NewClient creates a CASC API client
func NewClient(opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "adtfetch/1.0"
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Backoff == nil {
		opts.Backoff = &retry.LinearBackoff{BaseDelay: 1500 * time.Millisecond}
	}

	headers := map[string]string{
		"User-Agent": opts.UserAgent,
		"Accept":     "*/*",
	}
	if opts.Token != "" {
		headers["Authorization"] = "Bearer " + opts.Token
	}

	return &Client{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		baseURL:     opts.BaseURL,
		headers:     headers,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		logger:      log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// Fetch downloads one file ID. Transient statuses (429 and the retryable
// 5xx set) and network failures retry with backoff up to MaxAttempts; any
// other non-2xx status is surfaced immediately without retrying, notably
// 404, which the caller classifies as "asset absent".
func (c *Client) Fetch(ctx context.Context, id int) (*Result, error) {
	url := FileURL(c.baseURL, id)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		result, retryable, err := c.attempt(ctx, url)
		if err == nil {
			if attempt > 1 {
				c.logger.DebugWithFields("fetch succeeded after retry", map[string]interface{}{
					"id":      id,
					"attempt": attempt,
				})
			}
			return result, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err

		if attempt == c.maxAttempts {
			break
		}

		delay := c.backoff.NextDelay(attempt)
		c.logger.WarnWithFields("retrying fetch", map[string]interface{}{
			"id":           id,
			"attempt":      attempt,
			"max_attempts": c.maxAttempts,
			"delay":        delay,
			"error":        err.Error(),
		})
		if werr := retry.Wait(ctx, delay); werr != nil {
			return nil, fmt.Errorf("fetch cancelled: %w", werr)
		}
	}

	c.logger.ErrorWithFields("fetch attempts exhausted", map[string]interface{}{
		"id":         id,
		"attempts":   c.maxAttempts,
		"last_error": lastErr.Error(),
	})
	return nil, errs.ExhaustedError(c.maxAttempts, lastErr)
}

// attempt performs a single request. The second return value reports
// whether the failure is worth retrying.
func (c *Client) attempt(ctx context.Context, url string) (*Result, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, errs.NetworkError(err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, fmt.Errorf("fetch cancelled: %w", ctx.Err())
		}
		return nil, true, errs.NetworkError(err)
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("fetch attempt completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := errs.HTTPStatusError(resp.StatusCode)
		return nil, errs.IsRetryableStatusCode(resp.StatusCode), statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, errs.NetworkError(err)
	}

	return &Result{Body: body, Header: resp.Header}, false, nil
}
