package twelvelabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"reelcheck/internal/textutil"
)

const (
	defaultBaseURL        = "https://api.twelvelabs.io/v1.2"
	defaultHTTPTimeout    = 120 * time.Second
	defaultRetryMaxDelay  = 30 * time.Second
	defaultRetryBaseDelay = 2 * time.Second
	defaultRetryAttempts  = 4
	defaultPageLimit      = 50
	maxPages              = 100
)

// Config captures the runtime settings required to talk to the provider.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// DefaultBaseURL returns the API root used when none is configured.
func DefaultBaseURL() string {
	return defaultBaseURL
}

// Client wraps the video-understanding REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default retry count.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Video is one indexed video.
type Video struct {
	ID        string `json:"_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Metadata  struct {
		Filename string  `json:"filename"`
		Duration float64 `json:"duration"`
	} `json:"metadata"`
}

// StatusError is a non-2xx response from the provider.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("twelvelabs request: http %d: %s", e.StatusCode, textutil.Snippet(e.Body))
}

// ErrorKind classifies the failure: rejected credentials and unknown videos
// need operator attention, everything else is worth retrying later.
func (e *StatusError) ErrorKind() string {
	switch {
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return "configuration"
	case e.StatusCode == http.StatusNotFound:
		return "not_found"
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return "validation"
	default:
		return "transient"
	}
}

type generateRequest struct {
	VideoID string `json:"video_id"`
	Prompt  string `json:"prompt"`
}

type generateResponse struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

type listVideosResponse struct {
	Data     []Video `json:"data"`
	PageInfo struct {
		Page       int `json:"page"`
		TotalPage  int `json:"total_page"`
		TotalCount int `json:"total_results"`
	} `json:"page_info"`
}

// GenerateText asks the provider to answer a prompt about one video and
// returns the free-form reply.
func (c *Client) GenerateText(ctx context.Context, videoID, prompt string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	prompt = strings.TrimSpace(prompt)
	if videoID == "" {
		return "", errors.New("twelvelabs generate: video id required")
	}
	if prompt == "" {
		return "", errors.New("twelvelabs generate: prompt required")
	}
	if c.cfg.APIKey == "" {
		return "", errors.New("twelvelabs generate: api key required")
	}
	body, err := json.Marshal(generateRequest{VideoID: videoID, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("twelvelabs generate: encode body: %w", err)
	}
	var resp generateResponse
	if err := c.doWithRetry(ctx, http.MethodPost, "/generate", nil, body, &resp, "twelvelabs generate"); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Data) == "" {
		return "", fmt.Errorf("twelvelabs generate: empty response for video %s", videoID)
	}
	return resp.Data, nil
}

// ListVideos returns every video in an index, following pagination.
func (c *Client) ListVideos(ctx context.Context, indexID string) ([]Video, error) {
	indexID = strings.TrimSpace(indexID)
	if indexID == "" {
		return nil, errors.New("twelvelabs list videos: index id required")
	}
	if c.cfg.APIKey == "" {
		return nil, errors.New("twelvelabs list videos: api key required")
	}
	var videos []Video
	path := "/indexes/" + url.PathEscape(indexID) + "/videos"
	for page := 1; page <= maxPages; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("page_limit", strconv.Itoa(defaultPageLimit))
		var resp listVideosResponse
		if err := c.doWithRetry(ctx, http.MethodGet, path, query, nil, &resp, "twelvelabs list videos"); err != nil {
			return nil, err
		}
		videos = append(videos, resp.Data...)
		if len(resp.Data) == 0 || resp.PageInfo.TotalPage <= page {
			break
		}
	}
	return videos, nil
}

// HealthCheck verifies the API key with a single cheap request.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.cfg.APIKey == "" {
		return errors.New("twelvelabs health: api key required")
	}
	query := url.Values{}
	query.Set("page_limit", "1")
	var discard json.RawMessage
	return c.doWithRetry(ctx, http.MethodGet, "/indexes", query, nil, &discard, "twelvelabs health")
}

func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values, body []byte, target any, op string) error {
	attempts := c.retryAttempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.doOnce(ctx, method, path, query, body, target)
		if err == nil {
			return nil
		}
		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := c.sleep(ctx, delay); err != nil {
			return err
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, lastErr)
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body []byte, target any) error {
	endpoint, err := url.JoinPath(c.cfg.BaseURL, path)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http error (timeout=%s): %w", c.timeoutDuration(), err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body (timeout=%s): %w", c.timeoutDuration(), err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(payload)),
			RetryAfter: retryAfter,
		}
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode response: %w (payload snippet: %s)", err, textutil.Snippet(string(payload)))
	}
	return nil
}

func (c *Client) timeoutDuration() time.Duration {
	if c == nil || c.httpClient == nil || c.httpClient.Timeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.httpClient.Timeout
}

func (c *Client) retryAttempts() int {
	if c == nil || c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil {
		return 0, false
	}
	if ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return c.capDelay(statusErr.RetryAfter), true
			}
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}
	return 0, false
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	base := defaultRetryBaseDelay
	maxDelay := defaultRetryMaxDelay
	if c != nil {
		if c.retryBaseDelay >= 0 {
			base = c.retryBaseDelay
		}
		if c.retryMaxDelay > 0 {
			maxDelay = c.retryMaxDelay
		}
	}
	if base <= 0 {
		return 0
	}
	if attempt <= 0 {
		attempt = 1
	}

	// attempt 1 -> base, attempt 2 -> base*2, attempt 3 -> base*4, ...
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			delay = maxDelay
			break
		}
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	maxDelay := defaultRetryMaxDelay
	if c != nil && c.retryMaxDelay > 0 {
		maxDelay = c.retryMaxDelay
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c != nil && c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}
