// Package remote talks to the external services behind the assistant:
// profile persistence, job search and interactions, the resume parser, the
// match service, the job tracker and cover-letter generation.
package remote

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// ErrNotConfigured is returned when the service's base URL is empty.
var ErrNotConfigured = errors.New("service URL is not configured")

// Config holds the base URLs and transport settings.
type Config struct {
	ProfileURL     string
	JobsURL        string
	ParserURL      string
	MatchURL       string
	CoverLetterURL string

	// APIKey is sent as a bearer token when set.
	APIKey  string
	Timeout time.Duration
	// RPS limits outbound requests per second; zero disables the limit.
	RPS   float64
	Burst int
	// LegacyProfiles makes profile writes use the v1 snake_case shape.
	LegacyProfiles bool
}

// Client calls the external services.
type Client struct {
	cfg     Config
	http    *resty.Client
	limiter *rate.Limiter
}

// New builds a client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	for _, u := range []*string{&cfg.ProfileURL, &cfg.JobsURL, &cfg.ParserURL, &cfg.MatchURL, &cfg.CoverLetterURL} {
		*u = strings.TrimRight(*u, "/")
	}

	hc := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "job-assistant/1.0")
	if cfg.APIKey != "" {
		hc.SetAuthToken(cfg.APIKey)
	}

	c := &Client{cfg: cfg, http: hc}
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return c
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// call executes a request and converts transport failures and non-2xx
// responses into APIError.
func (c *Client) call(ctx context.Context, endpoint, method, url string, req *resty.Request) (*resty.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &APIError{Endpoint: endpoint, Message: "rate limit wait cancelled", Cause: err}
		}
	}

	resp, err := req.SetContext(ctx).Execute(method, url)
	if err != nil {
		log.Printf("[remote] %s %s failed: %v", method, endpoint, err)
		return nil, &APIError{Endpoint: endpoint, Message: "request failed", Cause: err}
	}
	if resp.IsError() {
		msg := errorMessage(resp.StatusCode(), resp.Body())
		log.Printf("[remote] %s %s returned %d: %s", method, endpoint, resp.StatusCode(), msg)
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode(), Message: msg}
	}
	return resp, nil
}

func (c *Client) base(endpoint, url string) (string, error) {
	if url == "" {
		return "", &APIError{Endpoint: endpoint, Message: "not configured", Cause: ErrNotConfigured}
	}
	return url, nil
}

// unwrapData returns the "data" member when the body is an envelope,
// otherwise the body itself.
func unwrapData(body []byte, keys ...string) []byte {
	for _, key := range append(keys, "data") {
		if v := gjson.GetBytes(body, key); v.Exists() && (v.IsObject() || v.IsArray()) {
			return []byte(v.Raw)
		}
	}
	return body
}

func isStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

func malformed(endpoint string, err error) error {
	return &APIError{Endpoint: endpoint, Message: "malformed response", Cause: err}
}
