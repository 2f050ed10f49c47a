package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer credential attached to authenticated
// requests. It is consulted on every request.
type TokenSource interface {
	Token() (string, error)
}

// TokenFunc adapts a plain function to TokenSource.
type TokenFunc func() (string, error)

// Token implements TokenSource.
func (f TokenFunc) Token() (string, error) { return f() }

// Client talks to the chirp HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	limiter   *rate.Limiter
	logger    logrus.FieldLogger
	userAgent string
}

const (
	defaultBaseURL   = "http://127.0.0.1:8080/api"
	defaultUserAgent = "chirp/0.1"
	requestTimeout   = 15 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Media uploads are bounded by
// their context instead.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero or negative leaves
// the client unlimited.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL. The path prefix of
// baseURL (for example "/api") is preserved for every request.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		tokens:    tokens,
		limiter:   rate.NewLimiter(rate.Inf, 0),
		logger:    logrus.StandardLogger(),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// request describes a single API call.
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	anonymous   bool
	// streaming requests are bounded by ctx only, not the client timeout.
	streaming bool
	// exactOK rejects every status but 200.
	exactOK bool
}

func (c *Client) getJSON(ctx context.Context, p string, query url.Values, dest any) error {
	return c.do(ctx, request{method: http.MethodGet, path: p, query: query}, dest)
}

func (c *Client) postJSON(ctx context.Context, p string, payload any, dest any, anonymous bool) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        p,
		body:        bytes.NewReader(raw),
		contentType: "application/json",
		anonymous:   anonymous,
	}, dest)
}

func (c *Client) do(ctx context.Context, r request, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	reqURL := c.resolve(r.path, r.query)
	req, err := http.NewRequestWithContext(ctx, r.method, reqURL.String(), r.body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	if !r.anonymous {
		token, err := c.bearer()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.WithFields(logrus.Fields{
		"method":     r.method,
		"path":       r.path,
		"request_id": requestID,
	})
	hc := c.http
	if r.streaming && hc.Timeout > 0 {
		unbounded := *hc
		unbounded.Timeout = 0
		hc = &unbounded
	}
	started := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	log.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"elapsed": time.Since(started).Round(time.Millisecond),
	}).Debug("request complete")

	if err := checkStatus(r.path, resp, r.exactOK); err != nil {
		return err
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) bearer() (string, error) {
	if c.tokens == nil {
		return "", fmt.Errorf("%w: no credential provider", ErrUnauthorized)
	}
	token, err := c.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrUnauthorized)
	}
	return token, nil
}

func (c *Client) resolve(p string, query url.Values) *url.URL {
	u := *c.baseURL
	u.Path = path.Join("/", c.baseURL.Path, p)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return &u
}

func checkStatus(p string, resp *http.Response, exactOK bool) error {
	if resp.StatusCode == http.StatusOK || (!exactOK && resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	statusErr := &StatusError{
		Path:    p,
		Code:    resp.StatusCode,
		Message: strings.TrimSpace(string(body)),
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %w", ErrUnauthorized, statusErr)
	}
	return statusErr
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// pathSegment validates a value interpolated into a URL path.
func pathSegment(label, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s required", label)
	}
	if strings.ContainsAny(value, "/?#") {
		return "", fmt.Errorf("invalid %s %q", label, value)
	}
	return value, nil
}

// IsUnauthorized reports whether err stems from a missing, expired, or
// rejected credential.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
