package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
)

const (
	// DefaultBaseURL is the public form API.
	DefaultBaseURL = "https://dynamic-form-generator-9rl7.onrender.com"
	// DefaultTimeout bounds each API request when no client timeout is set.
	DefaultTimeout = 30 * time.Second

	loginPath   = "/create-user"
	getFormPath = "/get-form"

	maxErrorBody = 1 << 10
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client. The client is copied; its
// timeout is filled from WithTimeout when unset.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			clone := *client
			c.http = &clone
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithClientLogger sets the logger used for request tracing.
func WithClientLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the form API. It implements Provider.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

var _ Provider = (*Client)(nil)

// NewClient builds a client for the API rooted at baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, goerr.Wrap(err, "invalid api base url", goerr.V("baseURL", baseURL))
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, goerr.New("api base url must be http or https", goerr.V("baseURL", baseURL))
	}

	c := &Client{
		base:    base,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Timeout == 0 {
		c.http.Timeout = c.timeout
	}
	return c, nil
}

// Login registers the identity with the API. It must succeed before the
// API serves a form for the roll number.
func (c *Client) Login(ctx context.Context, identity Identity) error {
	if err := identity.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(identity)
	if err != nil {
		return goerr.Wrap(err, "failed to encode login payload")
	}

	endpoint := c.endpoint(loginPath, nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return goerr.Wrap(err, "failed to build login request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("login succeeded", zap.String("rollNumber", identity.RollNumber))
	return nil
}

// FetchSchema retrieves the form assigned to the identity's roll number.
func (c *Client) FetchSchema(ctx context.Context, identity Identity) (*model.FormSchema, error) {
	roll := strings.TrimSpace(identity.RollNumber)
	if roll == "" {
		return nil, goerr.Wrap(ErrInvalidIdentity, "roll number is required")
	}

	endpoint := c.endpoint(getFormPath, url.Values{"rollNumber": {roll}})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build form request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope model.FormResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", ErrDecode, err), "invalid form response", goerr.V("url", endpoint))
	}
	c.logger.Debug("form fetched",
		zap.String("rollNumber", roll),
		zap.String("form", envelope.Form.Title),
		zap.Int("sections", len(envelope.Form.Sections)),
	)
	return &envelope.Form, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", ErrFetch, err), "form api request failed",
			goerr.V("method", req.Method),
			goerr.V("url", req.URL.String()),
		)
	}
	c.logger.Debug("form api call",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return resp, nil
}
