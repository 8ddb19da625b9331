package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// HTTPOption configures an HTTPSink.
type HTTPOption func(*HTTPSink)

// WithClient overrides the HTTP client.
func WithClient(client *http.Client) HTTPOption {
	return func(s *HTTPSink) {
		if client != nil {
			s.client = client
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(s *HTTPSink) {
		s.header.Set(key, value)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) HTTPOption {
	return func(s *HTTPSink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// HTTPSink POSTs submissions as JSON.
type HTTPSink struct {
	url    string
	client *http.Client
	header http.Header
	logger *zap.Logger
}

// NewHTTPSink targets url, which must be http or https.
func NewHTTPSink(url string, opts ...HTTPOption) (*HTTPSink, error) {
	lower := strings.ToLower(url)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return nil, goerr.New("submit url must be http or https", goerr.V("url", url))
	}
	s := &HTTPSink{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		header: make(http.Header),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Submit sends values and expects a 2xx response.
func (s *HTTPSink) Submit(ctx context.Context, values model.FormValues) error {
	body, err := json.Marshal(values)
	if err != nil {
		return goerr.Wrap(fmt.Errorf("%w: %w", ErrSink, err), "failed to encode submission")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(fmt.Errorf("%w: %w", ErrSink, err), "failed to build submission request")
	}
	for key, vals := range s.header {
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return goerr.Wrap(fmt.Errorf("%w: %w", ErrSink, err), "submission request failed", goerr.V("url", s.url))
	}
	defer resp.Body.Close()
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return goerr.Wrap(ErrSink, "submission rejected",
			goerr.V("url", s.url),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", strings.TrimSpace(string(snippet))),
		)
	}
	s.logger.Debug("submission delivered", zap.String("url", s.url), zap.Int("status", resp.StatusCode))
	return nil
}
