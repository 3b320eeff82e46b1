package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/kbukum/sessionkit/errors"
	"github.com/kbukum/sessionkit/resilience"
	"github.com/kbukum/sessionkit/sse"
)

// Client is a JSON HTTP client for the lifecycle API.
type Client struct {
	httpClient *http.Client
	config     Config
	rl         *resilience.RateLimiter
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}
	if cfg.RateLimiter != nil {
		c.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.config.BaseURL }

// Do executes req and returns the complete response. A non-2xx answer is
// returned together with its AppError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.rl != nil {
		if err := c.rl.Wait(ctx); err != nil {
			return nil, classifyTransport(ctx, req.Op, err)
		}
	}

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(ctx, req.Op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(ctx, req.Op, err)
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}
	if appErr := classifyResponse(resp.StatusCode, body); appErr != nil {
		return result, appErr
	}
	return result, nil
}

// DoJSON executes req and decodes a 2xx body into out.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return apperrors.Internal(err).WithDetail("operation", req.Op)
	}
	return nil
}

// DoStream opens an event stream. The client timeout does not apply; the
// stream lives until ctx ends or the server closes it.
func (c *Client) DoStream(ctx context.Context, req Request) (*StreamResponse, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	streamClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streamClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(ctx, req.Op, err)
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, classifyResponse(resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		_ = resp.Body.Close()
		return nil, apperrors.ProtocolViolation("expected text/event-stream, got " + ct)
	}

	return &StreamResponse{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Events:     sse.NewReader(resp.Body),
	}, nil
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, apperrors.Validation("encode body: " + err.Error())
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, apperrors.Validation("create request: " + err.Error())
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	return httpReq, nil
}

func encodeBody(body any) (io.Reader, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
