package httpclient

import (
	"github.com/kbukum/sessionkit/sse"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Op names the operation in errors, e.g. "verify".
	Op string
	// Method is the HTTP method.
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL if BaseURL is empty.
	Path string
	// Headers are request-specific headers (merged with client defaults).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is JSON-encoded when non-nil; []byte is sent as-is.
	Body any
}

// Response is the result of an HTTP request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StreamResponse is an open event stream. The caller must Close it.
type StreamResponse struct {
	StatusCode int
	Headers    map[string]string
	Events     *sse.Reader
}

// Close releases the underlying connection.
func (r *StreamResponse) Close() error {
	return r.Events.Close()
}
