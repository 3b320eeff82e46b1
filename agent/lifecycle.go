package agent

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	apperrors "github.com/kbukum/sessionkit/errors"
	"github.com/kbukum/sessionkit/event"
	"github.com/kbukum/sessionkit/httpclient"
	"github.com/kbukum/sessionkit/lifecycle"
)

// Lifecycle is the request/response API the agent talks to.
type Lifecycle interface {
	Create(ctx context.Context) (lifecycle.Created, error)
	Verify(ctx context.Context, code string) (lifecycle.Verified, error)
	Roster(ctx context.Context, code string) (lifecycle.Roster, error)
}

// HTTPLifecycle implements Lifecycle over the lifecycle HTTP routes.
type HTTPLifecycle struct {
	client *httpclient.Client
}

// NewHTTPLifecycle creates a lifecycle client for cfg.BaseURL.
func NewHTTPLifecycle(cfg httpclient.Config) (*HTTPLifecycle, error) {
	c, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &HTTPLifecycle{client: c}, nil
}

func (h *HTTPLifecycle) Create(ctx context.Context) (out lifecycle.Created, err error) {
	err = h.client.DoJSON(ctx, httpclient.Request{
		Op:     "create",
		Method: http.MethodPost,
		Path:   lifecycle.PathCreate,
	}, &out)
	return out, err
}

func (h *HTTPLifecycle) Verify(ctx context.Context, code string) (out lifecycle.Verified, err error) {
	err = h.client.DoJSON(ctx, httpclient.Request{
		Op:     "verify",
		Method: http.MethodGet,
		Path:   "/api/verify-session/" + url.PathEscape(code),
	}, &out)
	return out, err
}

func (h *HTTPLifecycle) Roster(ctx context.Context, code string) (out lifecycle.Roster, err error) {
	err = h.client.DoJSON(ctx, httpclient.Request{
		Op:     "roster",
		Method: http.MethodGet,
		Path:   "/api/session/" + url.PathEscape(code) + "/participants",
	}, &out)
	return out, err
}

// Watch follows a session's broadcasts without joining it, calling fn for
// each event until ctx ends or the server closes the stream.
func (h *HTTPLifecycle) Watch(ctx context.Context, code string, fn func(event.Event)) error {
	stream, err := h.client.DoStream(ctx, httpclient.Request{
		Op:     "watch",
		Method: http.MethodGet,
		Path:   "/api/session/" + url.PathEscape(code) + "/watch",
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		f, err := stream.Events.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return apperrors.TransportFailure("watch", err)
		}
		ev, err := event.Decode(f.Data)
		if err != nil {
			continue
		}
		fn(ev)
	}
}
