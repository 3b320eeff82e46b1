package sse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kbukum/sessionkit/logger"
)

// DefaultKeepAlive stays under common proxy idle timeouts.
const DefaultKeepAlive = 30 * time.Second

// ErrStreamingUnsupported is returned when the writer cannot flush.
var ErrStreamingUnsupported = errors.New("sse: streaming not supported")

// ServeOptions tunes Serve.
type ServeOptions struct {
	KeepAlive time.Duration
	Log       *logger.Logger
}

// Serve writes SSE headers and then streams frames from s until the request
// context ends or s is closed. A keep-alive comment is written whenever the
// stream is idle for KeepAlive.
func Serve(w http.ResponseWriter, r *http.Request, s *Stream, opts ServeOptions) error {
	log := opts.Log
	if log == nil {
		log = logger.WithComponent("sse")
	}
	keepAlive := opts.KeepAlive
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return ErrStreamingUnsupported
	}

	// Long-lived response; ignore the server write deadline if one is set.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Debug("could not clear write deadline", logger.ErrorFields("sse.serve", err))
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.Done():
			return nil
		case f := <-s.frames:
			if err := WriteFrame(w, f); err != nil {
				return err
			}
			flusher.Flush()
			ticker.Reset(keepAlive)
		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix()); err != nil {
				return err
			}
			flusher.Flush()
		}
	}
}

// WriteFrame writes f in text/event-stream framing. Multi-line data is split
// across data fields.
func WriteFrame(w io.Writer, f Frame) error {
	var buf bytes.Buffer
	if f.Event != "" {
		fmt.Fprintf(&buf, "event: %s\n", f.Event)
	}
	for _, line := range bytes.Split(f.Data, []byte("\n")) {
		buf.WriteString("data: ")
		buf.Write(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
