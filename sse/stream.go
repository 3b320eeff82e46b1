package sse

import (
	"errors"
	"sync"
)

var (
	// ErrClosed is returned by Send after Close.
	ErrClosed = errors.New("sse: stream closed")
	// ErrFull is returned by Send when the subscriber is not keeping up.
	ErrFull = errors.New("sse: stream buffer full")
)

// DefaultBuffer is the per-stream queue size.
const DefaultBuffer = 64

// Frame is one SSE message. Event is omitted from the wire when empty.
type Frame struct {
	Event string
	Data  []byte
}

// Stream is a single subscriber: a bounded queue drained by Serve.
type Stream struct {
	id     string
	frames chan Frame
	done   chan struct{}
	once   sync.Once
}

// NewStream creates a stream with the given queue size (DefaultBuffer if <= 0).
func NewStream(id string, buffer int) *Stream {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Stream{
		id:     id,
		frames: make(chan Frame, buffer),
		done:   make(chan struct{}),
	}
}

func (s *Stream) ID() string { return s.id }

// Send enqueues f without blocking.
func (s *Stream) Send(f Frame) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.frames <- f:
		return nil
	case <-s.done:
		return ErrClosed
	default:
		return ErrFull
	}
}

// Close stops the stream; Serve returns after it. Safe to call repeatedly.
func (s *Stream) Close() {
	s.once.Do(func() { close(s.done) })
}

// Done is closed once the stream is closed.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}
