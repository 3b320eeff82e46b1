package gateway

import (
	"errors"

	"github.com/kbukum/sessionkit/event"
)

var (
	// ErrChannelClosed is returned by Send once the channel is gone.
	ErrChannelClosed = errors.New("gateway: channel closed")
	// ErrChannelFull is returned by Send when the client is not draining its queue.
	ErrChannelFull = errors.New("gateway: channel send queue full")
)

// Frame is an encoded event ready for a transport.
type Frame struct {
	Type event.Type
	Data []byte
}

// Channel is one live, bidirectional client connection. Send must not block:
// a slow client yields ErrChannelFull instead of stalling a broadcast.
type Channel interface {
	ID() string
	Transport() string
	Send(f Frame) error
	Close() error
}
