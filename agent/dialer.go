package agent

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is a live message channel to the gateway.
type Conn interface {
	// ReadMessage blocks for the next text frame.
	ReadMessage() ([]byte, error)
	// WriteMessage sends one text frame. Safe for concurrent use.
	WriteMessage(data []byte) error
	Close() error
}

// Dialer opens Conns.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

const (
	wsWriteWait = 10 * time.Second
	wsReadLimit = 64 << 10
)

// WebSocketDialer dials the gateway with gorilla/websocket.
type WebSocketDialer struct {
	Dialer *websocket.Dialer
}

// Dial opens a WebSocket to url.
func (d WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(wsReadLimit)
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsConn) WriteMessage(data []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close sends a normal close frame, then closes the socket.
func (c *wsConn) Close() error {
	c.wmu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteWait))
	c.wmu.Unlock()
	return c.conn.Close()
}
