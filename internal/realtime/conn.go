package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn adapts a gorilla websocket to Channel. Writes are serialized because
// broadcasts may come from any request goroutine.
type Conn struct {
	id           string
	role         Role
	ws           *websocket.Conn
	writeTimeout time.Duration

	mu        sync.Mutex
	closeOnce sync.Once
}

func newConn(id string, role Role, ws *websocket.Conn, writeTimeout time.Duration) *Conn {
	return &Conn{id: id, role: role, ws: ws, writeTimeout: writeTimeout}
}

func (c *Conn) ID() string { return c.id }

func (c *Conn) Send(ctx context.Context, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.ws.WriteJSON(payload)
}

// Close sends a close frame and releases the socket. Safe to call repeatedly.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closed")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.writeTimeout))
		err = c.ws.Close()
	})
	return err
}

// supersede closes the connection telling the client a newer one took its slot.
func (c *Conn) supersede() {
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "superseded")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.writeTimeout))
		_ = c.ws.Close()
	})
}
