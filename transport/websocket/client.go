package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 16
	writeWait      = 10 * time.Second
)

// Client is one live connection. Writes go through a buffered channel so
// a slow peer can never stall a room broadcast; the write pump is the
// only goroutine touching the underlying connection for writes.
type Client struct {
	ID        string
	SessionID string

	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func newClient(id, sessionID string, conn *websocket.Conn) *Client {
	return &Client{
		ID:        id,
		SessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
	}
}

// Send queues a message for delivery. When the buffer is full the
// message is dropped; the client will resync via get-game-state.
func (that *Client) Send(message Message) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	select {
	case that.send <- raw:
		return nil
	default:
		return fmt.Errorf("send buffer full for connection %s", that.ID)
	}
}

// writePump drains the send channel onto the wire until Close.
func (that *Client) writePump() {
	for raw := range that.send {
		_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := that.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			return
		}
	}

	_ = that.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
}

// Close shuts the send channel and the connection exactly once.
func (that *Client) Close() {
	that.closeOnce.Do(func() {
		close(that.send)
		if that.conn != nil {
			_ = that.conn.Close()
		}
	})
}
