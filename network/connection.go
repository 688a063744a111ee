package network

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("send buffer full")
)

// Connection wraps the WebSocket connection with additional fields
type Connection struct {
	ws         *websocket.Conn
	send       chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	pingPeriod time.Duration
	logger     *zap.Logger
}

// NewConnection creates a new connection wrapper
func NewConnection(ws *websocket.Conn, sendBuffer int, pingPeriod time.Duration, logger *zap.Logger) *Connection {
	return &Connection{
		ws:         ws,
		send:       make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		pingPeriod: pingPeriod,
		logger:     logger,
	}
}

// ReadPump reads messages from the WebSocket connection until it fails or closes
func (c *Connection) ReadPump(h MessageHandler) {
	defer c.Close()

	pongWait := c.pingPeriod * 2
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("error reading message", zap.Error(err))
			}
			return
		}

		h.HandleMessage(c, message)
	}
}

// WritePump writes queued messages and keepalive pings to the WebSocket connection
func (c *Connection) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))

			w, err := c.ws.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.ws.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
			return
		}
	}
}

// SendMessage queues a message for the client. A client that cannot keep up
// with its queue is disconnected.
func (c *Connection) SendMessage(msg interface{}) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		c.Close()
		return ErrSendBufferFull
	}
}

// Close stops both pumps. It is safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

// RemoteAddr returns the peer address
func (c *Connection) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// MessageHandler interface for handling messages
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}
