package handlers

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"numcom/server/messages"
	"numcom/server/network"
	"numcom/server/services"
)

// ClientHandler manages a single client connection
type ClientHandler struct {
	id      string
	conn    *network.Connection
	game    *services.GameService
	limiter *rate.Limiter
	logger  *zap.Logger
	joined  bool
}

// HandleClientConnection serves one connection until it closes, then removes its player
func HandleClientConnection(conn *network.Connection, game *services.GameService, limiter *rate.Limiter, logger *zap.Logger) {
	id := uuid.New().String()
	handler := &ClientHandler{
		id:      id,
		conn:    conn,
		game:    game,
		limiter: limiter,
		logger:  logger.With(zap.String("player_id", id)),
	}

	handler.logger.Info("new connection", zap.String("remote_addr", conn.RemoteAddr()))

	// Start the write pump in a goroutine
	go conn.WritePump()

	// Handle the read pump in the current goroutine
	conn.ReadPump(handler)

	// Clean up when the connection is closed
	if handler.joined {
		game.Disconnect(id)
	}
	handler.logger.Info("connection closed")
}

// HandleMessage handles incoming messages from the client
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	var msg messages.InboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		h.logger.Warn("discarding malformed message", zap.Error(err))
		return
	}

	switch msg.Type {
	case messages.MessageTypeJoin:
		h.handleJoin()
	case messages.MessageTypeNumberCommand:
		h.handleNumberCommand(msg.Payload)
	default:
		h.logger.Warn("unknown message type", zap.String("type", string(msg.Type)))
	}
}

// handleJoin enters the connection into the shared world
func (h *ClientHandler) handleJoin() {
	err := h.game.Join(h.id, h.conn)
	switch {
	case err == nil:
		h.joined = true
	case errors.Is(err, services.ErrPlayerExists):
		// already in the world, the first join stands
	default:
		h.logger.Error("join failed", zap.Error(err))
	}
}

// handleNumberCommand moves the player toward an exact-sum target
func (h *ClientHandler) handleNumberCommand(payload json.RawMessage) {
	if h.limiter != nil && !h.limiter.Allow() {
		h.logger.Debug("number command rate limited")
		h.game.RejectCommand(h.id)
		return
	}

	h.game.NumberCommand(h.id, payload)
}
