package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"numcom/server/config"
	"numcom/server/network"
	"numcom/server/persistence"
	"numcom/server/services"
)

const defaultMatchLimit = 20

// Server exposes the game over HTTP
type Server struct {
	cfg      config.ServerConfig
	game     *services.GameService
	store    persistence.Storage
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewServer creates the HTTP front of the game
func NewServer(cfg config.ServerConfig, game *services.GameService, store persistence.Storage, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		game:   game,
		store:  store,
		logger: logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Routes registers every endpoint on a new mux
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.ServeWS)
	mux.HandleFunc("/healthz", s.ServeHealth)
	mux.HandleFunc("/matches", s.ServeMatches)
	return mux
}

// ServeWS upgrades the request and runs the connection until it closes
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	pingPeriod, err := s.cfg.PingInterval()
	if err != nil {
		pingPeriod = 30 * time.Second
	}

	conn := network.NewConnection(ws, s.cfg.SendBuffer, pingPeriod, s.logger)
	HandleClientConnection(conn, s.game, s.newLimiter(), s.logger)
}

// ServeHealth reports liveness and a little state
func (s *Server) ServeHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"players": s.game.Players().Count(),
		"world":   s.game.World().World() != nil,
	})
}

// ServeMatches lists archived matches, newest first
func (s *Server) ServeMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultMatchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	matches, err := s.store.RecentMatches(limit)
	if err != nil {
		s.logger.Error("loading matches", zap.Error(err))
		http.Error(w, "failed to load matches", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) newLimiter() *rate.Limiter {
	if s.cfg.CommandRate <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(s.cfg.CommandRate), s.cfg.CommandBurst)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range s.cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
