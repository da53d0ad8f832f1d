package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// HandlerConfig configures the upgrade endpoint
type HandlerConfig struct {
	AllowedOrigins  []string
	AllowAnyOrigin  bool
	ReadBufferSize  int
	WriteBufferSize int
	Timing          Timing
}

// Handler upgrades requests to WebSocket connections served by hub
func Handler(hub *Hub, cfg HandlerConfig, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = hub.logger
	}
	logger = logger.With(slog.String("handler", "websocket"))

	upgrader := websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r, cfg)
		},
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			logger.WarnContext(r.Context(), "WebSocket upgrade error",
				slog.Int("status", status),
				slog.String("reason", reason.Error()),
				slog.String("origin", r.Header.Get("Origin")))
			http.Error(w, http.StatusText(status), status)
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// the upgrader has already replied
			return
		}

		client := NewClient(hub, Wrap(conn), cfg.Timing, logger)
		logger.InfoContext(r.Context(), "WebSocket connection established",
			slog.String("client_id", client.ID()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("remote_addr", r.RemoteAddr))
		client.Serve()
	}
}

// originAllowed accepts requests without an Origin header, same-host
// origins and configured ones
func originAllowed(r *http.Request, cfg HandlerConfig) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || cfg.AllowAnyOrigin {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}
