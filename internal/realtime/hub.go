package realtime

import (
	"net/http"
	"time"

	"geofence-bknd/internal/logger"
	"geofence-bknd/internal/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// HubOptions tunes the keepalive loop.
type HubOptions struct {
	PingInterval   time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// Hub accepts push connections and keeps them registered until they go away.
type Hub struct {
	registry *Registry
	upgrader websocket.Upgrader
	opts     HubOptions
	logr     *logger.Logger
}

func NewHub(registry *Registry, opts HubOptions, logr *logger.Logger) *Hub {
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if logr == nil {
		logr = logger.Nop()
	}

	h := &Hub{registry: registry, opts: opts, logr: logr}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.opts.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// ServeRole upgrades the request and holds the connection in role's slot.
// The previous holder of the slot, if any, is closed.
func (h *Hub) ServeRole(role Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logr.Warn("websocket upgrade failed", zap.String("role", string(role)), zap.Error(err))
			return
		}

		conn := newConn(uuid.NewString(), role, ws, h.opts.WriteTimeout)
		log := h.logr.With(zap.String("role", string(role)), zap.String("channel_id", conn.ID()))

		if prev := h.registry.Register(role, conn); prev != nil {
			log.Info("superseding previous channel", zap.String("previous_id", prev.ID()))
			if pc, ok := prev.(*Conn); ok {
				pc.supersede()
			} else {
				_ = prev.Close()
			}
		}
		metrics.SubscribersConnected.WithLabelValues(string(role)).Set(1)
		log.Info("channel connected", zap.String("remote", r.RemoteAddr))

		defer func() {
			if h.registry.Unregister(role, conn) {
				metrics.SubscribersConnected.WithLabelValues(string(role)).Set(0)
			}
			_ = conn.Close()
			log.Info("channel disconnected")
		}()

		h.keepalive(conn)
	}
}

// keepalive blocks until the remote side goes away or a ping cannot be written.
// Client messages are read and discarded.
func (h *Hub) keepalive(c *Conn) {
	readWait := 2 * h.opts.PingInterval
	_ = c.ws.SetReadDeadline(time.Now().Add(readWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(readWait))
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ws.ReadMessage(); err != nil {
				return
			}
			_ = c.ws.SetReadDeadline(time.Now().Add(readWait))
		}
	}()

	ticker := time.NewTicker(h.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.opts.WriteTimeout)); err != nil {
				return
			}
		}
	}
}
