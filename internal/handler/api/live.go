package api

import (
	"context"
	"net/http"
	"sync"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
	xlogger "LaborPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// liveClient serializes writes to one connection. gorilla/websocket allows
// only a single concurrent writer, and advisories can be published from
// concurrent API requests.
type liveClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *liveClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// LiveHub pushes triggered advisories to connected websocket clients. It
// doubles as an AdvisoryPublisher so evaluations fan out to the bus and to
// live subscribers through the same interface.
type LiveHub struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]*liveClient
}

func NewLiveHub(logger *xlogger.Logger) *LiveHub {
	return &LiveHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*liveClient),
	}
}

// RegisterRoutes mounts the live endpoint.
func (h *LiveHub) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/live", h.Serve)
}

// Serve upgrades the connection and keeps it registered until the peer goes
// away.
func (h *LiveHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.clients[conn] = &liveClient{conn: conn}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("live client connected", xlogger.Int("clients", n))

	// Drain reads so pings and close frames are processed.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// PublishAdvisories broadcasts to every connected client.
func (h *LiveHub) PublishAdvisories(_ context.Context, advisories []models.Advisory) error {
	if len(advisories) == 0 {
		return nil
	}
	h.mu.Lock()
	clients := make([]*liveClient, 0, len(h.clients))
	for _, cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.Unlock()

	for _, cl := range clients {
		if err := cl.writeJSON(advisories); err != nil {
			h.drop(cl.conn)
		}
	}
	return nil
}

// Close disconnects all clients.
func (h *LiveHub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
	}
	h.clients = make(map[*websocket.Conn]*liveClient)
	return nil
}

func (h *LiveHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close()
	}
	h.mu.Unlock()
}

var _ domrepo.AdvisoryPublisher = (*LiveHub)(nil)
