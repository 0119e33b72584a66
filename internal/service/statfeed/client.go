package statfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"LaborPulse/internal/domain/models"
	drepo "LaborPulse/internal/domain/repository"
	applogger "LaborPulse/pkg/logger"
	"LaborPulse/pkg/util"

	"github.com/gorilla/websocket"
)

// Client implements an ObservationFeed backed by a statistics agency
// WebSocket release stream.
type Client struct {
	apiKey         string
	websocketURL   string
	entities       []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	logger         *applogger.Logger

	// mu guards conn and connected; Reconnect and Close race with the ping
	// and read goroutines.
	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

func (c *Client) currentConn() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// New creates a new statistics feed client.
func New(apiKey, websocketURL string, entities []string, reconnectDelay, pingInterval time.Duration, l *applogger.Logger) drepo.ObservationFeed {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		entities:       entities,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		logger:         l,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := c.websocketURL
	if c.apiKey != "" {
		u = fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("statfeed connect: %w", err)
	}
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	c.logger.Info("statfeed: connected")
	return nil
}

// Subscribe subscribes to configured industries.
func (c *Client) Subscribe(ctx context.Context) error {
	conn := c.currentConn()
	if conn == nil || !c.IsConnected() {
		return fmt.Errorf("statfeed not connected")
	}
	for _, e := range c.entities {
		msg := map[string]string{"type": "subscribe", "series": e}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", e, err)
		}
		c.logger.Info("statfeed: subscribed", applogger.String("entity", e))
	}
	return nil
}

type feedRecord struct {
	Series      string  `json:"series"`
	Period      string  `json:"period"`
	Employment  float64 `json:"employment"`
	Openings    float64 `json:"openings"`
	Hires       float64 `json:"hires"`
	Separations float64 `json:"separations"`
}

type feedMessage struct {
	Type string       `json:"type"`
	Data []feedRecord `json:"data"`
}

// Read streams observation records and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.Observation, <-chan error) {
	records := make(chan *models.Observation, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if conn := c.currentConn(); conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// Read binds to the connection current at call time; after a reconnect
	// the caller gets fresh channels by calling Read again, and this loop
	// exits with a read error on the closed connection.
	conn := c.currentConn()
	go func() {
		defer close(records)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if conn == nil {
					errs <- fmt.Errorf("statfeed conn nil")
					return
				}
				_, b, err := conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("statfeed read: %w", err)
					return
				}
				var m feedMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-release frames
					continue
				}
				if m.Type != "release" {
					continue
				}
				for _, d := range m.Data {
					period, ok := util.ParsePeriod(d.Period)
					if !ok {
						c.logger.Warn("statfeed: bad period", applogger.String("period", d.Period))
						continue
					}
					o := &models.Observation{
						Entity:          d.Series,
						Period:          period,
						EmploymentLevel: d.Employment,
						JobOpenings:     d.Openings,
						Hires:           d.Hires,
						Separations:     d.Separations,
					}
					select {
					case records <- o:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return records, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
