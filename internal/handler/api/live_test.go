package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"LaborPulse/internal/domain/models"
	applogger "LaborPulse/pkg/logger"
)

func dialLiveHub(t *testing.T, hub *LiveHub) *websocket.Conn {
	t.Helper()
	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	// Wait for the server side to register the client.
	deadline := time.Now().Add(2 * time.Second)
	for hub.clientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(time.Millisecond)
	}
	return conn
}

func (h *LiveHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func TestLiveHubBroadcastsAdvisories(t *testing.T) {
	hub := NewLiveHub(applogger.Nop())
	conn := dialLiveHub(t, hub)

	adv := []models.Advisory{{Rule: "high-volatility", Text: "employment volatility above threshold"}}
	if err := hub.PublishAdvisories(context.Background(), adv); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got []models.Advisory
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(got) != 1 || got[0].Rule != "high-volatility" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestLiveHubConcurrentPublishers(t *testing.T) {
	hub := NewLiveHub(applogger.Nop())
	conn := dialLiveHub(t, hub)

	const publishers = 16
	adv := []models.Advisory{{Rule: "weak-hiring", Text: "mean hires below threshold"}}

	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = hub.PublishAdvisories(context.Background(), adv)
		}()
	}

	for i := 0; i < publishers; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got []models.Advisory
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
	}
	wg.Wait()

	if hub.clientCount() != 1 {
		t.Fatalf("client dropped during concurrent broadcast, %d left", hub.clientCount())
	}
}

func TestLiveHubSkipsEmptyEvaluations(t *testing.T) {
	hub := NewLiveHub(applogger.Nop())
	if err := hub.PublishAdvisories(context.Background(), nil); err != nil {
		t.Fatalf("empty publish failed: %v", err)
	}
}
