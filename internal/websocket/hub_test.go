package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/events"
)

func TestHubBroadcastsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r, "tester")
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	var pub events.Publisher = hub
	pub.Publish(ctx, events.New(events.CountRegistered, "ana", map[string]string{"ean": "7891234567895"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got events.Event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != events.CountRegistered || got.Actor != "ana" {
		t.Errorf("unexpected event %+v", got)
	}
}

func TestBroadcastWithoutRunningHubDoesNotBlock(t *testing.T) {
	hub := NewHub()
	for i := 0; i < 300; i++ {
		hub.Broadcast(map[string]int{"n": i})
	}
}

func TestReplyAfterHubDroppedClient(t *testing.T) {
	hub := NewHub()
	c := &Client{hub: hub, send: make(chan []byte, 1), ID: "web_test"}

	if !c.trySend(map[string]string{"type": "PONG"}) {
		t.Fatal("reply should be queued on an open client")
	}

	hub.mu.Lock()
	c.closeSend()
	c.closeSend()
	hub.mu.Unlock()

	if c.trySend(map[string]string{"type": "PONG"}) {
		t.Error("reply to a dropped client should be discarded")
	}
}

func TestRepliesRaceWithShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := &Client{hub: hub, send: make(chan []byte, 4), ID: "web_race"}
	hub.register <- c

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			c.trySend(map[string]int{"n": i})
		}
	}()
	cancel()
	<-stopped
	<-done

	if hub.Clients() != 0 {
		t.Errorf("Clients() = %d after shutdown", hub.Clients())
	}
}
