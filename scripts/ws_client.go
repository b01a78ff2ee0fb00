// Package main runs a demo WebSocket client for optimization events.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const demoRequest = `{
  "vehicles": [{"id": "truck-1", "capacity": 10, "start_index": 0, "end_index": 0}],
  "jobs": [
    {"id": "stop-a", "demand": 3, "location_index": 1, "service": 5},
    {"id": "stop-b", "demand": 4, "location_index": 2, "service": 5}
  ],
  "matrix": [[0, 10, 15], [10, 0, 7], [15, 7, 0]],
  "options": {"time_limit_ms": 500, "return_to_depot": true}
}`

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	token := os.Getenv("AUTH_TOKEN")
	base := fmt.Sprintf("http://localhost:%s", port)

	// Connect WS first so the event is not missed
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/events/ws"}
	hdr := http.Header{}
	if token != "" {
		hdr.Set("Authorization", "Bearer "+token)
	}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), hdr)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var m wsMessage
			if err := c.ReadJSON(&m); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %s", m.Type, string(m.Payload))
			if m.Type == "next" {
				return
			}
		}
	}()

	req, _ := http.NewRequest(http.MethodPost, base+"/optimize/routes", bytes.NewReader([]byte(demoRequest)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	log.Printf("POST /optimize/routes -> %d %s", resp.StatusCode, body)

	select {
	case <-time.After(5 * time.Second):
		log.Print("no event received")
	case <-done:
	}
}
