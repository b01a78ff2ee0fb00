package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmsopt/internal/config"
	"tmsopt/internal/model"
)

func postOptimize(t *testing.T, base string, payload map[string]any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(base+"/optimize/routes", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestTypeFilter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/events/stream", nil)
	assert.True(t, typeFilter(r)("anything"))

	r = httptest.NewRequest(http.MethodGet, "/v1/events/stream?types=optimization.failed,%20x", nil)
	f := typeFilter(r)
	assert.True(t, f(model.EventOptimizationFailed))
	assert.True(t, f("x"))
	assert.False(t, f(model.EventOptimizationCompleted))
}

func TestEventsStreamDeliversCompletedEvent(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, nil).Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/v1/events/stream?types=" + model.EventOptimizationCompleted)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 64)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()
	next := func() string {
		select {
		case l, ok := <-lines:
			require.True(t, ok, "stream closed")
			return l
		case <-time.After(5 * time.Second):
			t.Fatal("timed out reading stream")
		}
		return ""
	}
	require.Equal(t, "event: heartbeat", next())

	opt := postOptimize(t, ts.URL, basePayload())
	require.Equal(t, http.StatusOK, opt.StatusCode)
	var out model.OptimizeResponse
	require.NoError(t, json.NewDecoder(opt.Body).Decode(&out))

	for {
		if next() == "event: "+model.EventOptimizationCompleted {
			break
		}
	}
	data := next()
	require.True(t, strings.HasPrefix(data, "data: "), data)
	var ev model.Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(data, "data: ")), &ev))
	assert.Equal(t, out.RequestID, ev.RequestID)
}

func TestEventsWebSocket(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, nil).Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/events/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "connection_ack", msg.Type)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "pong", msg.Type)

	p := basePayload()
	p["vehicles"].([]any)[0].(map[string]any)["capacity"] = 1
	p["jobs"].([]any)[0].(map[string]any)["demand"] = 5
	resp := postOptimize(t, ts.URL, p)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "next", msg.Type)
	var ev model.Event
	require.NoError(t, json.Unmarshal(msg.Payload, &ev))
	assert.Equal(t, model.EventOptimizationFailed, ev.Type)
	assert.NotEmpty(t, ev.RequestID)
}

func TestEventsRequireAuth(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, func(c *config.Config) { c.Server.AuthToken = "tok" }).Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/v1/events/stream")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
