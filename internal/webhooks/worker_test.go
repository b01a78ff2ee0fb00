package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmsopt/internal/model"
	"tmsopt/internal/store"
)

type recordStore struct {
	*store.Memory
	mu    sync.Mutex
	marks []MarkRec
	fails []FailRec
}
type MarkRec struct {
	ID            string
	Success       bool
	Code, Latency int
	LastErr       string
}
type FailRec struct {
	ID            string
	Code, Latency int
	LastErr       string
}

func (r *recordStore) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
	r.mu.Lock()
	r.marks = append(r.marks, MarkRec{ID: id, Success: success, Code: responseCode, Latency: latencyMs, LastErr: lastError})
	r.mu.Unlock()
	return r.Memory.MarkWebhookDelivery(ctx, id, success, nextAttemptAt, lastError, responseCode, latencyMs)
}
func (r *recordStore) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
	r.mu.Lock()
	r.fails = append(r.fails, FailRec{ID: id, Code: responseCode, Latency: latencyMs, LastErr: lastError})
	r.mu.Unlock()
	return r.Memory.FailWebhookDelivery(ctx, id, lastError, responseCode, latencyMs)
}

func newTestWorker(s store.Store, client *http.Client, maxAttempts int) *Worker {
	w := NewWorker(s, maxAttempts, zerolog.Nop())
	w.HTTP = client
	return w
}

func TestWorkerProcessOnce_SuccessAndSignature(t *testing.T) {
	var gotSig, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature")
		gotType = r.Header.Get("X-Event-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	rs := &recordStore{Memory: store.NewMemory()}
	w := newTestWorker(rs, srv.Client(), 3)
	id, err := rs.Memory.EnqueueWebhook(context.Background(), model.EventOptimizationCompleted, srv.URL, "secret", []byte(`{"id":"evt1"}`))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	w.processOnce()

	assert.Equal(t, model.EventOptimizationCompleted, gotType)
	assert.True(t, VerifyHMAC("secret", gotBody, gotSig), "signature %q does not verify", gotSig)
	require.Len(t, rs.marks, 1)
	assert.True(t, rs.marks[0].Success)
	assert.Equal(t, 200, rs.marks[0].Code)
}

func TestWorkerProcessOnce_RetryThenFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(500) }))
	defer srv.Close()

	rs := &recordStore{Memory: store.NewMemory()}
	w := newTestWorker(rs, srv.Client(), 1)
	_, err := rs.Memory.EnqueueWebhook(context.Background(), model.EventOptimizationFailed, srv.URL, "", []byte(`{}`))
	require.NoError(t, err)

	w.processOnce()

	require.Len(t, rs.fails, 1)
	assert.Equal(t, 500, rs.fails[0].Code)
	assert.Equal(t, "Internal Server Error", rs.fails[0].LastErr)
	dlq, err := rs.ListWebhookDLQ(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, dlq, 1)
}

func TestWorkerProcessOnce_SchedulesRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(503) }))
	defer srv.Close()

	rs := &recordStore{Memory: store.NewMemory()}
	w := newTestWorker(rs, srv.Client(), 5)
	_, err := rs.Memory.EnqueueWebhook(context.Background(), model.EventOptimizationCompleted, srv.URL, "", []byte(`{}`))
	require.NoError(t, err)

	w.processOnce()
	require.Len(t, rs.marks, 1)
	assert.False(t, rs.marks[0].Success)
	assert.Empty(t, rs.fails)

	// backoff pushes the retry out of the current window
	w.processOnce()
	assert.Len(t, rs.marks, 1)
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, time.Second, nextBackoff(-1))
	assert.Equal(t, 4*time.Second, nextBackoff(2))
	assert.Equal(t, 1024*time.Second, nextBackoff(50))
}

func TestPublisherEmit(t *testing.T) {
	m := store.NewMemory()
	p := NewPublisher(m, "http://hooks.example", "k", zerolog.Nop())
	ev := model.Event{ID: "evt-1", Type: model.EventOptimizationCompleted, RequestID: "req-1", Time: time.Unix(0, 0).UTC()}
	p.Emit(context.Background(), ev)

	due, err := m.FetchDueWebhookDeliveries(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "http://hooks.example", due[0].URL)
	var got model.Event
	require.NoError(t, json.Unmarshal(due[0].Payload, &got))
	assert.Equal(t, "req-1", got.RequestID)

	// no URL configured: nothing enqueued
	empty := store.NewMemory()
	NewPublisher(empty, "", "", zerolog.Nop()).Emit(context.Background(), ev)
	due, err = empty.FetchDueWebhookDeliveries(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}
