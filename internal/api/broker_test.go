package api

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmsopt/internal/model"
)

func receive(t *testing.T, ch chan SSEEvent) SSEEvent {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "channel closed")
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return SSEEvent{}
}

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	a := b.Subscribe(EventsTopic)
	c := b.Subscribe(EventsTopic)
	other := b.Subscribe("other")

	b.Publish(EventsTopic, SSEEvent{Type: "x", Data: json.RawMessage(`{"n":1}`)})
	assert.Equal(t, "x", receive(t, a).Type)
	assert.Equal(t, "x", receive(t, c).Type)
	select {
	case <-other:
		t.Fatal("unexpected event on other topic")
	default:
	}

	b.Unsubscribe(EventsTopic, a)
	_, ok := <-a
	assert.False(t, ok)
	// second unsubscribe is a no-op
	b.Unsubscribe(EventsTopic, a)
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe(EventsTopic)
	for i := 0; i < 100; i++ {
		b.Publish(EventsTopic, SSEEvent{Type: "x"})
	}
	assert.Equal(t, cap(ch), len(ch))
}

func TestBrokerSinkEncodesEvent(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe(EventsTopic)
	brokerSink{b}.Emit(context.Background(), model.Event{
		ID:        "e1",
		Type:      model.EventOptimizationCompleted,
		RequestID: "r1",
		Time:      time.Unix(0, 0).UTC(),
	})
	evt := receive(t, ch)
	assert.Equal(t, model.EventOptimizationCompleted, evt.Type)
	var got model.Event
	require.NoError(t, json.Unmarshal(evt.Data, &got))
	assert.Equal(t, "r1", got.RequestID)
}

func TestRedisBrokerRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	b, err := NewRedisBroker("redis://"+mr.Addr(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ch := b.Subscribe(EventsTopic)
	b.Publish(EventsTopic, SSEEvent{Type: model.EventOptimizationFailed, Data: json.RawMessage(`{"request_id":"r2"}`)})

	evt := receive(t, ch)
	assert.Equal(t, model.EventOptimizationFailed, evt.Type)
	assert.JSONEq(t, `{"request_id":"r2"}`, string(evt.Data))

	b.Unsubscribe(EventsTopic, ch)
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}
}

func TestRedisBrokerUnreachable(t *testing.T) {
	_, err := NewRedisBroker("redis://127.0.0.1:1", zerolog.Nop())
	assert.Error(t, err)
}
