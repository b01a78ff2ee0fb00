package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmsopt/internal/model"
)

func TestMemoryRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, m.SaveRun(ctx, model.Run{RequestID: id, Status: model.RunOptimal, CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	runs, err := m.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].RequestID)
	assert.Equal(t, "b", runs[1].RequestID)

	got, err := m.GetRun(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, model.RunOptimal, got.Status)

	_, err = m.GetRun(ctx, "zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryEvictsOldestRuns(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	assert.Equal(t, maxListLimit, m.MaxRuns)
	m.MaxRuns = 3
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, m.SaveRun(ctx, model.Run{RequestID: id}))
	}
	// saving an existing id again does not count twice
	require.NoError(t, m.SaveRun(ctx, model.Run{RequestID: "e", Status: model.RunInfeasible}))

	runs, err := m.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
	for _, id := range []string{"a", "b"} {
		_, err := m.GetRun(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, id)
	}
	got, err := m.GetRun(ctx, "e")
	require.NoError(t, err)
	assert.Equal(t, model.RunInfeasible, got.Status)
	assert.Len(t, m.runOrder, 3)
}

func TestMemoryWebhookLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id, err := m.EnqueueWebhook(ctx, model.EventOptimizationCompleted, "http://example.invalid", "s", []byte(`{}`))
	require.NoError(t, err)

	due, err := m.FetchDueWebhookDeliveries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, id, due[0].ID)

	later := time.Now().Add(time.Hour)
	require.NoError(t, m.MarkWebhookDelivery(ctx, id, false, &later, "boom", 500, 3))
	due, err = m.FetchDueWebhookDeliveries(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, due, "retry is scheduled in the future")

	require.NoError(t, m.FailWebhookDelivery(ctx, id, "boom", 500, 3))
	dlq, err := m.ListWebhookDLQ(ctx, 0)
	require.NoError(t, err)
	require.Len(t, dlq, 1)
	assert.Equal(t, id, dlq[0].DeliveryID)
	assert.Equal(t, 2, dlq[0].Attempts)

	assert.ErrorIs(t, m.MarkWebhookDelivery(ctx, "nope", true, nil, "", 200, 1), ErrNotFound)
}
