package store

import (
	"encoding/hex"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmsopt/internal/model"
)

func TestComputeDedupKeyFromID(t *testing.T) {
	body := []byte(`{"id":"evt_123","type":"x"}`)
	assert.Equal(t, "evt_123", computeDedupKey(body))
}

func TestComputeDedupKeyFromHash(t *testing.T) {
	got := computeDedupKey([]byte(`{"notId":"x"}`))
	// hex-encoded first 8 bytes -> 16 hex chars
	b, err := hex.DecodeString(got)
	require.NoError(t, err)
	assert.Len(t, b, 8)
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", nullIfEmpty("x"))
}

func TestPostgresRunRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	p, err := NewPostgres(dsn)
	require.NoError(t, err)
	defer p.Close()
	require.NoError(t, p.Ping(t.Context()))
	require.NoError(t, p.Migrate(t.Context()))

	run := model.Run{RequestID: "it-" + t.Name(), Status: model.RunOptimal, Vehicles: 1, Jobs: 1, TotalDistance: 20}
	require.NoError(t, p.SaveRun(t.Context(), run))
	got, err := p.GetRun(t.Context(), run.RequestID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.TotalDistance)
	assert.Empty(t, got.Routes)

	_, err = p.GetRun(t.Context(), "missing-run")
	assert.ErrorIs(t, err, ErrNotFound)
}
