package store

import (
	"context"
	"errors"
	"time"

	"tmsopt/internal/model"
)

// Store is the persistence interface used by the optimizer service, the API
// server and the webhook worker.
type Store interface {
	// Run history
	SaveRun(ctx context.Context, run model.Run) error
	GetRun(ctx context.Context, requestID string) (model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// Webhook deliveries
	EnqueueWebhook(ctx context.Context, eventType, url, secret string, payload []byte) (string, error)
	FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error)
	MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error
	FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error
	ListWebhookDLQ(ctx context.Context, limit int) ([]DeadLetter, error)

	Ping(ctx context.Context) error
	Close() error
}

var ErrNotFound = errors.New("not found")

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
