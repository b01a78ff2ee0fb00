package webhooks

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"tmsopt/internal/model"
	"tmsopt/internal/store"
)

// Publisher enqueues events as outbound deliveries to a single configured
// endpoint. A Publisher with an empty URL drops everything.
type Publisher struct {
	Store  store.Store
	URL    string
	Secret string
	Log    zerolog.Logger
}

func NewPublisher(s store.Store, url, secret string, log zerolog.Logger) *Publisher {
	return &Publisher{Store: s, URL: url, Secret: secret, Log: log}
}

// Emit enqueues ev for delivery. Failures are logged, not returned: webhook
// delivery never fails an optimization.
func (p *Publisher) Emit(ctx context.Context, ev model.Event) {
	if p == nil || p.URL == "" {
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		p.Log.Error().Err(err).Str("event_type", ev.Type).Msg("encode webhook payload")
		return
	}
	if _, err := p.Store.EnqueueWebhook(ctx, ev.Type, p.URL, p.Secret, body); err != nil {
		p.Log.Error().Err(err).Str("event_type", ev.Type).Str("request_id", ev.RequestID).Msg("enqueue webhook")
	}
}
