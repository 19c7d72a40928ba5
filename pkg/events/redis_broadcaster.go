package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultBroadcastChannel is the Redis channel terminal events are
// published on when no override is configured.
const DefaultBroadcastChannel = "statekit:transitions"

// RedisBroadcaster republishes terminal transition events to a Redis
// pub/sub channel as JSON. Publication is best effort: a Redis failure is
// logged and never surfaces to the transition that produced the event.
type RedisBroadcaster struct {
	client  redis.UniversalClient
	channel string
	log     *slog.Logger
}

// RedisBroadcasterOption configures a RedisBroadcaster.
type RedisBroadcasterOption func(*RedisBroadcaster)

// WithChannel overrides the Redis channel name.
func WithChannel(name string) RedisBroadcasterOption {
	return func(b *RedisBroadcaster) {
		if name != "" {
			b.channel = name
		}
	}
}

// WithLogger sets the logger used to report publish failures.
func WithLogger(log *slog.Logger) RedisBroadcasterOption {
	return func(b *RedisBroadcaster) {
		if log != nil {
			b.log = log
		}
	}
}

// NewRedisBroadcaster creates a broadcaster on the given Redis client.
func NewRedisBroadcaster(client redis.UniversalClient, opts ...RedisBroadcasterOption) *RedisBroadcaster {
	if client == nil {
		panic("events: redis client cannot be nil")
	}

	b := &RedisBroadcaster{
		client:  client,
		channel: DefaultBroadcastChannel,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach subscribes the broadcaster to the dispatcher's terminal events.
func (b *RedisBroadcaster) Attach(d *Dispatcher) {
	d.Subscribe(TransitionCompleted, b.Broadcast)
	d.Subscribe(TransitionFailed, b.Broadcast)
}

// Broadcast serializes the event and publishes it on the configured channel.
func (b *RedisBroadcaster) Broadcast(ctx context.Context, event *Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.log.WarnContext(ctx, "failed to serialize transition event",
			slog.String("event", event.Name),
			slog.String("entity_type", event.EntityType),
			slog.String("entity_id", event.EntityID),
			slog.Any("error", err),
		)
		return
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.log.WarnContext(ctx, "failed to broadcast transition event",
			slog.String("event", event.Name),
			slog.String("channel", b.channel),
			slog.String("entity_type", event.EntityType),
			slog.String("entity_id", event.EntityID),
			slog.Any("error", err),
		)
	}
}
