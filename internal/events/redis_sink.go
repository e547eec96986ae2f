package events

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

const DefaultChannel = "appointments.events"

// RedisSink publishes events as JSON on a pub/sub channel read by the notifier.
type RedisSink struct {
	client  *redis.Client
	channel string
}

func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Name() string { return "redis:" + s.channel }

func (s *RedisSink) Write(ctx context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.channel, payload).Err()
}
