package cache

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// Publisher fans board events out to live clients over Redis pub/sub.
type Publisher struct {
	redis *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{redis: client}
}

// Publish encodes event as JSON and sends it on channel.
func (p *Publisher) Publish(ctx context.Context, channel string, event any) error {
	if p == nil || p.redis == nil {
		return nil
	}
	data, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.redis.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}
