package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/models"
)

// RedisBus carries events over Redis pub/sub so every server instance sees
// changes made through any other.
type RedisBus struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisBus(client *redis.Client, logger *zap.Logger) *RedisBus {
	return &RedisBus{client: client, logger: logger}
}

func (b *RedisBus) Publish(ctx context.Context, ev models.PlotEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal plot event: %w", err)
	}
	if err := b.client.Publish(ctx, Channel(ev.ProjectID), data).Err(); err != nil {
		return fmt.Errorf("publish plot event: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, projectID string) (<-chan models.PlotEvent, func(), error) {
	channel := Channel(projectID)
	sub := b.client.Subscribe(ctx, channel)
	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan models.PlotEvent, 16)
	msgs := sub.Channel()

	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev models.PlotEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("dropping malformed plot event", zap.String("channel", channel), zap.Error(err))
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, cancel, nil
}
