// Package notify delivers finished departure payloads to the display layer
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/randytsao24/subwayboard/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultChannel is the pub/sub channel the display listens on
const DefaultChannel = "TRAIN_TABLE"

// RedisPublisher publishes payloads as JSON on a Redis channel
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a publisher on channel, or DefaultChannel when empty
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// Publish sends payload to every subscriber of the channel
func (p *RedisPublisher) Publish(ctx context.Context, payload models.Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	receivers, err := p.client.Publish(ctx, p.channel, data).Result()
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", p.channel, err)
	}

	log.Debug().Str("channel", p.channel).Int64("receivers", receivers).Msg("Published departures")
	return nil
}

// LogPublisher writes payloads to the log. Used when no Redis is configured.
type LogPublisher struct{}

// Publish logs a summary of payload
func (LogPublisher) Publish(_ context.Context, payload models.Payload) error {
	log.Info().
		Strs("stations", payload.Stations).
		Int("downtown", len(payload.DownTown())).
		Int("uptown", len(payload.UpTown())).
		Int("errors", len(payload.Errors)).
		Msg("Departures ready")
	return nil
}
