package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const streamField = "event"

// StreamConfig names the stream and consumer group.
type StreamConfig struct {
	Stream   string
	Group    string
	Consumer string
	MaxLen   int64
	Block    time.Duration
	Count    int64
}

// RedisStreamDispatcher is an outbox on a Redis stream. Publish appends; Run
// consumes through a consumer group and hands events to subscribers.
type RedisStreamDispatcher struct {
	registry
	client *redis.Client
	cfg    StreamConfig
	logger *zap.Logger
}

// NewRedisStreamDispatcher wires the dispatcher to an existing client.
func NewRedisStreamDispatcher(client *redis.Client, cfg StreamConfig, logger *zap.Logger) *RedisStreamDispatcher {
	if cfg.Count <= 0 {
		cfg.Count = 10
	}
	if cfg.Block <= 0 {
		cfg.Block = 5 * time.Second
	}
	return &RedisStreamDispatcher{registry: newRegistry(), client: client, cfg: cfg, logger: logger}
}

func (d *RedisStreamDispatcher) addArgs(event Event) (*redis.XAddArgs, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return &redis.XAddArgs{
		Stream: d.cfg.Stream,
		MaxLen: d.cfg.MaxLen,
		Approx: d.cfg.MaxLen > 0,
		Values: []interface{}{"type", string(event.Type), streamField, string(body)},
	}, nil
}

// Publish appends the event to the stream.
func (d *RedisStreamDispatcher) Publish(ctx context.Context, event Event) error {
	args, err := d.addArgs(event)
	if err != nil {
		return err
	}
	if err := d.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", d.cfg.Stream, err)
	}
	return nil
}

// EnsureGroup creates the consumer group, tolerating one that already exists.
func (d *RedisStreamDispatcher) EnsureGroup(ctx context.Context) error {
	err := d.client.XGroupCreateMkStream(ctx, d.cfg.Stream, d.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}
	return nil
}

// Run consumes until ctx is cancelled.
func (d *RedisStreamDispatcher) Run(ctx context.Context) error {
	if err := d.EnsureGroup(ctx); err != nil {
		return err
	}
	d.logger.Info("event stream consumer started",
		zap.String("stream", d.cfg.Stream),
		zap.String("group", d.cfg.Group),
		zap.String("consumer", d.cfg.Consumer))

	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := d.consumeOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			d.logger.Warn("event stream read failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
	}
}

// consumeOnce reads one batch, delivers it and acks every message.
// Failed deliveries are acked too, which keeps notifications at-most-once.
func (d *RedisStreamDispatcher) consumeOnce(ctx context.Context) error {
	streams, err := d.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    d.cfg.Group,
		Consumer: d.cfg.Consumer,
		Streams:  []string{d.cfg.Stream, ">"},
		Count:    d.cfg.Count,
		Block:    d.cfg.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			event, err := decodeMessage(msg)
			if err != nil {
				d.logger.Error("dropping malformed stream message", zap.String("message_id", msg.ID), zap.Error(err))
			} else {
				d.deliver(ctx, d.logger, event)
			}
			if err := d.client.XAck(ctx, d.cfg.Stream, d.cfg.Group, msg.ID).Err(); err != nil {
				d.logger.Warn("stream ack failed", zap.String("message_id", msg.ID), zap.Error(err))
			}
		}
	}
	return nil
}

func decodeMessage(msg redis.XMessage) (Event, error) {
	raw, ok := msg.Values[streamField].(string)
	if !ok {
		return Event{}, errors.New("missing event field")
	}
	var event Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return event, nil
}
