package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes one decoded event. Returning an error leaves the
// message pending in the consumer group, so handlers must tolerate
// redelivery of events they already applied.
type Handler func(ctx context.Context, event Event) error

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Stream        string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
}

// Subscriber reads one stream through a consumer group and feeds each
// envelope to its handler. It runs in-process next to the HTTP server and
// stops when the server's context is cancelled.
type Subscriber struct {
	client *redis.Client
	cfg    SubscriberConfig
}

func NewSubscriber(client *redis.Client, cfg SubscriberConfig) *Subscriber {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 10
	}
	if cfg.BlockDuration == 0 {
		cfg.BlockDuration = 5 * time.Second
	}
	return &Subscriber{client: client, cfg: cfg}
}

// Start blocks until ctx is cancelled, polling the stream in batches.
func (s *Subscriber) Start(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.cfg.Stream, s.cfg.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group %s on %s: %w", s.cfg.Group, s.cfg.Stream, err)
	}

	log.Printf("Consuming %s as %s/%s", s.cfg.Stream, s.cfg.Group, s.cfg.Consumer)

	for {
		if err := ctx.Err(); err != nil {
			log.Printf("Stopped consuming %s", s.cfg.Stream)
			return err
		}
		if err := s.poll(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Reading %s failed: %v", s.cfg.Stream, err)
			time.Sleep(time.Second)
		}
	}
}

func (s *Subscriber) poll(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.cfg.Group,
		Consumer: s.cfg.Consumer,
		Streams:  []string{s.cfg.Stream, ">"},
		Count:    s.cfg.BatchSize,
		Block:    s.cfg.BlockDuration,
	}).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			if err := s.dispatch(ctx, msg); err != nil {
				// Not acked; the group redelivers it.
				log.Printf("Event %s on %s not handled: %v", msg.ID, s.cfg.Stream, err)
				continue
			}
			if err := s.client.XAck(ctx, s.cfg.Stream, s.cfg.Group, msg.ID).Err(); err != nil {
				log.Printf("Failed to ack %s on %s: %v", msg.ID, s.cfg.Stream, err)
			}
		}
	}
	return nil
}

func (s *Subscriber) dispatch(ctx context.Context, msg redis.XMessage) error {
	raw, ok := msg.Values["event"].(string)
	if !ok {
		return fmt.Errorf("message %s carries no event field", msg.ID)
	}
	var event Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return fmt.Errorf("failed to unmarshal event %s: %w", msg.ID, err)
	}
	return s.cfg.Handler(ctx, event)
}
