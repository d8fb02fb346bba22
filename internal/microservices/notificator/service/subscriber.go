package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"

	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/connections/rabbitmq"
)

var ErrDLQ = errors.New("dead_letter") // nack(requeue=false)

// RedisRelay feeds events published by any replica into the local hub.
type RedisRelay struct {
	client *goredis.Client
	prefix string
	hub    Broadcaster
	lg     *logger.Logger
}

func NewRedisRelay(c *goredis.Client, prefix string, h Broadcaster) *RedisRelay {
	return &RedisRelay{client: c, prefix: prefix, hub: h, lg: logger.New("redis-relay")}
}

func (r *RedisRelay) Run(ctx context.Context) error {
	ps := r.client.PSubscribe(ctx, r.prefix+"*")
	defer ps.Close()

	ch := ps.Channel()
	r.lg.Info("relay_started", map[string]any{"pattern": r.prefix + "*"})
	for {
		select {
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			if err := relay(r.hub, m.Payload); err != nil {
				r.lg.Warn("relay_message_dropped", map[string]any{"channel": m.Channel, "error": err.Error()})
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func relay(h Broadcaster, payload string) error {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if msg.Topic == "" {
		return errors.New("envelope without topic")
	}
	h.Broadcast(msg.Topic, []byte(payload))
	return nil
}

type amqpConsumer interface {
	Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, func(), error)
}

// Subscriber drains the durable notification queue and writes each event
// to the log. Undecodable messages go to the dead-letter queue.
type Subscriber struct {
	client   amqpConsumer
	prefetch int
	lg       *logger.Logger
}

func NewSubscriber(c amqpConsumer, prefetch int) *Subscriber {
	if prefetch <= 0 {
		prefetch = 10
	}
	return &Subscriber{client: c, prefetch: prefetch, lg: logger.New("notification-subscriber")}
}

func (s *Subscriber) Run(ctx context.Context) error {
	msgs, stop, err := s.client.Consume(rabbitmq.NotificationsQueue, "notificator", s.prefetch)
	if err != nil {
		return fmt.Errorf("consume %s: %w", rabbitmq.NotificationsQueue, err)
	}
	defer stop()

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				return errors.New("notification channel closed")
			}
			s.ack(d, s.handle(d))
		case <-ctx.Done():
			s.lg.Info("graceful_shutdown", nil)
			return nil
		}
	}
}

func (s *Subscriber) ack(d amqp.Delivery, err error) {
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrDLQ):
		s.lg.Error("notification_rejected", err, map[string]any{"message_id": d.MessageId})
		_ = d.Nack(false, false)
	default:
		_ = d.Nack(false, true)
	}
}

func (s *Subscriber) handle(d amqp.Delivery) error {
	var payload map[string]any
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrDLQ, err)
	}
	s.lg.Info("notification_received", map[string]any{
		"topic":      d.RoutingKey,
		"message_id": d.MessageId,
		"event_type": payload["type"],
		"payload":    payload,
	})
	return nil
}
