package service

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"restaurant-system/internal/connections/kafka"
	"restaurant-system/internal/connections/rabbitmq"
)

// Broadcaster is the local websocket hub.
type Broadcaster interface {
	Broadcast(topic string, data []byte)
}

type HubSink struct{ hub Broadcaster }

func NewHubSink(h Broadcaster) *HubSink { return &HubSink{hub: h} }

func (s *HubSink) Name() string { return "hub" }

func (s *HubSink) Send(_ context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.hub.Broadcast(msg.Topic, data)
	return nil
}

type amqpPublisher interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
}

// AMQPSink publishes to the notifications topic exchange with the bus topic
// as routing key.
type AMQPSink struct {
	client amqpPublisher
	source string
}

func NewAMQPSink(c amqpPublisher, source string) *AMQPSink {
	return &AMQPSink{client: c, source: source}
}

func (s *AMQPSink) Name() string { return "rabbitmq" }

func (s *AMQPSink) Send(ctx context.Context, msg Message) error {
	return s.client.Publish(ctx, rabbitmq.NotificationsExchange, msg.Topic, amqp.Publishing{
		DeliveryMode: amqp.Transient,
		ContentType:  "application/json",
		MessageId:    msg.ID,
		Timestamp:    msg.OccurredAt,
		Type:         msg.Topic,
		Headers:      amqp.Table{"x-source": s.source},
		Body:         msg.Payload,
	})
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
}

// RedisSink publishes the envelope on <prefix><topic> so every API replica
// can relay it to its own websocket clients.
type RedisSink struct {
	client redisPublisher
	prefix string
}

func NewRedisSink(c redisPublisher, prefix string) *RedisSink {
	return &RedisSink{client: c, prefix: prefix}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, s.prefix+msg.Topic, data).Err()
}

// KafkaSink appends every event to <prefix><topic> keyed by message id.
type KafkaSink struct {
	producer kafka.Producer
	prefix   string
}

func NewKafkaSink(p kafka.Producer, prefix string) *KafkaSink {
	return &KafkaSink{producer: p, prefix: prefix}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Send(ctx context.Context, msg Message) error {
	return s.producer.WriteMessage(ctx, kafkago.Message{
		Topic: s.prefix + msg.Topic,
		Key:   []byte(msg.ID),
		Value: msg.Payload,
		Time:  msg.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "message_id", Value: []byte(msg.ID)},
		},
	})
}
