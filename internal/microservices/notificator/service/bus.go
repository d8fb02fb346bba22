package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"restaurant-system/internal/common/logger"
)

const (
	defaultQueueSize   = 1024
	defaultSendTimeout = 2 * time.Second
)

// Message is the envelope every sink receives.
type Message struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// Sink delivers messages to one transport.
type Sink interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Bus is the fire-and-forget notification bus. Publish only enqueues; Run
// drains the queue into every sink in publish order. A full queue drops the
// message, and a failing sink is logged and skipped.
type Bus struct {
	sinks       []Sink
	queue       chan Message
	sendTimeout time.Duration
	lg          *logger.Logger
	now         func() time.Time
}

type Option func(*Bus)

func WithQueueSize(n int) Option { return func(b *Bus) { b.queue = make(chan Message, n) } }

func WithSendTimeout(d time.Duration) Option { return func(b *Bus) { b.sendTimeout = d } }

func NewBus(sinks []Sink, opts ...Option) *Bus {
	b := &Bus{
		sinks:       sinks,
		queue:       make(chan Message, defaultQueueSize),
		sendTimeout: defaultSendTimeout,
		lg:          logger.New("notification-bus"),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Bus) Publish(ctx context.Context, topic string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		b.lg.Error("notification_encode_failed", err, map[string]any{"topic": topic})
		return
	}
	msg := Message{ID: uuid.NewString(), Topic: topic, OccurredAt: b.now(), Payload: body}
	select {
	case b.queue <- msg:
	default:
		b.lg.Warn("notification_dropped", map[string]any{"topic": topic, "reason": "queue_full"})
	}
}

// Run delivers queued messages until ctx is done, then flushes what is
// already queued with a fresh deadline.
func (b *Bus) Run(ctx context.Context) error {
	for {
		select {
		case msg := <-b.queue:
			b.deliver(ctx, msg)
		case <-ctx.Done():
			b.drain()
			return nil
		}
	}
}

func (b *Bus) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), b.sendTimeout)
	defer cancel()
	for {
		select {
		case msg := <-b.queue:
			b.deliver(ctx, msg)
		default:
			return
		}
	}
}

func (b *Bus) deliver(ctx context.Context, msg Message) {
	for _, s := range b.sinks {
		sctx, cancel := context.WithTimeout(ctx, b.sendTimeout)
		err := s.Send(sctx, msg)
		cancel()
		if err != nil {
			b.lg.Warn("notification_publish_failed", map[string]any{
				"sink": s.Name(), "topic": msg.Topic, "message_id": msg.ID, "error": err.Error(),
			})
			continue
		}
		b.lg.Debug("notification_published", map[string]any{"sink": s.Name(), "topic": msg.Topic, "message_id": msg.ID})
	}
}
