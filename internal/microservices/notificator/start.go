package notificator

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/connections/kafka"
	"restaurant-system/internal/connections/rabbitmq"
	"restaurant-system/internal/microservices/notificator/hub"
	"restaurant-system/internal/microservices/notificator/service"
)

// Deps are the optional transports. A nil field disables its sink.
type Deps struct {
	RabbitMQ    *rabbitmq.Client
	Redis       *goredis.Client
	RedisPrefix string
	Kafka       kafka.Producer
	KafkaPrefix string
	Source      string

	// Zero keeps the bus defaults.
	QueueSize   int
	SendTimeout time.Duration
}

type Notificator struct {
	Bus   *service.Bus
	Hub   *hub.Hub
	relay *service.RedisRelay
	lg    *logger.Logger
}

// Start assembles the bus. With Redis configured, local displays are fed
// through the Redis relay like every other replica's; otherwise the bus
// writes to the local hub directly.
func Start(d Deps) *Notificator {
	h := hub.New()
	n := &Notificator{Hub: h, lg: logger.New("notificator")}

	var sinks []service.Sink
	if d.Redis != nil {
		sinks = append(sinks, service.NewRedisSink(d.Redis, d.RedisPrefix))
		n.relay = service.NewRedisRelay(d.Redis, d.RedisPrefix, h)
	} else {
		sinks = append(sinks, service.NewHubSink(h))
	}
	if d.RabbitMQ != nil {
		sinks = append(sinks, service.NewAMQPSink(d.RabbitMQ, d.Source))
	}
	if d.Kafka != nil {
		sinks = append(sinks, service.NewKafkaSink(d.Kafka, d.KafkaPrefix))
	}

	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	n.lg.Info("notificator_configured", map[string]any{"sinks": names})

	var opts []service.Option
	if d.QueueSize > 0 {
		opts = append(opts, service.WithQueueSize(d.QueueSize))
	}
	if d.SendTimeout > 0 {
		opts = append(opts, service.WithSendTimeout(d.SendTimeout))
	}
	n.Bus = service.NewBus(sinks, opts...)
	return n
}

// Run drives the hub, the bus and the Redis relay until ctx is done.
func (n *Notificator) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n.Hub.Run()
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		n.Hub.Stop()
		return nil
	})
	g.Go(func() error { return n.Bus.Run(ctx) })
	if n.relay != nil {
		g.Go(func() error { return n.relay.Run(ctx) })
	}
	return g.Wait()
}
