package api

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/config"
	"restaurant-system/internal/connections/database"
	"restaurant-system/internal/connections/kafka"
	"restaurant-system/internal/connections/rabbitmq"
	"restaurant-system/internal/connections/redis"
	"restaurant-system/internal/microservices/notificator"
)

// Run connects the backing stores, serves the API and blocks until ctx is
// cancelled or a component fails.
func Run(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("api")

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()
	health := []Pinger{pool}

	nd := notificator.Deps{Source: "api", QueueSize: cfg.Notify.QueueSize, SendTimeout: cfg.Notify.SendTimeout}

	if cfg.RabbitMQ.Enabled {
		mq, err := rabbitmq.Dial(ctx, cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("rabbitmq connect: %w", err)
		}
		defer mq.Close()
		if err := mq.DeclareNotifications(); err != nil {
			return fmt.Errorf("rabbitmq topology: %w", err)
		}
		nd.RabbitMQ = mq
		health = append(health, PingFunc(func(context.Context) error { return mq.Ping() }))
	}

	var rc *goredis.Client
	if cfg.Redis.Enabled {
		rc, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer rc.Close()
		nd.Redis, nd.RedisPrefix = rc, cfg.Redis.ChannelPrefix
		health = append(health, PingFunc(func(ctx context.Context) error { return rc.Ping(ctx).Err() }))
	}

	if cfg.Kafka.Enabled {
		p, err := kafka.NewProducer(cfg.Kafka, "restaurant-api")
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		defer p.Close()
		nd.Kafka, nd.KafkaPrefix = p, cfg.Kafka.TopicPrefix
	}

	n := notificator.Start(nd)
	router := NewRouter(Deps{Config: cfg, DB: pool, Health: health, Notificator: n})

	addr := ":" + strconv.Itoa(cfg.HTTP.Port)
	lg.Info("service_started", map[string]any{"addr": addr})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return n.Run(ctx) })
	g.Go(func() error { return httpx.New(addr, router).Run(ctx) })
	err = g.Wait()
	lg.Info("graceful_shutdown", nil)
	return err
}
