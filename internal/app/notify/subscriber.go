package notify

import (
	"context"
	"errors"
	"fmt"

	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/config"
	"restaurant-system/internal/connections/rabbitmq"
	"restaurant-system/internal/microservices/notificator/service"
)

type Config struct {
	Prefetch int
}

// Run consumes the durable notification queue until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, sc Config) error {
	if !cfg.RabbitMQ.Enabled {
		return errors.New("notification-subscriber requires rabbitmq.enabled")
	}
	lg := logger.New("notification-subscriber")

	mq, err := rabbitmq.Dial(ctx, cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer mq.Close()
	if err := mq.DeclareNotifications(); err != nil {
		return fmt.Errorf("rabbitmq topology: %w", err)
	}

	lg.Info("service_started", map[string]any{"queue": rabbitmq.NotificationsQueue, "prefetch": sc.Prefetch})
	return service.NewSubscriber(mq, sc.Prefetch).Run(ctx)
}
