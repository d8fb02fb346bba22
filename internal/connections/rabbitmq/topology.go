package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	NotificationsExchange = "notifications_topic"
	NotificationsQueue    = "notifications_queue"
	DeadLetterExchange    = "notifications_dlx"
	DeadLetterQueue       = "notifications_dlq"
)

// DeclareNotifications declares the notification exchange, its queue and
// the dead-letter pair. Safe to call from every process on start.
func (c *Client) DeclareNotifications() error {
	if err := c.ch.ExchangeDeclare(NotificationsExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.ExchangeDeclare(DeadLetterExchange, "fanout", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(DeadLetterQueue, true, false, false, false, nil); err != nil {
		return err
	}
	if err := c.ch.QueueBind(DeadLetterQueue, "", DeadLetterExchange, false, nil); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(NotificationsQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange": DeadLetterExchange,
	}); err != nil {
		return err
	}
	return c.ch.QueueBind(NotificationsQueue, "#", NotificationsExchange, false, nil)
}
