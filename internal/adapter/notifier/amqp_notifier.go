package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
)

// InsufficientStockQueue receives one message per rejected order.
const InsufficientStockQueue = "stock.insufficient"

// AMQPNotifier publishes insufficient-stock events to RabbitMQ as JSON.
// It makes a single publish attempt per event; the dispatcher owns the
// decision to swallow failures.
type AMQPNotifier struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAMQPNotifier(url string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		InsufficientStockQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &AMQPNotifier{conn: conn, channel: channel}, nil
}

func (n *AMQPNotifier) Notify(ctx context.Context, event domain.NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = n.channel.PublishWithContext(ctx,
		"",                     // exchange
		InsufficientStockQueue, // routing key
		false,                  // mandatory
		false,                  // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}

func (n *AMQPNotifier) Close() {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
