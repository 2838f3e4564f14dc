package amqp

import (
	"context"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"purchases/internal/log"
)

// channel is the subset of *amqp091.Channel used by the loader and publisher.
type channel interface {
	Get(queue string, autoAck bool) (amqp091.Delivery, bool, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type Client struct {
	conn         *amqp091.Connection
	channel      channel
	exchangeName string
	queueName    string
	logger       *log.Logger
}

// NewClient dials url and declares the exchange, the queue and their binding.
// A nil logger logs through the slog default.
func NewClient(url, exchangeName, queueName string, logger *log.Logger) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setup(ch, exchangeName, queueName); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return &Client{
		conn:         conn,
		channel:      ch,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       logger,
	}, nil
}

func setup(ch *amqp091.Channel, exchangeName, queueName string) error {
	err := ch.ExchangeDeclare(
		exchangeName, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key is the queue name on the direct exchange.
	err = ch.QueueBind(queueName, queueName, exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// Loader returns a source that drains the client's queue.
func (c *Client) Loader() *QueueLoader {
	return &QueueLoader{ch: c.channel, queue: c.queueName, logger: log.OrDefault(c.logger, log.ComponentAMQP)}
}

// Publisher returns a publisher routed to the client's queue.
func (c *Client) Publisher() *Publisher {
	return &Publisher{
		ch:         c.channel,
		exchange:   c.exchangeName,
		routingKey: c.queueName,
		logger:     log.OrDefault(c.logger, log.ComponentAMQP),
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
