package mq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const eventsExchange = "greener.events"

// Broker wraps the RabbitMQ channel used for marketplace and watering
// events. A nil Broker is valid and drops every publish, so the API can
// run without a broker in development.
type Broker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

var dialFn = amqp.Dial

func ConnectRabbit(url string) (*Broker, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := dialFn(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(eventsExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Broker{conn: conn, ch: ch}, nil
}

func (b *Broker) Publish(ctx context.Context, routingKey string, payload any) error {
	if b == nil {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.ch.PublishWithContext(ctx, eventsExchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	}); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (b *Broker) Close() {
	if b == nil {
		return
	}
	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
}
