// Package queue_publisher publishes domain events to RabbitMQ.  Errors
// are returned to the caller, which logs and ignores them so a broker
// outage never interrupts the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/stayease/hotel-booking/internal/queue"
)

// Publisher publishes events over a fresh connection per call.  The
// volume of booking events is low enough that connection reuse is not
// worth the reconnect bookkeeping.
type Publisher struct {
	URL string
}

// NewPublisher returns a Publisher targeting the configured broker URL.
func NewPublisher() *Publisher {
	return &Publisher{URL: queue.BrokerURL()}
}

// Publish declares the durable queue (idempotent) and sends the event as
// a persistent JSON message on the default exchange.
func (p *Publisher) Publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	return ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	)
}
