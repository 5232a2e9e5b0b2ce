// Package amqp publishes job lifecycle events to an AMQP exchange so external
// consumers (dashboards, alerting) can follow queue activity.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Pavitra-A/queuectl/errors"
	"github.com/Pavitra-A/queuectl/events"
)

// Publisher implements events.Publisher over an AMQP exchange.
// Events are published with routing key "job.<kind>".
type Publisher struct {
	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	options    Options
}

// NewPublisher creates a publisher; Connect establishes the connection
func NewPublisher(options Options) *Publisher {
	return &Publisher{options: options}
}

// Connect dials the broker and declares the exchange
func (p *Publisher) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := amqp.Dial(p.options.URI)
	if err != nil {
		return errors.NewConnectionError(p.options.URI,
			fmt.Errorf("failed to connect to AMQP broker: %w", err))
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return errors.NewConnectionError(p.options.URI,
			fmt.Errorf("failed to open channel: %w", err))
	}

	if err := ch.ExchangeDeclare(
		p.options.Exchange,
		p.options.ExchangeType,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return errors.NewConnectionError(p.options.URI,
			fmt.Errorf("failed to declare exchange: %w", err))
	}

	p.connection = conn
	p.channel = ch
	return nil
}

// Publish delivers one lifecycle event as persistent JSON
func (p *Publisher) Publish(ctx context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return errors.ErrNotConnected
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.channel.PublishWithContext(ctx,
		p.options.Exchange,
		fmt.Sprintf("job.%s", ev.Kind),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.ID,
			Body:         body,
		},
	)
}

// Close shuts down the channel and connection
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return err
		}
		p.channel = nil
	}

	if p.connection != nil {
		if err := p.connection.Close(); err != nil {
			return err
		}
		p.connection = nil
	}

	return nil
}
