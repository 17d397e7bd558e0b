package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"

	"runrun-service/internal/events"
	"runrun-service/internal/observability"
)

// Notifier handles friend-request lifecycle events.
type Notifier interface {
	HandleRequestCreated(ctx context.Context, evt events.FriendRequestCreated) error
	HandleRequestUpdated(ctx context.Context, evt events.FriendRequestUpdated) error
}

// Cascade handles account-deletion events.
type Cascade interface {
	HandleUserDeleted(ctx context.Context, userID string) error
}

// Consumer binds a durable queue to the lifecycle exchange and dispatches
// deliveries to the workflow services. Each delivery is an independent unit of
// work; handler errors nack for redelivery, malformed payloads are acked away.
type Consumer struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	notifier Notifier
	cascade  Cascade
}

// NewConsumer connects, declares the queue bindings and starts consuming.
func NewConsumer(amqpURL, exchange, queue string, notifier Notifier, cascade Cascade) (*Consumer, error) {
	if amqpURL == "" {
		return nil, fmt.Errorf("empty amqp url")
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	routingKeys := []string{
		events.RoutingKeyFriendRequestCreated,
		events.RoutingKeyFriendRequestUpdated,
		events.RoutingKeyUserDeleted,
	}
	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("consume: %w", err)
	}

	c := &Consumer{conn: conn, ch: ch, notifier: notifier, cascade: cascade}
	go c.run(deliveries)

	log.Printf("lifecycle consumer ready queue=%s exchange=%s", q.Name, exchange)
	return c, nil
}

func (c *Consumer) run(deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		if err := c.dispatch(context.Background(), d); err != nil {
			log.Printf("lifecycle handler failed routing_key=%s: %v", d.RoutingKey, err)
			observability.IncLifecycleEvent(d.RoutingKey, "error")
			_ = d.Nack(false, false)
			continue
		}
		observability.IncLifecycleEvent(d.RoutingKey, "ok")
		_ = d.Ack(false)
	}
}

func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery) error {
	ctx, span := otel.Tracer("runrun-service/lifecycle").Start(ctx, "lifecycle."+d.RoutingKey)
	defer span.End()

	switch d.RoutingKey {
	case events.RoutingKeyFriendRequestCreated:
		var evt events.FriendRequestCreated
		if err := json.Unmarshal(d.Body, &evt); err != nil {
			log.Printf("invalid %s payload: %s", d.RoutingKey, d.Body)
			return nil
		}
		return c.notifier.HandleRequestCreated(ctx, evt)
	case events.RoutingKeyFriendRequestUpdated:
		var evt events.FriendRequestUpdated
		if err := json.Unmarshal(d.Body, &evt); err != nil {
			log.Printf("invalid %s payload: %s", d.RoutingKey, d.Body)
			return nil
		}
		return c.notifier.HandleRequestUpdated(ctx, evt)
	case events.RoutingKeyUserDeleted:
		var evt events.UserDeleted
		if err := json.Unmarshal(d.Body, &evt); err != nil {
			log.Printf("invalid %s payload: %s", d.RoutingKey, d.Body)
			return nil
		}
		return c.cascade.HandleUserDeleted(ctx, evt.UserID)
	default:
		log.Printf("ignoring unknown routing key %s", d.RoutingKey)
		return nil
	}
}

// Close tears down the channel and connection.
func (c *Consumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
