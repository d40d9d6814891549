package pkg

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationsExchange is the fanout exchange every comandas event lands on
// when RabbitMQ is the configured transport. The topic travels as the routing
// key so bound queues can still filter with headers or a topic exchange.
const NotificationsExchange = "notifications_fanout"

// AMQPPublisher implements events.Publisher on top of a RabbitMQ fanout
// exchange.
type AMQPPublisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: NotificationsExchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	p.conn = conn
	if err := p.openChannel(); err != nil {
		conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

// openChannel opens a fresh channel on the current connection. The broker
// closes a channel on its own after errors such as a failed declare.
func (p *AMQPPublisher) openChannel() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(p.exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}

	p.ch = ch
	return nil
}

type reopen int

const (
	reopenNone reopen = iota
	reopenChannel
	reopenConnection
)

func reopenNeeded(connOpen, channelOpen bool) reopen {
	switch {
	case !connOpen:
		return reopenConnection
	case !channelOpen:
		return reopenChannel
	default:
		return reopenNone
	}
}

func (p *AMQPPublisher) ensureOpen() error {
	connOpen := p.conn != nil && !p.conn.IsClosed()
	channelOpen := p.ch != nil && !p.ch.IsClosed()

	switch reopenNeeded(connOpen, channelOpen) {
	case reopenConnection:
		return p.connect()
	case reopenChannel:
		if err := p.openChannel(); err != nil {
			_ = p.conn.Close()
			return p.connect()
		}
	}
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureOpen(); err != nil {
		return fmt.Errorf("failed to reconnect: %w", err)
	}

	err := p.ch.PublishWithContext(ctx, p.exchange, topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Timestamp:    time.Now().UTC(),
		Type:         topic,
		Body:         msg,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.exchange, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn.Close()
	}
	return nil
}
