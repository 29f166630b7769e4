package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackyeh168/green_events/src/internal/domain/shared"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultAMQPQueue 預設佇列名稱
const DefaultAMQPQueue = "checkin.events"

// amqpChannel *amqp.Channel 中用到的方法
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher 發布到 RabbitMQ durable queue（persistent delivery）
//
// amqp.Channel 不可同時被多個 goroutine 使用，Publish 以 mutex 序列化
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	ch      amqpChannel
	queue   string
	timeout time.Duration
}

// NewAMQPPublisher 連線、開啟 channel 並宣告 durable queue
func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	if queue == "" {
		queue = DefaultAMQPQueue
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}

	p := newAMQPPublisher(ch, queue)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch amqpChannel, queue string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, queue: queue, timeout: 5 * time.Second}
}

func (p *AMQPPublisher) Publish(event shared.DomainEvent) error {
	env := NewEnvelope(event)
	body, err := env.Marshal()
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    env.EventID,
			Type:         env.EventType,
			Timestamp:    env.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s failed: %w", env.EventType, err)
	}
	return nil
}

func (p *AMQPPublisher) PublishBatch(events []shared.DomainEvent) error {
	return publishEach(p, events)
}

// Close 關閉 channel 與連線
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
