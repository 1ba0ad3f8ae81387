package queue

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const reconnectDelay = 5 * time.Second

// RabbitMQQueue maps each subject onto a durable fanout exchange. The
// channel is rebuilt by a watcher goroutine when the broker connection
// drops; publishes during an outage fail and are simply lost, matching the
// best-effort contract.
type RabbitMQQueue struct {
	url string
	log *zap.Logger

	mu       sync.RWMutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	declared map[string]bool
}

func NewRabbitMQQueue(url string, log *zap.Logger) (MessageQueue, error) {
	q := &RabbitMQQueue{
		url:      url,
		log:      log,
		declared: make(map[string]bool),
	}
	if err := q.connect(); err != nil {
		return nil, err
	}

	go q.watch()

	log.Info("Connected to RabbitMQ")
	return q, nil
}

func (q *RabbitMQQueue) connect() error {
	conn, err := amqp.Dial(q.url)
	if err != nil {
		return fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open RabbitMQ channel: %w", err)
	}

	q.mu.Lock()
	q.conn = conn
	q.channel = channel
	q.declared = make(map[string]bool)
	q.mu.Unlock()
	return nil
}

// ensureExchange declares the fanout exchange for a subject once per
// connection. Caller must hold q.mu.
func (q *RabbitMQQueue) ensureExchange(subject string) error {
	if q.declared[subject] {
		return nil
	}
	if err := q.channel.ExchangeDeclare(subject, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", subject, err)
	}
	q.declared[subject] = true
	return nil
}

func (q *RabbitMQQueue) Publish(subject string, data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel == nil {
		return fmt.Errorf("rabbitmq: not connected")
	}
	if err := q.ensureExchange(subject); err != nil {
		return err
	}

	return q.channel.Publish(subject, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		AppId:       "planwise",
		Timestamp:   time.Now(),
		Body:        data,
	})
}

func (q *RabbitMQQueue) Subscribe(subject string, handler func(data []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel == nil {
		return fmt.Errorf("rabbitmq: not connected")
	}
	if err := q.ensureExchange(subject); err != nil {
		return err
	}

	inbox, err := q.channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := q.channel.QueueBind(inbox.Name, "", subject, false, nil); err != nil {
		return fmt.Errorf("bind queue to %s: %w", subject, err)
	}
	deliveries, err := q.channel.Consume(inbox.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume from %s: %w", subject, err)
	}

	go func() {
		for delivery := range deliveries {
			if err := handler(delivery.Body); err != nil {
				q.log.Error("Event handler failed",
					zap.String("exchange", subject),
					zap.Error(err),
				)
			}
		}
	}()

	return nil
}

func (q *RabbitMQQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel != nil {
		q.channel.Close()
		q.channel = nil
	}
	if q.conn != nil {
		err := q.conn.Close()
		q.conn = nil
		return err
	}
	return nil
}

func (q *RabbitMQQueue) watch() {
	for {
		q.mu.RLock()
		conn := q.conn
		q.mu.RUnlock()
		if conn == nil {
			return
		}

		reason, open := <-conn.NotifyClose(make(chan *amqp.Error))
		if !open {
			// Closed locally.
			return
		}
		q.log.Warn("RabbitMQ connection lost", zap.String("reason", reason.Reason))

		for {
			time.Sleep(reconnectDelay)
			if err := q.connect(); err != nil {
				q.log.Error("RabbitMQ reconnect failed", zap.Error(err))
				continue
			}
			q.log.Info("Reconnected to RabbitMQ")
			break
		}
	}
}
