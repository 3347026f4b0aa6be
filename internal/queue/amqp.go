package queue

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Channel is the subset of *amqp.Channel used by AMQPQueue.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// AMQPQueue publishes JSON messages to one durable RabbitMQ queue. The topic
// travels as the message type so subscribers can filter on it.
type AMQPQueue struct {
	ch     Channel
	conn   *amqp.Connection
	name   string
	logger *zap.Logger
	wg     sync.WaitGroup
}

// DialAMQP connects to the broker and declares the durable queue.
func DialAMQP(url, queueName string, logger *zap.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	q, err := NewAMQPQueue(ch, queueName, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	q.conn = conn
	return q, nil
}

// NewAMQPQueue declares queueName on an already open channel.
func NewAMQPQueue(ch Channel, queueName string, logger *zap.Logger) (*AMQPQueue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	_, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	return &AMQPQueue{ch: ch, name: queueName, logger: logger}, nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return q.ch.Publish("", q.name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         topic,
		Body:         body,
	})
}

// Subscribe consumes the queue in the background. Handlers receive the raw
// JSON body as json.RawMessage. A failed message is requeued once and
// dropped if it fails again.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	msgs, err := q.ch.Consume(
		q.name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for d := range msgs {
			q.deliver(topic, handler, d)
		}
	}()
	return nil
}

func (q *AMQPQueue) deliver(topic string, handler func(payload any) error, d amqp.Delivery) {
	if d.Type != topic {
		q.logger.Warn("dropping message for unexpected topic", zap.String("type", d.Type))
		d.Ack(false)
		return
	}
	if err := handler(json.RawMessage(d.Body)); err != nil {
		q.logger.Warn("message handler failed",
			zap.String("topic", topic),
			zap.Bool("redelivered", d.Redelivered),
			zap.Error(err),
		)
		d.Nack(false, !d.Redelivered)
		return
	}
	d.Ack(false)
}

// Close stops consumption and waits for in-flight handlers.
func (q *AMQPQueue) Close() error {
	err := q.ch.Close()
	q.wg.Wait()
	if q.conn != nil {
		if cerr := q.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

var (
	_ Queue = (*InMemoryQueue)(nil)
	_ Queue = (*AMQPQueue)(nil)
)
