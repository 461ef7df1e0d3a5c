// Package queue consumes scraped event jobs from RabbitMQ. Failed jobs are
// republished to a retry queue that dead-letters them back to the work queue
// after a delay. Jobs that keep failing, or fail for a reason retrying cannot
// fix, end up in a dead-letter queue.
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	DefaultRetryDelay time.Duration = 10 * time.Second
	DefaultMaxRetries int           = 10

	RetriesHeader string = "x-retries"
	JobLogHeader  string = "x-job-log"
	ErrorHeader   string = "x-error"
)

// Channel is the subset of *amqp091.Channel used by this package
type Channel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

func RetryQueue(name string) string {
	return name + "_retry"
}

func DeadLetterQueue(name string) string {
	return name + "_dlq"
}

func Dial(url string) (*amqp091.Connection, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	return conn, nil
}

// Setup declares the work queue together with its retry and dead-letter queues
func Setup(ch Channel, name string, retryDelay time.Duration) error {
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}

	queues := []struct {
		name string
		args amqp091.Table
	}{
		{name: name},
		{name: DeadLetterQueue(name)},
		{
			name: RetryQueue(name),
			args: amqp091.Table{
				"x-message-ttl":             int32(retryDelay.Milliseconds()),
				"x-dead-letter-exchange":    "",
				"x-dead-letter-routing-key": name,
			},
		},
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.name,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			q.args,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", q.name, err)
		}
	}

	return nil
}

// Publish enqueues a persistent job on the named queue
func Publish(ctx context.Context, ch Channel, name, id string, body []byte) error {
	return ch.PublishWithContext(ctx, "", name, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    id,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
