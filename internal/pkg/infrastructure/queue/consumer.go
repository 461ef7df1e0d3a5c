package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
	"github.com/lukas-kratochvil/music-event-connect/pkg/errors"
	"github.com/rabbitmq/amqp091-go"
)

// Job is a single delivery handed to a Handler
type Job interface {
	ID() string
	Body() []byte
	// Attempt is 1 for the first delivery and grows with every retry
	Attempt() int
	// Log appends a line to the job log carried along with retries
	Log(line string)
}

// Handler processes a job. A nil error acknowledges the job, anything else
// schedules a retry unless the error is terminal.
type Handler func(ctx context.Context, job Job) error

type job struct {
	id      string
	body    []byte
	attempt int

	mu  sync.Mutex
	log []string
}

func (j *job) ID() string {
	return j.id
}

func (j *job) Body() []byte {
	return j.body
}

func (j *job) Attempt() int {
	return j.attempt
}

func (j *job) Log(line string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.log = append(j.log, line)
}

func (j *job) lines() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return strings.Join(j.log, "\n")
}

func newJob(d amqp091.Delivery) *job {
	j := &job{
		id:      d.MessageId,
		body:    d.Body,
		attempt: retries(d) + 1,
	}

	if j.id == "" {
		j.id = uuid.NewString()
	}

	if previous, ok := d.Headers[JobLogHeader].(string); ok && previous != "" {
		j.log = strings.Split(previous, "\n")
	}

	return j
}

func retries(d amqp091.Delivery) int {
	switch v := d.Headers[RetriesHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

type ConsumerOption func(*Consumer)

func WithMaxRetries(n int) ConsumerOption {
	return func(c *Consumer) {
		c.maxRetries = n
	}
}

type Consumer struct {
	ch         Channel
	queue      string
	handler    Handler
	maxRetries int
}

func NewConsumer(ch Channel, queue string, handler Handler, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		ch:         ch,
		queue:      queue,
		handler:    handler,
		maxRetries: DefaultMaxRetries,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run consumes deliveries one at a time until ctx is done or the delivery
// channel is closed
func (c *Consumer) Run(ctx context.Context) error {
	log := logging.GetFromContext(ctx).With("queue", c.queue)

	if err := c.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	deliveries, err := c.ch.Consume(
		c.queue,
		c.queue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", c.queue, err)
	}

	log.Info("listening for jobs")

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping consumer")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				log.Info("delivery channel closed")
				return nil
			}
			c.process(ctx, d)
		}
	}
}

func (c *Consumer) process(ctx context.Context, d amqp091.Delivery) {
	j := newJob(d)

	ctx = logging.NewContextWithLogger(
		ctx,
		logging.GetFromContext(ctx),
		"queue", c.queue,
		"job_id", j.id,
		"attempt", j.attempt,
	)
	log := logging.GetFromContext(ctx)

	err := c.handler(ctx, j)
	if err == nil {
		if err = d.Ack(false); err != nil {
			log.Error("failed to ack job", "err", err.Error())
		}
		return
	}

	c.handleError(ctx, d, j, err)
}

func (c *Consumer) handleError(ctx context.Context, d amqp091.Delivery, j *job, cause error) {
	log := logging.GetFromContext(ctx)

	headers := amqp091.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[JobLogHeader] = j.lines()
	headers[ErrorHeader] = cause.Error()

	target := DeadLetterQueue(c.queue)

	if errors.IsTerminal(cause) {
		log.Info("moving job with terminal error to dead-letter queue", "dlq", target)
	} else if j.attempt > c.maxRetries {
		log.Info("job exhausted its retries, moving to dead-letter queue", "dlq", target)
	} else {
		target = RetryQueue(c.queue)
		headers[RetriesHeader] = int32(j.attempt)
	}

	err := c.ch.PublishWithContext(ctx, "", target, false, false, amqp091.Publishing{
		ContentType:  d.ContentType,
		DeliveryMode: amqp091.Persistent,
		MessageId:    j.id,
		Headers:      headers,
		Body:         d.Body,
	})
	if err != nil {
		log.Error("failed to republish job", "target", target, "err", err.Error())
		if err = d.Nack(false, true); err != nil {
			log.Error("failed to nack job", "err", err.Error())
		}
		return
	}

	if err = d.Ack(false); err != nil {
		log.Error("failed to ack job", "err", err.Error())
	}
}
