package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/lshigami/mockexam/config"
	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
)

// AMQPQueue publishes jobs to a durable work queue behind a direct exchange.
// Delayed messages wait in a retry queue whose per-message TTL dead-letters
// them back onto the work queue.
type AMQPQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	// amqp channels are not safe for concurrent publishing.
	publishMu sync.Mutex

	exchange   string
	queueName  string
	retryQueue string
	workers    int

	shutdown chan struct{}
	wg       sync.WaitGroup
}

func NewAMQPQueue(cfg *config.Config) (*AMQPQueue, error) {
	conn, err := amqp.Dial(cfg.Queue.RabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	workers := cfg.Queue.Workers
	if workers <= 0 {
		workers = 1
	}
	q := &AMQPQueue{
		conn:       conn,
		channel:    channel,
		exchange:   cfg.Queue.Exchange,
		queueName:  cfg.Queue.Name,
		retryQueue: cfg.Queue.RetryQueue,
		workers:    workers,
		shutdown:   make(chan struct{}),
	}
	if err := q.declare(); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}
	return q, nil
}

func (q *AMQPQueue) declare() error {
	if err := q.channel.ExchangeDeclare(
		q.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", q.exchange, err)
	}

	if _, err := q.channel.QueueDeclare(q.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", q.queueName, err)
	}
	if err := q.channel.QueueBind(q.queueName, q.queueName, q.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", q.queueName, err)
	}

	_, err := q.channel.QueueDeclare(q.retryQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    q.exchange,
		"x-dead-letter-routing-key": q.queueName,
	})
	if err != nil {
		return fmt.Errorf("failed to declare retry queue %s: %w", q.retryQueue, err)
	}
	return nil
}

func (q *AMQPQueue) Publish(ctx context.Context, msg Message) error {
	return q.publish(q.exchange, q.queueName, msg, "")
}

func (q *AMQPQueue) PublishDelayed(ctx context.Context, msg Message, delay time.Duration) error {
	if delay <= 0 {
		return q.Publish(ctx, msg)
	}
	// Default exchange routes straight to the retry queue by name.
	return q.publish("", q.retryQueue, msg, strconv.FormatInt(delay.Milliseconds(), 10))
}

func (q *AMQPQueue) publish(exchange, key string, msg Message, expiration string) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	q.publishMu.Lock()
	defer q.publishMu.Unlock()
	err = q.channel.Publish(
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID.String(),
			Type:         msg.Task,
			Timestamp:    time.Now(),
			Expiration:   expiration,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s for job %d: %w", msg.Task, msg.JobID, err)
	}
	log.Debug().Str("task", msg.Task).Uint("jobID", msg.JobID).Str("queue", key).Msg("Published evaluation message")
	return nil
}

// Start consumes the work queue on a dedicated channel with one goroutine per worker.
func (q *AMQPQueue) Start(handler HandlerFunc) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}
	if err := ch.Qos(q.workers, 0, false); err != nil {
		ch.Close()
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	deliveries, err := ch.Consume(
		q.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go func(worker int) {
			defer q.wg.Done()
			for {
				select {
				case <-q.shutdown:
					return
				case d, ok := <-deliveries:
					if !ok {
						log.Warn().Int("worker", worker).Msg("Delivery channel closed")
						return
					}
					q.handle(worker, handler, d)
				}
			}
		}(i)
	}
	log.Info().Int("workers", q.workers).Str("queue", q.queueName).Msg("RabbitMQ evaluation consumer started")
	return nil
}

func (q *AMQPQueue) handle(worker int, handler HandlerFunc, d amqp.Delivery) {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Error().Err(err).Int("worker", worker).Msg("Discarding undecodable message")
		d.Nack(false, false)
		return
	}
	msg.Redelivered = d.Redelivered

	if err := handler(context.Background(), msg); err != nil {
		requeue := !d.Redelivered
		log.Error().Err(err).Int("worker", worker).Str("task", msg.Task).Uint("jobID", msg.JobID).
			Bool("requeue", requeue).Msg("Evaluation message failed")
		d.Nack(false, requeue)
		return
	}
	d.Ack(false)
}

func (q *AMQPQueue) Close() error {
	close(q.shutdown)
	q.wg.Wait()
	if err := q.channel.Close(); err != nil {
		log.Warn().Err(err).Msg("Error closing RabbitMQ channel")
	}
	return q.conn.Close()
}
