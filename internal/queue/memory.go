package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// MemoryQueue runs jobs on a fixed pool of goroutines in this process.
// Pending messages are lost on shutdown.
type MemoryQueue struct {
	messages chan Message
	workers  int

	mu     sync.Mutex
	closed bool
	timers map[*time.Timer]struct{}

	done chan struct{}
	wg   sync.WaitGroup
}

func NewMemoryQueue(workers, buffer int) *MemoryQueue {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 256
	}
	return &MemoryQueue{
		messages: make(chan Message, buffer),
		workers:  workers,
		timers:   make(map[*time.Timer]struct{}),
		done:     make(chan struct{}),
	}
}

func (q *MemoryQueue) Publish(ctx context.Context, msg Message) error {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return ErrClosed
	}
	select {
	case q.messages <- msg:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) PublishDelayed(ctx context.Context, msg Message, delay time.Duration) error {
	if delay <= 0 {
		return q.Publish(ctx, msg)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		q.mu.Lock()
		delete(q.timers, timer)
		q.mu.Unlock()
		if err := q.Publish(context.Background(), msg); err != nil {
			log.Warn().Err(err).Str("task", msg.Task).Uint("jobID", msg.JobID).Msg("Dropping delayed message")
		}
	})
	q.timers[timer] = struct{}{}
	return nil
}

func (q *MemoryQueue) Start(handler HandlerFunc) error {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go func(worker int) {
			defer q.wg.Done()
			for {
				select {
				case <-q.done:
					return
				case msg := <-q.messages:
					q.handle(worker, handler, msg)
				}
			}
		}(i)
	}
	log.Info().Int("workers", q.workers).Msg("In-memory evaluation queue started")
	return nil
}

func (q *MemoryQueue) handle(worker int, handler HandlerFunc, msg Message) {
	err := handler(context.Background(), msg)
	if err == nil {
		return
	}
	if msg.Redelivered {
		log.Error().Err(err).Int("worker", worker).Str("task", msg.Task).Uint("jobID", msg.JobID).Msg("Message failed twice, dropping")
		return
	}
	log.Warn().Err(err).Int("worker", worker).Str("task", msg.Task).Uint("jobID", msg.JobID).Msg("Message failed, redelivering")
	msg.Redelivered = true
	if err := q.Publish(context.Background(), msg); err != nil {
		log.Error().Err(err).Uint("jobID", msg.JobID).Msg("Redelivery failed")
	}
}

// Close stops delayed deliveries and waits for running handlers.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	for t := range q.timers {
		t.Stop()
	}
	q.timers = nil
	q.mu.Unlock()

	close(q.done)
	q.wg.Wait()
	return nil
}
