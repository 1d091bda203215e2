// Package queue delivers evaluation jobs to workers, either through RabbitMQ
// or through an in-process worker pool.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrClosed = errors.New("queue closed")

// Message addresses one evaluation job by task name and job ID.
type Message struct {
	ID         uuid.UUID `json:"id"`
	Task       string    `json:"task"`
	JobID      uint      `json:"job_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	// Redelivered is set when the message already failed once in the handler.
	Redelivered bool `json:"-"`
}

func NewMessage(task string, jobID uint) Message {
	return Message{ID: uuid.New(), Task: task, JobID: jobID, EnqueuedAt: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	// PublishDelayed makes msg visible to consumers after delay.
	PublishDelayed(ctx context.Context, msg Message, delay time.Duration) error
}

// HandlerFunc processes one message. A returned error makes the message
// redelivered once, then dropped.
type HandlerFunc func(ctx context.Context, msg Message) error

type Consumer interface {
	Start(handler HandlerFunc) error
	Close() error
}

type Queue interface {
	Publisher
	Consumer
}
