package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/mockexam/config"
	"github.com/lshigami/mockexam/internal/metrics"
	"github.com/lshigami/mockexam/internal/queue"
	"github.com/rs/zerolog/log"
)

const defaultRetryBase = 2 * time.Second

// Dispatcher routes queue messages to the processor and schedules retries.
type Dispatcher struct {
	processor JobProcessor
	publisher queue.Publisher
	retryBase time.Duration
}

func NewDispatcher(processor JobProcessor, publisher queue.Publisher, cfg *config.Config) *Dispatcher {
	base := cfg.Evaluation.RetryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	return &Dispatcher{processor: processor, publisher: publisher, retryBase: base}
}

// Handle is the queue.HandlerFunc for evaluation messages.
func (d *Dispatcher) Handle(ctx context.Context, msg queue.Message) error {
	_, err := d.Dispatch(ctx, msg)
	return err
}

// Dispatch processes one message. Legacy task names are republished under
// the canonical name and acknowledged with OutcomeForwarded.
func (d *Dispatcher) Dispatch(ctx context.Context, msg queue.Message) (Report, error) {
	kind, legacy, ok := ResolveTask(msg.Task)
	if !ok {
		log.Error().Str("task", msg.Task).Uint("jobID", msg.JobID).Msg("Unknown evaluation task, discarding")
		return Report{Outcome: OutcomeSkipped}, nil
	}

	if legacy {
		forward := queue.NewMessage(TaskFor(kind), msg.JobID)
		if err := d.publisher.Publish(ctx, forward); err != nil {
			return Report{}, fmt.Errorf("forward %s job %d: %w", msg.Task, msg.JobID, err)
		}
		log.Info().Str("task", msg.Task).Str("forwardedTo", forward.Task).Uint("jobID", msg.JobID).Msg("Forwarded legacy evaluation task")
		metrics.JobsProcessed.WithLabelValues(string(kind), string(OutcomeForwarded)).Inc()
		return Report{Outcome: OutcomeForwarded}, nil
	}

	report, err := d.processor.Process(ctx, kind, msg.JobID)
	if err != nil {
		return Report{}, err
	}
	if report.Outcome == OutcomeRetry {
		delay := RetryDelay(d.retryBase, report.Failures)
		if err := d.publisher.PublishDelayed(ctx, queue.NewMessage(TaskFor(kind), msg.JobID), delay); err != nil {
			return report, fmt.Errorf("schedule retry of %s job %d: %w", kind, msg.JobID, err)
		}
		log.Info().Str("kind", string(kind)).Uint("jobID", msg.JobID).Int("failures", report.Failures).Dur("delay", delay).Msg("Evaluation retry scheduled")
	}
	return report, nil
}
