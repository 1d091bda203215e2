package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func startQueue(t *testing.T, handler HandlerFunc) *MemoryQueue {
	t.Helper()
	q := NewMemoryQueue(2, 8)
	if err := q.Start(handler); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { q.Close() })
	return q
}

func waitFor(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestMemoryQueueDelivers(t *testing.T) {
	got := make(chan Message, 1)
	q := startQueue(t, func(ctx context.Context, msg Message) error {
		got <- msg
		return nil
	})

	sent := NewMessage("evaluation.writing", 7)
	if err := q.Publish(context.Background(), sent); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	msg := waitFor(t, got)
	if msg.ID != sent.ID || msg.JobID != 7 || msg.Task != "evaluation.writing" {
		t.Errorf("got %+v, want %+v", msg, sent)
	}
}

func TestMemoryQueueDelayed(t *testing.T) {
	got := make(chan Message, 1)
	q := startQueue(t, func(ctx context.Context, msg Message) error {
		got <- msg
		return nil
	})

	start := time.Now()
	if err := q.PublishDelayed(context.Background(), NewMessage("evaluation.speaking", 3), 50*time.Millisecond); err != nil {
		t.Fatalf("PublishDelayed: %v", err)
	}
	waitFor(t, got)
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("delivered after %v, want at least 50ms", elapsed)
	}
}

func TestMemoryQueueRedeliversOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	redelivered := make(chan Message, 1)
	q := startQueue(t, func(ctx context.Context, msg Message) error {
		mu.Lock()
		calls++
		mu.Unlock()
		if msg.Redelivered {
			redelivered <- msg
		}
		return errors.New("database unavailable")
	})

	if err := q.Publish(context.Background(), NewMessage("evaluation.writing", 1)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	waitFor(t, redelivered)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestMemoryQueueClosed(t *testing.T) {
	q := NewMemoryQueue(1, 1)
	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := q.Publish(context.Background(), NewMessage("evaluation.writing", 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("Publish after Close = %v, want ErrClosed", err)
	}
	if err := q.PublishDelayed(context.Background(), NewMessage("evaluation.writing", 1), time.Second); !errors.Is(err, ErrClosed) {
		t.Errorf("PublishDelayed after Close = %v, want ErrClosed", err)
	}
}
