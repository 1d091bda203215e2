package evaluation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lshigami/mockexam/internal/model"
	"github.com/redis/go-redis/v9"
)

// UsageLedger records grading token usage once per (job, run). Charge
// reports false when the run was already charged.
type UsageLedger interface {
	Charge(ctx context.Context, kind model.EvaluationKind, jobID uint, run int, tokens int) (bool, error)
}

const usageKeyTTL = 30 * 24 * time.Hour

func usageKey(kind model.EvaluationKind, jobID uint, run int) string {
	return fmt.Sprintf("usage:%s:%d:%d", kind, jobID, run)
}

func usageTotalKey(kind model.EvaluationKind) string {
	return fmt.Sprintf("usage:%s:total", kind)
}

type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

func (l *RedisLedger) Charge(ctx context.Context, kind model.EvaluationKind, jobID uint, run int, tokens int) (bool, error) {
	set, err := l.client.SetNX(ctx, usageKey(kind, jobID, run), tokens, usageKeyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("record usage: %w", err)
	}
	if !set {
		return false, nil
	}
	if err := l.client.IncrBy(ctx, usageTotalKey(kind), int64(tokens)).Err(); err != nil {
		return true, fmt.Errorf("update usage total: %w", err)
	}
	return true, nil
}

// MemoryLedger is the single process ledger used when Redis is not configured.
type MemoryLedger struct {
	mu      sync.Mutex
	charged map[string]int
	totals  map[model.EvaluationKind]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{charged: make(map[string]int), totals: make(map[model.EvaluationKind]int)}
}

func (l *MemoryLedger) Charge(ctx context.Context, kind model.EvaluationKind, jobID uint, run int, tokens int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := usageKey(kind, jobID, run)
	if _, ok := l.charged[key]; ok {
		return false, nil
	}
	l.charged[key] = tokens
	l.totals[kind] += tokens
	return true, nil
}

func (l *MemoryLedger) Total(kind model.EvaluationKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totals[kind]
}
