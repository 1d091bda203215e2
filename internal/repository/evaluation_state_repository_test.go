package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/mockexam/internal/model"
	"github.com/lshigami/mockexam/internal/testutil"
	"gorm.io/gorm"
)

func newWritingJob(t *testing.T, db *gorm.DB, state model.EvaluationState) *model.WritingAttempt {
	t.Helper()
	job := &model.WritingAttempt{AttemptID: 1, TaskID: 1, Content: "Essay", State: state}
	testutil.Create(t, db, job)
	return job
}

func TestClaim(t *testing.T) {
	tests := []struct {
		name  string
		state model.EvaluationState
		want  bool
	}{
		{"pending", model.EvaluationState{Status: model.StatusPending}, true},
		{"failed with budget", model.EvaluationState{Status: model.StatusFailed, FailureCount: 2}, true},
		{"failed out of budget", model.EvaluationState{Status: model.StatusFailed, FailureCount: 3}, false},
		{"terminal", model.EvaluationState{Status: model.StatusFailed, FailureCount: 1, Terminal: true}, false},
		{"processing", model.EvaluationState{Status: model.StatusProcessing}, false},
		{"completed", model.EvaluationState{Status: model.StatusCompleted}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewDB(t)
			repo := NewEvaluationStateRepository(db)
			job := newWritingJob(t, db, tt.state)

			got, err := repo.Claim(context.Background(), model.KindWriting, job.ID, 3)
			if err != nil {
				t.Fatalf("Claim: %v", err)
			}
			if got != tt.want {
				t.Fatalf("claimed = %v, want %v", got, tt.want)
			}

			var stored model.WritingAttempt
			db.First(&stored, job.ID)
			if tt.want && (stored.State.Status != model.StatusProcessing || stored.State.AttemptCount != tt.state.AttemptCount+1) {
				t.Errorf("state = %+v, want PROCESSING with one more attempt", stored.State)
			}
			if !tt.want && stored.State.Status != tt.state.Status {
				t.Errorf("status = %s, unclaimed job must not change", stored.State.Status)
			}
		})
	}
}

func TestClaimIsExclusive(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEvaluationStateRepository(db)
	job := newWritingJob(t, db, model.EvaluationState{Status: model.StatusPending})

	first, _ := repo.Claim(context.Background(), model.KindWriting, job.ID, 3)
	second, _ := repo.Claim(context.Background(), model.KindWriting, job.ID, 3)
	if !first || second {
		t.Errorf("claims = %v, %v, want only the first to succeed", first, second)
	}
}

func TestMarkFailedCountsTowardsBudget(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEvaluationStateRepository(db)
	ctx := context.Background()
	job := newWritingJob(t, db, model.EvaluationState{Status: model.StatusPending})

	for i := 1; i <= 3; i++ {
		if ok, err := repo.Claim(ctx, model.KindWriting, job.ID, 3); err != nil || !ok {
			t.Fatalf("claim %d: ok=%v err=%v", i, ok, err)
		}
		state, err := repo.MarkFailed(ctx, model.KindWriting, job.ID, Failure{Message: "timeout", Retryable: true, MaxAttempts: 3})
		if err != nil {
			t.Fatalf("MarkFailed: %v", err)
		}
		if state.FailureCount != i || state.Terminal != (i == 3) {
			t.Errorf("run %d: state = %+v", i, state)
		}
	}
	if ok, _ := repo.Claim(ctx, model.KindWriting, job.ID, 3); ok {
		t.Error("job out of budget must not be claimed")
	}
}

func TestMarkFailedTerminalAndPartial(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEvaluationStateRepository(db)
	ctx := context.Background()
	job := &model.SpeakingAttempt{AttemptID: 1, TotalPrompts: 10, AnsweredPrompts: 6, State: model.EvaluationState{Status: model.StatusProcessing}}
	testutil.Create(t, db, job)

	state, err := repo.MarkFailed(ctx, model.KindSpeaking, job.ID, Failure{Message: "incomplete", Retryable: false, MaxAttempts: 3, Partial: true})
	if err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if !state.Terminal || state.FailureCount != 1 {
		t.Errorf("state = %+v, want terminal after one failure", state)
	}
	var stored model.SpeakingAttempt
	db.First(&stored, job.ID)
	if !stored.IsPartial || stored.State.ErrorMessage != "incomplete" {
		t.Errorf("stored = %+v", stored)
	}

	if _, err := repo.MarkFailed(ctx, model.KindSpeaking, 999, Failure{MaxAttempts: 3}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want record not found", err)
	}
}

func TestReset(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEvaluationStateRepository(db)
	ctx := context.Background()
	failed := newWritingJob(t, db, model.EvaluationState{Status: model.StatusFailed, FailureCount: 3, Terminal: true, ErrorMessage: "auth"})

	ok, err := repo.Reset(ctx, model.KindWriting, failed.ID)
	if err != nil || !ok {
		t.Fatalf("Reset: ok=%v err=%v", ok, err)
	}
	var stored model.WritingAttempt
	db.First(&stored, failed.ID)
	if stored.State.Status != model.StatusPending || stored.State.FailureCount != 0 || stored.State.Terminal || stored.State.ErrorMessage != "" {
		t.Errorf("state after reset = %+v", stored.State)
	}

	if ok, _ := repo.Reset(ctx, model.KindWriting, failed.ID); ok {
		t.Error("only FAILED jobs can be reset")
	}
	if _, err := repo.Reset(ctx, "listening", failed.ID); err == nil {
		t.Error("unknown kind should be rejected")
	}
}
