package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/mockexam/internal/dto"
	"gorm.io/gorm"
)

func TestStartAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	test := f.test(t, "Academic 1")

	started, err := f.attempts.StartAttempt(ctx, dto.StartAttemptRequest{UserID: 3, TestID: test.ID})
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if started.ID == 0 || started.UserID != 3 || started.OverallScore != nil {
		t.Errorf("started = %+v", started)
	}

	got, err := f.attempts.GetAttempt(ctx, started.ID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}
	if got.TestID != test.ID {
		t.Errorf("test id = %d, want %d", got.TestID, test.ID)
	}

	if _, err := f.attempts.StartAttempt(ctx, dto.StartAttemptRequest{UserID: 3, TestID: 999}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want record not found for unknown test", err)
	}
}
