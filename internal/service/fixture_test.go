package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/mockexam/internal/model"
	"github.com/lshigami/mockexam/internal/queue"
	"github.com/lshigami/mockexam/internal/repository"
	"github.com/lshigami/mockexam/internal/scoring"
	"github.com/lshigami/mockexam/internal/testutil"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []queue.Message
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg queue.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingPublisher) PublishDelayed(ctx context.Context, msg queue.Message, delay time.Duration) error {
	return p.Publish(ctx, msg)
}

func (p *recordingPublisher) published() []queue.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.Message(nil), p.messages...)
}

type fixture struct {
	db         *gorm.DB
	publisher  *recordingPublisher
	attempts   AttemptService
	scores     ScoreService
	objective  ObjectiveService
	evaluation EvaluationService
	analysis   AnalysisService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config()

	attemptRepo := repository.NewExamAttemptRepository(db)
	testRepo := repository.NewTestRepository(db)
	writingRepo := repository.NewWritingAttemptRepository(db)
	speakingRepo := repository.NewSpeakingAttemptRepository(db)
	resultRepo := repository.NewSectionResultRepository(db)

	f := &fixture{db: db, publisher: &recordingPublisher{}}
	f.attempts = NewAttemptService(attemptRepo, testRepo)
	f.scores = NewScoreService(attemptRepo, writingRepo, speakingRepo, db)
	f.objective = NewObjectiveService(
		attemptRepo,
		repository.NewQuestionRepository(db),
		repository.NewAnswerRepository(db),
		resultRepo,
		scoring.NewBandConverter(scoring.FallbackPercentage, scoring.FallbackPercentage),
		f.scores,
	)
	f.evaluation = NewEvaluationService(
		attemptRepo,
		testRepo,
		writingRepo,
		speakingRepo,
		repository.NewEvaluationStateRepository(db),
		f.publisher,
		cfg,
	)
	f.analysis = NewAnalysisService(attemptRepo, resultRepo)
	return f
}

func (f *fixture) test(t *testing.T, title string) *model.Test {
	t.Helper()
	test := &model.Test{Title: title}
	testutil.Create(t, f.db, test)
	return test
}

func (f *fixture) attempt(t *testing.T, testID uint) *model.ExamAttempt {
	t.Helper()
	attempt := &model.ExamAttempt{TestID: testID, UserID: 7}
	testutil.Create(t, f.db, attempt)
	return attempt
}

// questions adds a group of n questions whose answer key is "answer".
func (f *fixture) questions(t *testing.T, testID uint, section model.Section, part int, qtype model.QuestionType, n int) []model.Question {
	t.Helper()
	group := &model.QuestionGroup{TestID: testID, Section: section, PartNumber: part}
	testutil.Create(t, f.db, group)
	out := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		q := &model.Question{
			GroupID:       group.ID,
			Position:      i + 1,
			Type:          qtype,
			Prompt:        fmt.Sprintf("%s part %d question %d", section, part, i+1),
			CorrectAnswer: "answer",
		}
		testutil.Create(t, f.db, q)
		out = append(out, *q)
	}
	return out
}

func (f *fixture) reloadAttempt(t *testing.T, id uint) model.ExamAttempt {
	t.Helper()
	var attempt model.ExamAttempt
	if err := f.db.First(&attempt, id).Error; err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	return attempt
}

func assertBand(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %.1f", name, want)
	}
	if *got != want {
		t.Errorf("%s = %.1f, want %.1f", name, *got, want)
	}
}
