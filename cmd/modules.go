package main

import (
	"context"
	"io"

	"github.com/lshigami/mockexam/config"
	"github.com/lshigami/mockexam/database"
	adminctrl "github.com/lshigami/mockexam/internal/controller/admin"
	userctrl "github.com/lshigami/mockexam/internal/controller/user"
	"github.com/lshigami/mockexam/internal/evaluation"
	"github.com/lshigami/mockexam/internal/grading"
	"github.com/lshigami/mockexam/internal/model"
	"github.com/lshigami/mockexam/internal/queue"
	"github.com/lshigami/mockexam/internal/repository"
	"github.com/lshigami/mockexam/internal/scoring"
	"github.com/lshigami/mockexam/internal/service"
	"github.com/lshigami/mockexam/internal/speech"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const memoryQueueBuffer = 256

// coreModule provides configuration, storage and the services every command needs.
var coreModule = fx.Options(
	fx.Provide(
		config.NewConfig,
		database.NewDatabase,
		NewQueue,
		func(q queue.Queue) queue.Publisher { return q },
	),

	// Repositories Layer
	fx.Provide(
		repository.NewTestRepository,
		repository.NewQuestionRepository,
		repository.NewAnswerRepository,
		repository.NewExamAttemptRepository,
		repository.NewSectionResultRepository,
		repository.NewWritingAttemptRepository,
		repository.NewSpeakingAttemptRepository,
		repository.NewEvaluationStateRepository,
	),

	// Services Layer
	fx.Provide(
		NewBandConverter,
		service.NewAttemptService,
		service.NewScoreService,
		service.NewObjectiveService,
		service.NewEvaluationService,
		service.NewAnalysisService,
	),
)

// pipelineModule provides the evaluation workers and their external capabilities.
var pipelineModule = fx.Options(
	fx.Provide(
		NewGradingProvider,
		func(p grading.Provider, cfg *config.Config) grading.Grader { return grading.NewRubricGrader(p, cfg) },
		NewTranscriber,
		NewUsageLedger,
		func(s service.ScoreService) evaluation.ScoreSink { return s },
		evaluation.NewProcessor,
		func(p *evaluation.Processor) evaluation.JobProcessor { return p },
		evaluation.NewDispatcher,
	),
)

// httpModule provides the gin engine and the API controllers.
var httpModule = fx.Options(
	fx.Provide(
		NewGinEngine,
		userctrl.NewAttemptController,
		userctrl.NewEvaluationController,
		adminctrl.NewEvaluationController,
	),
)

func NewBandConverter(cfg *config.Config) *scoring.BandConverter {
	return scoring.NewBandConverter(
		scoring.ParseFallback(cfg.Scoring.ListeningFallback),
		scoring.ParseFallback(cfg.Scoring.ReadingFallback),
	)
}

// NewQueue uses RabbitMQ when RABBITMQ_URL is set and an in-process queue otherwise.
func NewQueue(cfg *config.Config) (queue.Queue, error) {
	if cfg.Queue.RabbitURL == "" {
		log.Info().Int("workers", cfg.Queue.Workers).Msg("Using in-memory evaluation queue")
		return queue.NewMemoryQueue(cfg.Queue.Workers, memoryQueueBuffer), nil
	}
	q, err := queue.NewAMQPQueue(cfg)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func NewGradingProvider(lc fx.Lifecycle, cfg *config.Config) (grading.Provider, error) {
	provider, err := grading.NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	if closer, ok := provider.(io.Closer); ok {
		lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return closer.Close() }})
	}
	log.Info().Str("provider", cfg.AI.Provider).Msg("Grading provider ready")
	return provider, nil
}

func NewTranscriber(cfg *config.Config) speech.Transcriber {
	return speech.NewStage(speech.NewFFmpegTranscoder(cfg), speech.NewWhisperRecognizer(cfg), cfg)
}

// NewUsageLedger records token usage in Redis when REDIS_ADDR is set.
func NewUsageLedger(lc fx.Lifecycle, cfg *config.Config) evaluation.UsageLedger {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, usage is accounted in memory")
		return evaluation.NewMemoryLedger()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis not reachable, usage charges will fail until it is")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error { return client.Close() },
	})
	return evaluation.NewRedisLedger(client)
}

// StartWorkers feeds queued messages to the dispatcher for the lifetime of the app.
func StartWorkers(lc fx.Lifecycle, q queue.Queue, dispatcher *evaluation.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return q.Start(dispatcher.Handle)
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping evaluation workers...")
			return q.Close()
		},
	})
}

func AutoMigrateDB(db *gorm.DB) {
	log.Info().Msg("Running database auto-migrations...")
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto-migrate database")
	}
	log.Info().Msg("Database auto-migration completed.")
}
