package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lshigami/mockexam/config"
	"github.com/lshigami/mockexam/internal/logger"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// @title Mock Exam Scoring API
// @version 1.0
// @description Objective scoring, band conversion and asynchronous writing and speaking evaluation for IELTS-style mock exams.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mockexam",
		Short: "Mock exam scoring and evaluation service",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viper.AutomaticEnv()
			logger.Init(viper.GetString("LOG_LEVEL"), viper.GetString("LOG_FORMAT"))
		},
	}

	serve := serveCmd()
	root.AddCommand(serve, workerCmd())
	// Bare `mockexam` runs the server.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())
	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with in-process evaluation workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(fx.New(
				coreModule,
				pipelineModule,
				httpModule,
				fx.Invoke(AutoMigrateDB),
				fx.Invoke(StartWorkers),
				fx.Invoke(RegisterRoutesAndStartServer),
				fx.NopLogger,
			))
		},
	}
	cmd.Flags().String("port", "", "HTTP listen port (overrides SERVER_PORT)")
	bindFlag(cmd, "SERVER_PORT", "port")
	return cmd
}

func workerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Consume evaluation jobs from RabbitMQ without serving HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(fx.New(
				coreModule,
				pipelineModule,
				fx.Invoke(warnInProcessQueue),
				fx.Invoke(StartWorkers),
				fx.NopLogger,
			))
		},
	}
	cmd.Flags().Int("workers", 0, "Concurrent evaluation workers (overrides QUEUE_WORKERS)")
	bindFlag(cmd, "QUEUE_WORKERS", "workers")
	return cmd
}

// bindFlag lets a flag override the environment only when it is set.
func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		log.Fatal().Err(err).Str("flag", flag).Msg("Failed to bind flag")
	}
}

func run(app *fx.App) error {
	if err := app.Start(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to start application")
		return err
	}
	sig := <-app.Wait()
	log.Info().Str("signal", fmt.Sprint(sig.Signal)).Msg("Application shutting down gracefully...")
	return app.Stop(context.Background())
}

func warnInProcessQueue(cfg *config.Config) {
	if cfg.Queue.RabbitURL == "" {
		log.Warn().Msg("RABBITMQ_URL is not set, the worker only sees jobs queued by this process")
	}
}
