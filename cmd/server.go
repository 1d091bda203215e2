package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockexam/config"
	_ "github.com/lshigami/mockexam/docs"
	adminctrl "github.com/lshigami/mockexam/internal/controller/admin"
	userctrl "github.com/lshigami/mockexam/internal/controller/user"
	"github.com/lshigami/mockexam/internal/metrics"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

// NewGinEngine builds the router with request logging, CORS and the
// operational endpoints. Health checks and metric scrapes are not logged.
func NewGinEngine(cfg *config.Config) *gin.Engine {
	mode := cfg.Server.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	r.Use(requestLogger("/healthz", "/metrics"))
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	if cfg.Server.Swagger {
		// URL: http://localhost:PORT/swagger/index.html
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	r.GET("/metrics", metrics.Handler())
	r.GET("/healthz", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	return r
}

// requestLogger logs one line per request under the matched route template,
// at warn for client errors and error for server errors.
func requestLogger(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		if skipped[ctx.Request.URL.Path] {
			return
		}

		status := ctx.Writer.Status()
		event := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		}
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		event.
			Str("client_ip", ctx.ClientIP()).
			Str("method", ctx.Request.Method).
			Str("route", route).
			Str("path", ctx.Request.URL.Path).
			Int("status_code", status).
			Dur("latency", time.Since(start)).
			Str("user_agent", ctx.Request.UserAgent()).
			Str("error_message", ctx.Errors.ByType(gin.ErrorTypePrivate).String()).
			Msg("gin_request")
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	attemptCtrl *userctrl.AttemptController,
	evaluationCtrl *userctrl.EvaluationController,
	adminEvaluationCtrl *adminctrl.EvaluationController,
) {
	// Admin Routes (prefixed with /api/v1/admin)
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		evaluations := adminAPIGroup.Group("/evaluations")
		evaluations.GET("/:kind/failed", adminEvaluationCtrl.ListFailed)
		evaluations.POST("/:kind/:job_id/retry", adminEvaluationCtrl.RetryJob)
	}

	// User Routes (prefixed with /api/v1)
	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.POST("/attempts", attemptCtrl.StartAttempt)
		userAPIGroup.GET("/attempts/:attempt_id", attemptCtrl.GetAttempt)
		userAPIGroup.GET("/attempts/:attempt_id/overall", attemptCtrl.GetOverallScore)
		userAPIGroup.GET("/attempts/:attempt_id/analysis", attemptCtrl.GetAnalysis)

		// Listening and reading
		userAPIGroup.PUT("/attempts/:attempt_id/answers/:question_id", attemptCtrl.SubmitAnswer)
		userAPIGroup.POST("/attempts/:attempt_id/sections/:section/finalize", attemptCtrl.FinalizeSection)

		// Writing and speaking
		userAPIGroup.POST("/attempts/:attempt_id/writing/:task_id", evaluationCtrl.SubmitWriting)
		userAPIGroup.POST("/attempts/:attempt_id/speaking", evaluationCtrl.SubmitSpeaking)
		userAPIGroup.GET("/evaluations/:kind/:job_id", evaluationCtrl.GetJob)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Mock exam API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
