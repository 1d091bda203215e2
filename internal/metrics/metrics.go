package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// JobsProcessed counts finished evaluation runs by kind and outcome
	// (completed, failed, retry_scheduled, skipped, forwarded).
	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_jobs_total",
			Help: "Evaluation job runs by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluation_job_duration_seconds",
			Help:    "Time spent processing one evaluation job",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"kind"},
	)

	TranscoderFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "speech_transcoder_fallbacks_total",
			Help: "Audio conversions that needed the reduced fallback command",
		},
	)

	GradingRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grading_retries_total",
			Help: "Rubric grading calls repeated after a malformed response",
		},
		[]string{"kind"},
	)

	ObjectiveAnswers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "objective_answers_total",
			Help: "Objective answers scored, by correctness",
		},
		[]string{"correct"},
	)
)

// Handler exposes the default registry for gin.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
