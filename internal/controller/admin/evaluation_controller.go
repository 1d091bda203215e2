package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockexam/internal/controller"
	"github.com/lshigami/mockexam/internal/dto"
	"github.com/lshigami/mockexam/internal/service"
	"github.com/rs/zerolog/log"
)

type EvaluationController struct {
	evaluationService service.EvaluationService
}

func NewEvaluationController(evaluationService service.EvaluationService) *EvaluationController {
	return &EvaluationController{evaluationService: evaluationService}
}

// ListFailed godoc
// @Summary (Admin) List failed evaluation jobs
// @Description Most recently failed jobs of a kind, including ones still waiting for an automatic retry.
// @Tags Admin - Evaluations
// @Produce json
// @Param kind path string true "writing or speaking"
// @Param limit query int false "Maximum number of jobs (default 50)"
// @Success 200 {object} dto.FailedJobsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid kind or limit"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/evaluations/{kind}/failed [get]
func (c *EvaluationController) ListFailed(ctx *gin.Context) {
	kind, ok := controller.ParseKind(ctx)
	if !ok {
		return
	}
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val < 0 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid limit"})
			return
		}
		limit = val
	}
	resp, err := c.evaluationService.ListFailed(ctx.Request.Context(), kind, limit)
	if err != nil {
		controller.RespondError(ctx, "ListFailed", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RetryJob godoc
// @Summary (Admin) Retry a failed evaluation job
// @Description Resets the failure count of a FAILED job and queues it again. Partial speaking submissions are rejected.
// @Tags Admin - Evaluations
// @Produce json
// @Param kind path string true "writing or speaking"
// @Param job_id path int true "Job ID"
// @Success 202 {object} dto.EvaluationJobResponse
// @Failure 400 {object} dto.ErrorResponse "Job is not failed or is a partial submission"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/evaluations/{kind}/{job_id}/retry [post]
func (c *EvaluationController) RetryJob(ctx *gin.Context) {
	kind, ok := controller.ParseKind(ctx)
	if !ok {
		return
	}
	jobID, ok := controller.ParseID(ctx, "job_id")
	if !ok {
		return
	}
	log.Info().Str("kind", string(kind)).Uint("jobID", jobID).Msg("Admin RetryJob requested")
	resp, err := c.evaluationService.RetryJob(ctx.Request.Context(), kind, jobID)
	if err != nil {
		controller.RespondError(ctx, "RetryJob", err)
		return
	}
	ctx.JSON(http.StatusAccepted, resp)
}
