package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockexam/internal/controller"
	"github.com/lshigami/mockexam/internal/dto"
	"github.com/lshigami/mockexam/internal/service"
)

type EvaluationController struct {
	evaluationService service.EvaluationService
}

func NewEvaluationController(evaluationService service.EvaluationService) *EvaluationController {
	return &EvaluationController{evaluationService: evaluationService}
}

// SubmitWriting godoc
// @Summary (User) Submit an essay for evaluation
// @Description Stores the essay and queues its rubric grading. The job starts PENDING; poll the job endpoint for the result.
// @Tags User - Evaluations
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param task_id path int true "Writing task ID"
// @Param essay body dto.WritingSubmissionRequest true "Essay text"
// @Success 202 {object} dto.EvaluationJobResponse
// @Failure 400 {object} dto.ErrorResponse "Empty essay, foreign task or duplicate submission"
// @Failure 404 {object} dto.ErrorResponse "Attempt or task not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{attempt_id}/writing/{task_id} [post]
func (c *EvaluationController) SubmitWriting(ctx *gin.Context) {
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	taskID, ok := controller.ParseID(ctx, "task_id")
	if !ok {
		return
	}
	var req dto.WritingSubmissionRequest
	if !controller.BindJSON(ctx, "SubmitWriting", &req) {
		return
	}
	resp, err := c.evaluationService.SubmitWriting(ctx.Request.Context(), attemptID, taskID, req)
	if err != nil {
		controller.RespondError(ctx, "SubmitWriting", err)
		return
	}
	ctx.JSON(http.StatusAccepted, resp)
}

// SubmitSpeaking godoc
// @Summary (User) Submit speaking recordings for evaluation
// @Description Queues transcription and grading of the recorded prompts. Prompts without a recording count as unanswered.
// @Tags User - Evaluations
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param recordings body dto.SpeakingSubmissionRequest true "Audio references per prompt"
// @Success 202 {object} dto.EvaluationJobResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown or duplicate prompt"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{attempt_id}/speaking [post]
func (c *EvaluationController) SubmitSpeaking(ctx *gin.Context) {
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.SpeakingSubmissionRequest
	if !controller.BindJSON(ctx, "SubmitSpeaking", &req) {
		return
	}
	resp, err := c.evaluationService.SubmitSpeaking(ctx.Request.Context(), attemptID, req)
	if err != nil {
		controller.RespondError(ctx, "SubmitSpeaking", err)
		return
	}
	ctx.JSON(http.StatusAccepted, resp)
}

// GetJob godoc
// @Summary (User) Get an evaluation job
// @Description Status, criterion bands and feedback of a writing or speaking job.
// @Tags User - Evaluations
// @Produce json
// @Param kind path string true "writing or speaking"
// @Param job_id path int true "Job ID"
// @Success 200 {object} dto.EvaluationJobResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid kind or ID"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /evaluations/{kind}/{job_id} [get]
func (c *EvaluationController) GetJob(ctx *gin.Context) {
	kind, ok := controller.ParseKind(ctx)
	if !ok {
		return
	}
	jobID, ok := controller.ParseID(ctx, "job_id")
	if !ok {
		return
	}
	resp, err := c.evaluationService.GetJob(ctx.Request.Context(), kind, jobID)
	if err != nil {
		controller.RespondError(ctx, "GetJob", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
