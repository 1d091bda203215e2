package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockexam/internal/controller"
	"github.com/lshigami/mockexam/internal/dto"
	"github.com/lshigami/mockexam/internal/model"
	"github.com/lshigami/mockexam/internal/service"
)

type AttemptController struct {
	attemptService   service.AttemptService
	objectiveService service.ObjectiveService
	scoreService     service.ScoreService
	analysisService  service.AnalysisService
}

func NewAttemptController(
	attemptService service.AttemptService,
	objectiveService service.ObjectiveService,
	scoreService service.ScoreService,
	analysisService service.AnalysisService,
) *AttemptController {
	return &AttemptController{
		attemptService:   attemptService,
		objectiveService: objectiveService,
		scoreService:     scoreService,
		analysisService:  analysisService,
	}
}

// StartAttempt godoc
// @Summary (User) Start an exam attempt
// @Description Creates an attempt of a test for a candidate. All section scores start empty.
// @Tags User - Attempts
// @Accept json
// @Produce json
// @Param attempt body dto.StartAttemptRequest true "Candidate and test"
// @Success 201 {object} dto.ExamAttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	var req dto.StartAttemptRequest
	if !controller.BindJSON(ctx, "StartAttempt", &req) {
		return
	}
	resp, err := c.attemptService.StartAttempt(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "StartAttempt", err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetAttempt godoc
// @Summary (User) Get an exam attempt
// @Description Returns the section bands and the overall band of an attempt.
// @Tags User - Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.ExamAttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid attempt ID"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	resp, err := c.attemptService.GetAttempt(ctx.Request.Context(), attemptID)
	if err != nil {
		controller.RespondError(ctx, "GetAttempt", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAnswer godoc
// @Summary (User) Submit an objective answer
// @Description Scores a listening or reading answer immediately. Submitting again replaces the earlier answer.
// @Tags User - Objective sections
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param question_id path int true "Question ID"
// @Param answer body dto.SubmitAnswerRequest true "Literal answer"
// @Success 200 {object} dto.AnswerResult
// @Failure 400 {object} dto.ErrorResponse "Question not part of the attempt's test"
// @Failure 404 {object} dto.ErrorResponse "Attempt or question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{attempt_id}/answers/{question_id} [put]
func (c *AttemptController) SubmitAnswer(ctx *gin.Context) {
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	questionID, ok := controller.ParseID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.SubmitAnswerRequest
	if !controller.BindJSON(ctx, "SubmitAnswer", &req) {
		return
	}
	resp, err := c.objectiveService.SubmitAnswer(ctx.Request.Context(), attemptID, questionID, req)
	if err != nil {
		controller.RespondError(ctx, "SubmitAnswer", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// FinalizeSection godoc
// @Summary (User) Finalize an objective section
// @Description Converts the weighted correct count of a listening or reading section into a band and updates the overall band.
// @Tags User - Objective sections
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param section path string true "listening or reading"
// @Success 200 {object} dto.SectionResultResponse
// @Failure 400 {object} dto.ErrorResponse "Not an objective section"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{attempt_id}/sections/{section}/finalize [post]
func (c *AttemptController) FinalizeSection(ctx *gin.Context) {
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	section := model.Section(ctx.Param("section"))
	resp, err := c.objectiveService.FinalizeSection(ctx.Request.Context(), attemptID, section)
	if err != nil {
		controller.RespondError(ctx, "FinalizeSection", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetOverallScore godoc
// @Summary (User) Get the overall band
// @Description Mean of the scored sections rounded to the nearest half band; null while no section is scored.
// @Tags User - Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.OverallScoreResponse
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id}/overall [get]
func (c *AttemptController) GetOverallScore(ctx *gin.Context) {
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	resp, err := c.scoreService.GetOverallScore(ctx.Request.Context(), attemptID)
	if err != nil {
		controller.RespondError(ctx, "GetOverallScore", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetAnalysis godoc
// @Summary (User) Get strengths and weaknesses
// @Description Classifies question types of the finalized sections by weighted accuracy.
// @Tags User - Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id}/analysis [get]
func (c *AttemptController) GetAnalysis(ctx *gin.Context) {
	attemptID, ok := controller.ParseID(ctx, "attempt_id")
	if !ok {
		return
	}
	resp, err := c.analysisService.GetAnalysis(ctx.Request.Context(), attemptID)
	if err != nil {
		controller.RespondError(ctx, "GetAnalysis", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
