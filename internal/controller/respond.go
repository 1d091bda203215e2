// Package controller holds helpers shared by the user and admin HTTP handlers.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/mockexam/internal/apperror"
	"github.com/lshigami/mockexam/internal/dto"
	"github.com/lshigami/mockexam/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RespondError writes err as a dto.ErrorResponse. Validation errors are 400,
// missing records 404 and everything else 500.
func RespondError(ctx *gin.Context, op string, err error) {
	var ve *apperror.ValidationError
	switch {
	case errors.As(err, &ve):
		log.Warn().Err(err).Str("op", op).Msg("Request rejected")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: ve.Message, Details: fieldDetails(ve)})
	case errors.Is(err, gorm.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Resource not found"})
	default:
		log.Error().Err(err).Str("op", op).Msg("Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error", Details: []string{err.Error()}})
	}
}

func fieldDetails(ve *apperror.ValidationError) []string {
	if ve.Field == "" {
		return nil
	}
	return []string{"field: " + ve.Field}
}

// BindJSON binds the request body into req and answers 400 on failure.
func BindJSON(ctx *gin.Context, op string, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		log.Warn().Err(err).Str("op", op).Msg("Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return false
	}
	return true
}

// ParseID reads a positive numeric path parameter and answers 400 otherwise.
func ParseID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || val == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

func ParseKind(ctx *gin.Context) (model.EvaluationKind, bool) {
	kind := model.EvaluationKind(ctx.Param("kind"))
	if !kind.Valid() {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Evaluation kind must be writing or speaking"})
		return "", false
	}
	return kind, true
}
