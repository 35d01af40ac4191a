package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quizroom/internal/dto"
	"quizroom/internal/service"
)

// RespondError maps service errors onto HTTP statuses. Validation and
// not-found errors keep their specific message; authorization and dependency
// failures are replaced with generic ones so nothing leaks to the caller.
func RespondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrQuizNotFound), errors.Is(err, service.ErrSubmissionNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrNotOwner):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "not permitted"})
	case errors.Is(err, service.ErrDependency):
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "temporary failure, please try again"})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
	}
}
