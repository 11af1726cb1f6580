package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
	"github.com/maxborn/loan_management_app/internal/core/services"
	"github.com/maxborn/loan_management_app/internal/middleware"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithError translates service and repository errors into HTTP
// responses. Unknown errors are logged and reported as a generic 500 so
// internals never leak to the client.
func respondWithError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "The record was modified concurrently, please retry"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Insufficient token balance"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, services.ErrLoanNotPayable),
		errors.Is(err, services.ErrNothingOutstanding):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		middleware.GetLoggerFromCtx(c.Request.Context()).Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}

// mustActor pulls the authenticated actor from the request context. The auth
// middleware guarantees it on every protected route; missing means a wiring
// bug, answered with 401.
func mustActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context on protected route")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}
