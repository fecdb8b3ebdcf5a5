package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/softblue/bank_backend/internal/apperrors"
	"github.com/softblue/bank_backend/internal/dto"
	"github.com/softblue/bank_backend/internal/middleware"
	"github.com/softblue/bank_backend/internal/utils"
)

// statusForError maps an error's kind to the HTTP status returned to the client.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInsufficientFunds), errors.Is(err, apperrors.ErrPolicyViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case apperrors.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes the error body for err. Client errors echo the message,
// server errors only the generic fallback.
func respondWithError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)

	resp := dto.ErrorResponse{
		Error: err.Error(),
		Kind:  apperrors.Kind(err),
	}
	var amountErr *apperrors.AmountError
	if errors.As(err, &amountErr) {
		amount := utils.FormatMoney(amountErr.Amount)
		resp.Amount = &amount
		if amountErr.Available != nil {
			available := utils.FormatMoney(*amountErr.Available)
			resp.Available = &available
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()), slog.String("kind", resp.Kind))
		resp.Error = fallback
	} else {
		logger.Warn(fallback, slog.String("error", err.Error()), slog.String("kind", resp.Kind))
	}
	c.JSON(status, resp)
}

// respondBindError reports a request that failed binding or tag validation.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Invalid request format: " + err.Error(),
		Kind:  apperrors.Kind(apperrors.ErrValidation),
	})
}
