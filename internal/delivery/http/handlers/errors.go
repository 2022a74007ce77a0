package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LavaJover/safelink-deal-service/internal/delivery/http/dto/deal/response"
	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// statusForError maps engine errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDealNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPaymentNotSuccessful):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(status, response.ErrorResponse{Error: "internal server error"})
		return
	}

	body := response.ErrorResponse{Error: err.Error()}
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		body.Field = validationErr.Field
	}
	c.JSON(status, body)
}
