package response

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondMappedError translates the pipeline failure taxonomy into HTTP.
// Soft failures never reach this point; everything else maps to a stable code.
func RespondMappedError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, errors.ErrValidation):
		RespondError(c, http.StatusBadRequest, "validation_failed", err)
	case stderrors.Is(err, errors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case stderrors.Is(err, errors.ErrForbidden):
		RespondError(c, http.StatusForbidden, "forbidden", err)
	case stderrors.Is(err, errors.ErrSynthesis):
		RespondError(c, http.StatusBadGateway, "synthesis_failed", err)
	case stderrors.Is(err, errors.ErrPersistence):
		RespondError(c, http.StatusInternalServerError, "persistence_failed", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
