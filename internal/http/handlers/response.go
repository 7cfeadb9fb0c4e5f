package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/schoolbridge-backend/internal/http/response"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/ctxutil"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/services"
)

type ResponseHandler struct {
	log         *logger.Logger
	responseSvc services.ResponseService
}

func NewResponseHandler(log *logger.Logger, responseSvc services.ResponseService) *ResponseHandler {
	return &ResponseHandler{
		log:         log.With("handler", "ResponseHandler"),
		responseSvc: responseSvc,
	}
}

type submitResponseRequest struct {
	Selected string `json:"selected" binding:"required,len=1"`
}

// POST /api/questions/:id/responses
func (h *ResponseHandler) Submit(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	var req submitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("missing identity"))
		return
	}

	resp, err := h.responseSvc.Submit(c.Request.Context(), questionID, rd.UserID, req.Selected)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"response": resp})
}

// GET /api/questions/:id/responses
func (h *ResponseHandler) ListByQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	responses, err := h.responseSvc.ListByQuestion(c.Request.Context(), questionID)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"responses": responses})
}

// GET /api/responses
// The caller's own answer history.
func (h *ResponseHandler) ListMine(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("missing identity"))
		return
	}
	responses, err := h.responseSvc.ListByStudent(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"responses": responses})
}
