package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/schoolbridge-backend/internal/http/response"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/ctxutil"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/services"
)

type SubjectHandler struct {
	log        *logger.Logger
	subjectSvc services.SubjectService
}

func NewSubjectHandler(log *logger.Logger, subjectSvc services.SubjectService) *SubjectHandler {
	return &SubjectHandler{
		log:        log.With("handler", "SubjectHandler"),
		subjectSvc: subjectSvc,
	}
}

type createSubjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /api/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req createSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	teacherID := uuid.Nil
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		teacherID = rd.UserID
	}
	subject, err := h.subjectSvc.Create(c.Request.Context(), req.Name, teacherID)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"subject": subject})
}

// GET /api/subjects/:id
func (h *SubjectHandler) Get(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	subject, err := h.subjectSvc.GetByID(c.Request.Context(), subjectID)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subject": subject})
}

// DELETE /api/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	if err := h.subjectSvc.Delete(c.Request.Context(), subjectID); err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": subjectID})
}
