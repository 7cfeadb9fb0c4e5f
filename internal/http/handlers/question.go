package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/schoolbridge-backend/internal/http/response"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/services"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

type QuestionHandler struct {
	log         *logger.Logger
	questionSvc services.QuestionService
}

func NewQuestionHandler(log *logger.Logger, questionSvc services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		log:         log.With("handler", "QuestionHandler"),
		questionSvc: questionSvc,
	}
}

type createQuestionRequest struct {
	Text    string `json:"text" binding:"required"`
	Options []struct {
		Label string `json:"label" binding:"required"`
		Text  string `json:"text" binding:"required"`
	} `json:"options" binding:"required,min=2,max=5"`
	Correct  string  `json:"correct" binding:"required,len=1"`
	Points   float64 `json:"points"`
	Position int     `json:"position"`
}

// POST /api/contents/:id/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	options := make([]types.QuestionOption, 0, len(req.Options))
	for _, o := range req.Options {
		options = append(options, types.QuestionOption{Label: o.Label, Text: o.Text})
	}

	question, err := h.questionSvc.Create(c.Request.Context(), services.CreateQuestionInput{
		ContentID: contentID,
		Text:      req.Text,
		Options:   options,
		Correct:   req.Correct,
		Points:    req.Points,
		Position:  req.Position,
	})
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"question": question})
}

// POST /api/contents/:id/questions/from-artifact
// Multipart form with the source file under "file".
func (h *QuestionHandler) CreateFromArtifact(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	artifact, err := readArtifact(fileHeader)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	questions, err := h.questionSvc.CreateFromArtifact(c.Request.Context(), contentID, *artifact)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"questions": questions})
}

// GET /api/contents/:id/questions
func (h *QuestionHandler) ListByContent(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	questions, err := h.questionSvc.ListByContent(c.Request.Context(), contentID)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}
