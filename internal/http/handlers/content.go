package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/schoolbridge-backend/internal/http/response"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/ctxutil"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/services"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

type ContentHandler struct {
	log        *logger.Logger
	contentSvc services.ContentService
}

func NewContentHandler(log *logger.Logger, contentSvc services.ContentService) *ContentHandler {
	return &ContentHandler{
		log:        log.With("handler", "ContentHandler"),
		contentSvc: contentSvc,
	}
}

// contentView pairs the stored row with the summary resolved for this reader.
type contentView struct {
	Content         *types.Content            `json:"content"`
	SelectedSummary services.SummarySelection `json:"selected_summary"`
}

func viewFor(c *gin.Context, content *types.Content) contentView {
	category := ""
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		category = rd.AccessibilityCategory
	}
	return contentView{
		Content:         content,
		SelectedSummary: services.SelectSummary(content, category),
	}
}

// POST /api/contents
// Multipart form: subject_id, title, description, start_date, end_date,
// raw_text and an optional artifact file.
func (h *ContentHandler) Create(c *gin.Context) {
	subjectID, err := uuid.Parse(c.PostForm("subject_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	startDate, err := time.Parse(time.RFC3339, c.PostForm("start_date"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	endDate, err := time.Parse(time.RFC3339, c.PostForm("end_date"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	artifact, err := readOptionalArtifact(c, "file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	input := services.CreateContentInput{
		SubjectID:   subjectID,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		StartDate:   startDate,
		EndDate:     endDate,
		RawText:     c.PostForm("raw_text"),
		Artifact:    artifact,
	}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		input.CreatedBy = rd.UserID
	}

	content, err := h.contentSvc.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondCreated(c, viewFor(c, content))
}

// PUT /api/contents/:id
func (h *ContentHandler) Update(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	var input services.UpdateContentInput
	if v, ok := c.GetPostForm("title"); ok {
		input.Title = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		input.Description = &v
	}
	if v, ok := c.GetPostForm("raw_text"); ok {
		input.RawText = &v
	}
	if v, ok := c.GetPostForm("start_date"); ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
			return
		}
		input.StartDate = &t
	}
	if v, ok := c.GetPostForm("end_date"); ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
			return
		}
		input.EndDate = &t
	}
	if v, ok := c.GetPostForm("active"); ok {
		active := v == "true" || v == "1"
		input.Active = &active
	}
	artifact, err := readOptionalArtifact(c, "file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	input.Artifact = artifact

	content, err := h.contentSvc.Update(c.Request.Context(), contentID, input)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondOK(c, viewFor(c, content))
}

// GET /api/contents/:id
func (h *ContentHandler) Get(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	content, err := h.contentSvc.GetByID(c.Request.Context(), contentID)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondOK(c, viewFor(c, content))
}

// GET /api/subjects/:id/contents
func (h *ContentHandler) ListBySubject(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	contents, err := h.contentSvc.ListBySubject(c.Request.Context(), subjectID)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	views := make([]contentView, 0, len(contents))
	for _, content := range contents {
		views = append(views, viewFor(c, content))
	}
	response.RespondOK(c, gin.H{"contents": views})
}

// DELETE /api/contents/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	if err := h.contentSvc.Delete(c.Request.Context(), contentID); err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": contentID})
}
