package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yungbote/schoolbridge-backend/internal/http/response"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/ctxutil"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/services"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("accessibility_category", func(fl validator.FieldLevel) bool {
			raw := fl.Field().String()
			if strings.EqualFold(raw, "all") {
				return true
			}
			_, known := types.ParseAccessibilityCategory(raw)
			return known
		})
	}
}

type MaterialHandler struct {
	log         *logger.Logger
	materialSvc services.MaterialService
}

func NewMaterialHandler(log *logger.Logger, materialSvc services.MaterialService) *MaterialHandler {
	return &MaterialHandler{
		log:         log.With("handler", "MaterialHandler"),
		materialSvc: materialSvc,
	}
}

// POST /api/contents/:id/materials
// Multipart form: kind, title, url, target_category and a "file" part for
// file-kind materials.
func (h *MaterialHandler) Create(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	file, err := readOptionalArtifact(c, "file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}

	input := services.CreateMaterialInput{
		ContentID:      contentID,
		Kind:           types.MaterialKind(c.PostForm("kind")),
		Title:          c.PostForm("title"),
		URL:            c.PostForm("url"),
		File:           file,
		TargetCategory: c.PostForm("target_category"),
	}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		input.CreatedBy = rd.UserID
	}

	material, err := h.materialSvc.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"material": material})
}

type listMaterialsQuery struct {
	Category string `form:"category" binding:"omitempty,accessibility_category"`
}

// GET /api/contents/:id/materials
// Filters by ?category=..., falling back to the caller's declared category.
func (h *MaterialHandler) ListByContent(c *gin.Context) {
	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	var query listMaterialsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	category := query.Category
	if category == "" {
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
			category = rd.AccessibilityCategory
		}
	}
	materials, err := h.materialSvc.ListByContent(c.Request.Context(), contentID, category)
	if err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"materials": materials})
}

// DELETE /api/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	if err := h.materialSvc.Delete(c.Request.Context(), materialID); err != nil {
		response.RespondMappedError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": materialID})
}
