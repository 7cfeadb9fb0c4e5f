package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/errors"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/platform/gcs"
	"github.com/yungbote/schoolbridge-backend/internal/repos"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

// CreateMaterialInput attaches a supplementary resource to a content unit.
// Link and video kinds carry a URL; file kinds carry the upload instead.
type CreateMaterialInput struct {
	ContentID      uuid.UUID
	Kind           types.MaterialKind
	Title          string
	URL            string
	File           *ArtifactInput
	TargetCategory string
	CreatedBy      uuid.UUID
}

type MaterialService interface {
	Create(ctx context.Context, input CreateMaterialInput) (*types.SupplementaryMaterial, error)
	ListByContent(ctx context.Context, contentID uuid.UUID, category string) ([]*types.SupplementaryMaterial, error)
	Delete(ctx context.Context, materialID uuid.UUID) error
}

type materialService struct {
	log          *logger.Logger
	materialRepo repos.SupplementaryMaterialRepo
	contentRepo  repos.ContentRepo
	bucket       gcs.BucketService
}

func NewMaterialService(
	baseLog *logger.Logger,
	materialRepo repos.SupplementaryMaterialRepo,
	contentRepo repos.ContentRepo,
	bucket gcs.BucketService,
) MaterialService {
	return &materialService{
		log:          baseLog.With("service", "MaterialService"),
		materialRepo: materialRepo,
		contentRepo:  contentRepo,
		bucket:       bucket,
	}
}

func (s *materialService) Create(ctx context.Context, input CreateMaterialInput) (*types.SupplementaryMaterial, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", errors.ErrValidation)
	}
	category := types.CategoryAll
	if raw := strings.TrimSpace(input.TargetCategory); raw != "" {
		parsed, ok := types.ParseAccessibilityCategory(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unknown target category %q", errors.ErrValidation, raw)
		}
		category = parsed
	}

	if _, err := s.contentRepo.GetByID(ctx, nil, input.ContentID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: content %s", errors.ErrNotFound, input.ContentID)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	material := &types.SupplementaryMaterial{
		ContentID:      input.ContentID,
		Kind:           input.Kind,
		Title:          strings.TrimSpace(input.Title),
		TargetCategory: category,
		CreatedBy:      input.CreatedBy,
	}

	switch input.Kind {
	case types.MaterialKindLink, types.MaterialKindVideo:
		if strings.TrimSpace(input.URL) == "" {
			return nil, fmt.Errorf("%w: url is required for %s materials", errors.ErrValidation, input.Kind)
		}
		material.URL = strings.TrimSpace(input.URL)
	case types.MaterialKindFile:
		if input.File == nil || len(input.File.Data) == 0 {
			return nil, fmt.Errorf("%w: file payload is required for file materials", errors.ErrValidation)
		}
		ext := strings.ToLower(filepath.Ext(input.File.FileName))
		key := fmt.Sprintf("materials/%s/%s%s", input.ContentID, uuid.New(), ext)
		if err := s.bucket.Upload(ctx, key, bytes.NewReader(input.File.Data), input.File.MimeType); err != nil {
			return nil, fmt.Errorf("%w: material upload: %v", errors.ErrPersistence, err)
		}
		material.StorageKey = key
		material.URL = s.bucket.PublicURL(key)
	default:
		return nil, fmt.Errorf("%w: unknown material kind %q", errors.ErrValidation, input.Kind)
	}

	created, err := s.materialRepo.Create(ctx, nil, material)
	if err != nil {
		if material.StorageKey != "" {
			if delErr := s.bucket.Delete(ctx, material.StorageKey); delErr != nil {
				s.log.Warn("Failed to remove orphaned material object after rollback",
					"storage_key", material.StorageKey,
					"error", delErr,
				)
			}
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return created, nil
}

// ListByContent filters by target category when one is given; materials
// tagged "all" are always included.
func (s *materialService) ListByContent(ctx context.Context, contentID uuid.UUID, category string) ([]*types.SupplementaryMaterial, error) {
	raw := strings.TrimSpace(category)
	if raw == "" {
		materials, err := s.materialRepo.ListByContentID(ctx, nil, contentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
		}
		return materials, nil
	}

	parsed, ok := types.ParseAccessibilityCategory(raw)
	if !ok {
		materials, err := s.materialRepo.ListByContentID(ctx, nil, contentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
		}
		return materials, nil
	}

	materials, err := s.materialRepo.ListByContentIDAndCategory(ctx, nil, contentID, parsed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return materials, nil
}

func (s *materialService) Delete(ctx context.Context, materialID uuid.UUID) error {
	material, err := s.materialRepo.GetByID(ctx, nil, materialID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: material %s", errors.ErrNotFound, materialID)
		}
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	if err := s.materialRepo.DeleteByID(ctx, nil, materialID); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	if material.Kind == types.MaterialKindFile && material.StorageKey != "" {
		if delErr := s.bucket.Delete(ctx, material.StorageKey); delErr != nil {
			s.log.Warn("Failed to remove object of deleted material",
				"material_id", materialID,
				"storage_key", material.StorageKey,
				"error", delErr,
			)
		}
	}
	return nil
}
