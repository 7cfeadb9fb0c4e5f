package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/errors"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/platform/gcs"
	"github.com/yungbote/schoolbridge-backend/internal/repos"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

// CreateContentInput carries everything needed to create a content unit.
// RawText and Artifact are both optional; when both are present the artifact's
// extracted text wins and RawText is the degraded fallback.
type CreateContentInput struct {
	SubjectID   uuid.UUID
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	RawText     string
	Artifact    *ArtifactInput
	CreatedBy   uuid.UUID
}

// UpdateContentInput applies partial updates. Nil pointers leave the field
// untouched. Supplying RawText or Artifact re-resolves the content text and
// triggers re-adaptation only when the resolved text actually changed.
type UpdateContentInput struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Active      *bool
	RawText     *string
	Artifact    *ArtifactInput
}

type ContentService interface {
	Create(ctx context.Context, input CreateContentInput) (*types.Content, error)
	Update(ctx context.Context, contentID uuid.UUID, input UpdateContentInput) (*types.Content, error)
	GetByID(ctx context.Context, contentID uuid.UUID) (*types.Content, error)
	ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*types.Content, error)
	Delete(ctx context.Context, contentID uuid.UUID) error
}

type contentService struct {
	log          *logger.Logger
	db           *gorm.DB
	contentRepo  repos.ContentRepo
	subjectRepo  repos.SubjectRepo
	questionRepo repos.QuestionRepo
	responseRepo repos.ResponseRepo
	materialRepo repos.SupplementaryMaterialRepo
	bucket       gcs.BucketService
	extractor    ExtractorService
	adapter      AdaptationService
}

func NewContentService(
	baseLog *logger.Logger,
	db *gorm.DB,
	contentRepo repos.ContentRepo,
	subjectRepo repos.SubjectRepo,
	questionRepo repos.QuestionRepo,
	responseRepo repos.ResponseRepo,
	materialRepo repos.SupplementaryMaterialRepo,
	bucket gcs.BucketService,
	extractor ExtractorService,
	adapter AdaptationService,
) ContentService {
	return &contentService{
		log:          baseLog.With("service", "ContentService"),
		db:           db,
		contentRepo:  contentRepo,
		subjectRepo:  subjectRepo,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		materialRepo: materialRepo,
		bucket:       bucket,
		extractor:    extractor,
		adapter:      adapter,
	}
}

func (s *contentService) Create(ctx context.Context, input CreateContentInput) (*types.Content, error) {
	if err := validateContentFields(input.Title, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if _, err := s.subjectRepo.GetByID(ctx, nil, input.SubjectID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: subject %s", errors.ErrNotFound, input.SubjectID)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	content := &types.Content{
		ID:          uuid.New(),
		SubjectID:   input.SubjectID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Active:      true,
		CreatedBy:   input.CreatedBy,
	}

	resolvedText := strings.TrimSpace(input.RawText)
	if input.Artifact != nil {
		key := artifactKey(content.ID, input.Artifact.FileName)
		if err := s.bucket.Upload(ctx, key, bytes.NewReader(input.Artifact.Data), input.Artifact.MimeType); err != nil {
			return nil, fmt.Errorf("%w: artifact upload: %v", errors.ErrPersistence, err)
		}
		extraction := s.extractor.Extract(ctx, *input.Artifact)
		content.ArtifactKey = key
		content.ArtifactURL = s.bucket.PublicURL(key)
		content.ArtifactName = input.Artifact.FileName
		content.ArtifactKind = extraction.Kind
		if extraction.OK() && strings.TrimSpace(extraction.Text) != "" {
			resolvedText = strings.TrimSpace(extraction.Text)
		} else if extraction.Err != nil {
			s.log.Warn("Creating content without extracted text",
				"content_id", content.ID,
				"error", extraction.Err,
			)
		}
	}
	content.Summary = resolvedText

	s.adaptInto(ctx, content, resolvedText)

	if _, err := s.contentRepo.Create(ctx, nil, content); err != nil {
		if content.HasArtifact() {
			if delErr := s.bucket.Delete(ctx, content.ArtifactKey); delErr != nil {
				s.log.Warn("Failed to remove orphaned artifact after rollback",
					"artifact_key", content.ArtifactKey,
					"error", delErr,
				)
			}
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return content, nil
}

func (s *contentService) Update(ctx context.Context, contentID uuid.UUID, input UpdateContentInput) (*types.Content, error) {
	content, err := s.contentRepo.GetByID(ctx, nil, contentID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: content %s", errors.ErrNotFound, contentID)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	if input.Title != nil {
		content.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		content.Description = strings.TrimSpace(*input.Description)
	}
	if input.StartDate != nil {
		content.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		content.EndDate = *input.EndDate
	}
	if input.Active != nil {
		content.Active = *input.Active
	}
	if err := validateContentFields(content.Title, content.StartDate, content.EndDate); err != nil {
		return nil, err
	}

	oldArtifactKey := content.ArtifactKey
	newArtifactKey := ""
	resolvedText := content.Summary
	textSupplied := false

	if input.Artifact != nil {
		newArtifactKey = artifactKey(content.ID, input.Artifact.FileName)
		if err := s.bucket.Upload(ctx, newArtifactKey, bytes.NewReader(input.Artifact.Data), input.Artifact.MimeType); err != nil {
			return nil, fmt.Errorf("%w: artifact upload: %v", errors.ErrPersistence, err)
		}
		extraction := s.extractor.Extract(ctx, *input.Artifact)
		content.ArtifactKey = newArtifactKey
		content.ArtifactURL = s.bucket.PublicURL(newArtifactKey)
		content.ArtifactName = input.Artifact.FileName
		content.ArtifactKind = extraction.Kind
		if extraction.OK() && strings.TrimSpace(extraction.Text) != "" {
			resolvedText = strings.TrimSpace(extraction.Text)
			textSupplied = true
		} else if input.RawText != nil {
			resolvedText = strings.TrimSpace(*input.RawText)
			textSupplied = true
		}
	} else if input.RawText != nil {
		resolvedText = strings.TrimSpace(*input.RawText)
		textSupplied = true
	}

	// Re-adaptation runs only when the resolved text actually changed.
	// Metadata-only updates never touch the variants.
	if textSupplied && resolvedText != content.Summary {
		content.Summary = resolvedText
		s.adaptInto(ctx, content, resolvedText)
	}

	if err := s.contentRepo.Save(ctx, nil, content); err != nil {
		if newArtifactKey != "" {
			if delErr := s.bucket.Delete(ctx, newArtifactKey); delErr != nil {
				s.log.Warn("Failed to remove orphaned artifact after rollback",
					"artifact_key", newArtifactKey,
					"error", delErr,
				)
			}
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	// The old object goes only after the row referencing the new one is
	// committed.
	if newArtifactKey != "" && oldArtifactKey != "" && oldArtifactKey != newArtifactKey {
		if delErr := s.bucket.Delete(ctx, oldArtifactKey); delErr != nil {
			s.log.Warn("Failed to remove replaced artifact",
				"artifact_key", oldArtifactKey,
				"error", delErr,
			)
		}
	}
	return content, nil
}

func (s *contentService) GetByID(ctx context.Context, contentID uuid.UUID) (*types.Content, error) {
	content, err := s.contentRepo.GetByID(ctx, nil, contentID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: content %s", errors.ErrNotFound, contentID)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return content, nil
}

func (s *contentService) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*types.Content, error) {
	contents, err := s.contentRepo.ListBySubjectID(ctx, nil, subjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return contents, nil
}

func (s *contentService) Delete(ctx context.Context, contentID uuid.UUID) error {
	content, err := s.contentRepo.GetByID(ctx, nil, contentID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: content %s", errors.ErrNotFound, contentID)
		}
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	materials, err := s.materialRepo.ListByContentID(ctx, nil, contentID)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	// Objects go before rows. A failed storage delete aborts the whole
	// operation so a missing row can never hide an unreachable object.
	if content.HasArtifact() {
		if err := s.bucket.Delete(ctx, content.ArtifactKey); err != nil {
			return fmt.Errorf("%w: artifact delete: %v", errors.ErrPersistence, err)
		}
	}
	for _, m := range materials {
		if m.StorageKey == "" {
			continue
		}
		if err := s.bucket.Delete(ctx, m.StorageKey); err != nil {
			return fmt.Errorf("%w: material object delete: %v", errors.ErrPersistence, err)
		}
	}

	// Dependents and the content row fall together or not at all. Responses
	// go first while their questions are still visible to the subquery.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.responseRepo.DeleteByContentID(ctx, tx, contentID); err != nil {
			return err
		}
		if err := s.questionRepo.DeleteByContentID(ctx, tx, contentID); err != nil {
			return err
		}
		if err := s.materialRepo.DeleteByContentID(ctx, tx, contentID); err != nil {
			return err
		}
		return s.contentRepo.DeleteByID(ctx, tx, contentID)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return nil
}

// adaptInto runs the adaptation engine and attaches the bundle on success.
// Adaptation is soft: a degenerate input or provider failure leaves the
// existing variants in place.
func (s *contentService) adaptInto(ctx context.Context, content *types.Content, text string) {
	set, err := s.adapter.Adapt(ctx, text)
	if err != nil {
		if stderrors.Is(err, errors.ErrNoAdaptationInput) {
			s.log.Info("Skipping adaptation, input below validity gate", "content_id", content.ID)
		} else {
			s.log.Warn("Adaptation failed, keeping prior variants",
				"content_id", content.ID,
				"error", err,
			)
		}
		return
	}
	if err := content.SetAdaptedSet(*set); err != nil {
		s.log.Warn("Refusing incomplete adapted set", "content_id", content.ID, "error", err)
	}
}

func validateContentFields(title string, startDate, endDate time.Time) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", errors.ErrValidation)
	}
	if startDate.IsZero() || endDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", errors.ErrValidation)
	}
	if endDate.Before(startDate) {
		return fmt.Errorf("%w: end_date precedes start_date", errors.ErrValidation)
	}
	return nil
}

// artifactKey namespaces uploaded objects per content with a fresh file id so
// replacing an artifact never reuses the old key.
func artifactKey(contentID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("contents/%s/%s%s", contentID, uuid.New(), ext)
}
