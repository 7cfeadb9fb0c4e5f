package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

type SupplementaryMaterialRepo interface {
	Create(ctx context.Context, tx *gorm.DB, material *types.SupplementaryMaterial) (*types.SupplementaryMaterial, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SupplementaryMaterial, error)
	ListByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) ([]*types.SupplementaryMaterial, error)
	ListByContentIDAndCategory(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, category types.AccessibilityCategory) ([]*types.SupplementaryMaterial, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) error
}

type supplementaryMaterialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupplementaryMaterialRepo(db *gorm.DB, baseLog *logger.Logger) SupplementaryMaterialRepo {
	return &supplementaryMaterialRepo{db: db, log: baseLog.With("repo", "SupplementaryMaterialRepo")}
}

func (r *supplementaryMaterialRepo) Create(ctx context.Context, tx *gorm.DB, material *types.SupplementaryMaterial) (*types.SupplementaryMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(material).Error; err != nil {
		return nil, err
	}
	return material, nil
}

func (r *supplementaryMaterialRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SupplementaryMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.SupplementaryMaterial
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *supplementaryMaterialRepo) ListByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) ([]*types.SupplementaryMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SupplementaryMaterial
	if err := transaction.WithContext(ctx).
		Where("content_id = ?", contentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supplementaryMaterialRepo) ListByContentIDAndCategory(ctx context.Context, tx *gorm.DB, contentID uuid.UUID, category types.AccessibilityCategory) ([]*types.SupplementaryMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SupplementaryMaterial
	if err := transaction.WithContext(ctx).
		Where("content_id = ? AND target_category IN ?", contentID, []types.AccessibilityCategory{category, types.CategoryAll}).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *supplementaryMaterialRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.SupplementaryMaterial{}).Error
}

func (r *supplementaryMaterialRepo) DeleteByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("content_id = ?", contentID).
		Delete(&types.SupplementaryMaterial{}).Error
}
