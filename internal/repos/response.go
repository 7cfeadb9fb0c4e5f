package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

type ResponseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, response *types.Response) (*types.Response, error)
	GetByQuestionAndStudent(ctx context.Context, tx *gorm.DB, questionID, studentID uuid.UUID) (*types.Response, error)
	ListByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*types.Response, error)
	ListByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Response, error)
	DeleteByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) error
}

type responseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResponseRepo(db *gorm.DB, baseLog *logger.Logger) ResponseRepo {
	return &responseRepo{db: db, log: baseLog.With("repo", "ResponseRepo")}
}

func (r *responseRepo) Create(ctx context.Context, tx *gorm.DB, response *types.Response) (*types.Response, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(response).Error; err != nil {
		return nil, err
	}
	return response, nil
}

func (r *responseRepo) GetByQuestionAndStudent(ctx context.Context, tx *gorm.DB, questionID, studentID uuid.UUID) (*types.Response, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Response
	if err := transaction.WithContext(ctx).
		Where("question_id = ? AND student_id = ?", questionID, studentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *responseRepo) ListByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) ([]*types.Response, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Response
	if err := transaction.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteByContentID removes every response to the content's questions. It
// must run before the questions themselves are deleted so the subquery still
// sees them.
func (r *responseRepo) DeleteByContentID(ctx context.Context, tx *gorm.DB, contentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	questionIDs := transaction.Model(&types.Question{}).
		Select("id").
		Where("content_id = ?", contentID)
	return transaction.WithContext(ctx).
		Where("question_id IN (?)", questionIDs).
		Delete(&types.Response{}).Error
}

func (r *responseRepo) ListByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Response, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Response
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
