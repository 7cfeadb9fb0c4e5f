package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/errors"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/repos"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

type ResponseService interface {
	Submit(ctx context.Context, questionID, studentID uuid.UUID, selected string) (*types.Response, error)
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*types.Response, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.Response, error)
}

type responseService struct {
	log          *logger.Logger
	responseRepo repos.ResponseRepo
	questionRepo repos.QuestionRepo
}

func NewResponseService(baseLog *logger.Logger, responseRepo repos.ResponseRepo, questionRepo repos.QuestionRepo) ResponseService {
	return &responseService{
		log:          baseLog.With("service", "ResponseService"),
		responseRepo: responseRepo,
		questionRepo: questionRepo,
	}
}

// Submit records a learner's answer, grades it against the question and
// refuses any second attempt. Responses are immutable once written.
func (s *responseService) Submit(ctx context.Context, questionID, studentID uuid.UUID, selected string) (*types.Response, error) {
	question, err := s.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %s", errors.ErrNotFound, questionID)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	selected = strings.ToUpper(strings.TrimSpace(selected))
	if !question.HasOptionLabel(selected) {
		return nil, fmt.Errorf("%w: %q is not an option of question %s", errors.ErrValidation, selected, questionID)
	}

	if existing, err := s.responseRepo.GetByQuestionAndStudent(ctx, nil, questionID, studentID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: question %s already answered", errors.ErrValidation, questionID)
	} else if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	response := &types.Response{
		QuestionID: questionID,
		StudentID:  studentID,
		Selected:   selected,
		IsCorrect:  selected == question.Correct,
	}
	if response.IsCorrect {
		response.PointsEarned = question.Points
	}

	created, err := s.responseRepo.Create(ctx, nil, response)
	if err != nil {
		// A concurrent submit can slip past the existence check; the unique
		// index is the authority.
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: question %s already answered", errors.ErrValidation, questionID)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return created, nil
}

func (s *responseService) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*types.Response, error) {
	responses, err := s.responseRepo.ListByQuestionID(ctx, nil, questionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return responses, nil
}

func (s *responseService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.Response, error) {
	responses, err := s.responseRepo.ListByStudentID(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return responses, nil
}
