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

type SubjectService interface {
	Create(ctx context.Context, name string, teacherID uuid.UUID) (*types.Subject, error)
	GetByID(ctx context.Context, subjectID uuid.UUID) (*types.Subject, error)
	Delete(ctx context.Context, subjectID uuid.UUID) error
}

type subjectService struct {
	log         *logger.Logger
	subjectRepo repos.SubjectRepo
	contentSvc  ContentService
}

func NewSubjectService(baseLog *logger.Logger, subjectRepo repos.SubjectRepo, contentSvc ContentService) SubjectService {
	return &subjectService{
		log:         baseLog.With("service", "SubjectService"),
		subjectRepo: subjectRepo,
		contentSvc:  contentSvc,
	}
}

func (s *subjectService) Create(ctx context.Context, name string, teacherID uuid.UUID) (*types.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", errors.ErrValidation)
	}
	subject := &types.Subject{Name: name, TeacherID: teacherID}
	created, err := s.subjectRepo.Create(ctx, nil, subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return created, nil
}

func (s *subjectService) GetByID(ctx context.Context, subjectID uuid.UUID) (*types.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, nil, subjectID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: subject %s", errors.ErrNotFound, subjectID)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return subject, nil
}

// Delete removes the subject and everything hanging off it: each content
// unit goes through the content lifecycle delete so questions, responses,
// materials and storage objects are cleaned up with it.
func (s *subjectService) Delete(ctx context.Context, subjectID uuid.UUID) error {
	if _, err := s.GetByID(ctx, subjectID); err != nil {
		return err
	}
	contents, err := s.contentSvc.ListBySubject(ctx, subjectID)
	if err != nil {
		return err
	}
	for _, c := range contents {
		if err := s.contentSvc.Delete(ctx, c.ID); err != nil {
			return err
		}
	}
	if err := s.subjectRepo.DeleteByID(ctx, nil, subjectID); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return nil
}
