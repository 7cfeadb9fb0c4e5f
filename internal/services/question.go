package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/errors"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/platform/gcs"
	"github.com/yungbote/schoolbridge-backend/internal/repos"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

// CreateQuestionInput is a manually authored question. Position zero means
// "append after the current maximum".
type CreateQuestionInput struct {
	ContentID uuid.UUID
	Text      string
	Options   []types.QuestionOption
	Correct   string
	Points    float64
	Position  int
}

type QuestionService interface {
	Create(ctx context.Context, input CreateQuestionInput) (*types.Question, error)
	CreateFromArtifact(ctx context.Context, contentID uuid.UUID, artifact ArtifactInput) ([]*types.Question, error)
	GetByID(ctx context.Context, questionID uuid.UUID) (*types.Question, error)
	ListByContent(ctx context.Context, contentID uuid.UUID) ([]*types.Question, error)
}

type questionService struct {
	log          *logger.Logger
	db           *gorm.DB
	questionRepo repos.QuestionRepo
	contentRepo  repos.ContentRepo
	bucket       gcs.BucketService
	extractor    ExtractorService
	synthesizer  QuestionSynthesizer
}

func NewQuestionService(
	baseLog *logger.Logger,
	db *gorm.DB,
	questionRepo repos.QuestionRepo,
	contentRepo repos.ContentRepo,
	bucket gcs.BucketService,
	extractor ExtractorService,
	synthesizer QuestionSynthesizer,
) QuestionService {
	return &questionService{
		log:          baseLog.With("service", "QuestionService"),
		db:           db,
		questionRepo: questionRepo,
		contentRepo:  contentRepo,
		bucket:       bucket,
		extractor:    extractor,
		synthesizer:  synthesizer,
	}
}

func (s *questionService) Create(ctx context.Context, input CreateQuestionInput) (*types.Question, error) {
	if _, err := s.contentRepo.GetByID(ctx, nil, input.ContentID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: content %s", errors.ErrNotFound, input.ContentID)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	points := input.Points
	if points == 0 {
		points = 1
	}
	candidate := CandidateQuestion{
		Text:    strings.TrimSpace(input.Text),
		Options: input.Options,
		Correct: strings.ToUpper(strings.TrimSpace(input.Correct)),
		Points:  points,
	}
	// Manual authoring fails hard where the synthesizer would drop silently.
	if reason := validateCandidate(candidate); reason != "" {
		return nil, fmt.Errorf("%w: %s", errors.ErrValidation, reason)
	}

	var created *types.Question
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		position := input.Position
		if position <= 0 {
			max, err := s.questionRepo.MaxPosition(ctx, tx, input.ContentID)
			if err != nil {
				return err
			}
			position = max + 1
		}
		q, err := buildQuestion(input.ContentID, candidate, position, types.QuestionSourceManual)
		if err != nil {
			return err
		}
		persisted, err := s.questionRepo.Create(ctx, tx, []*types.Question{q})
		if err != nil {
			return err
		}
		created = persisted[0]
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: position %d already taken for content %s", errors.ErrValidation, input.Position, input.ContentID)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return created, nil
}

// CreateFromArtifact extracts text from an uploaded file, synthesizes
// candidates and persists the survivors in one batch. The file is staged in
// the bucket only for the duration of the call.
func (s *questionService) CreateFromArtifact(ctx context.Context, contentID uuid.UUID, artifact ArtifactInput) ([]*types.Question, error) {
	if _, err := s.contentRepo.GetByID(ctx, nil, contentID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: content %s", errors.ErrNotFound, contentID)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	stagingKey := fmt.Sprintf("staging/questions/%s/%s", contentID, uuid.New())
	if err := s.bucket.Upload(ctx, stagingKey, bytes.NewReader(artifact.Data), artifact.MimeType); err != nil {
		return nil, fmt.Errorf("%w: staging upload: %v", errors.ErrPersistence, err)
	}
	defer func() {
		if delErr := s.bucket.Delete(ctx, stagingKey); delErr != nil {
			s.log.Warn("Failed to remove staged question artifact",
				"staging_key", stagingKey,
				"error", delErr,
			)
		}
	}()

	extraction := s.extractor.Extract(ctx, artifact)
	if !extraction.OK() || strings.TrimSpace(extraction.Text) == "" {
		return nil, fmt.Errorf("%w: no usable text in artifact %q: %v", errors.ErrSynthesis, artifact.FileName, extraction.Err)
	}

	candidates, err := s.synthesizer.Synthesize(ctx, extraction.Text, extraction.Kind)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		s.log.Info("Synthesis produced no valid candidates", "content_id", contentID)
		return []*types.Question{}, nil
	}

	var created []*types.Question
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		max, err := s.questionRepo.MaxPosition(ctx, tx, contentID)
		if err != nil {
			return err
		}
		questions := make([]*types.Question, 0, len(candidates))
		for i, c := range candidates {
			q, err := buildQuestion(contentID, c, max+i+1, types.QuestionSourceGenerated)
			if err != nil {
				return err
			}
			questions = append(questions, q)
		}
		created, err = s.questionRepo.Create(ctx, tx, questions)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return created, nil
}

func (s *questionService) GetByID(ctx context.Context, questionID uuid.UUID) (*types.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %s", errors.ErrNotFound, questionID)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return q, nil
}

func (s *questionService) ListByContent(ctx context.Context, contentID uuid.UUID) ([]*types.Question, error) {
	questions, err := s.questionRepo.ListByContentID(ctx, nil, contentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return questions, nil
}

func buildQuestion(contentID uuid.UUID, c CandidateQuestion, position int, source types.QuestionSource) (*types.Question, error) {
	q := &types.Question{
		ContentID: contentID,
		Text:      c.Text,
		Correct:   c.Correct,
		Points:    c.Points,
		Position:  position,
		Source:    source,
	}
	if err := q.SetOptionList(c.Options); err != nil {
		return nil, err
	}
	return q, nil
}

// isUniqueViolation matches unique-index failures across postgres and the
// sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
