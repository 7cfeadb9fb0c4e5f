package services

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/errors"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/repos"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

type responseFixture struct {
	db       *gorm.DB
	svc      ResponseService
	question *types.Question
}

func newResponseFixture(t *testing.T) *responseFixture {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()

	subjectRepo := repos.NewSubjectRepo(db, log)
	contentRepo := repos.NewContentRepo(db, log)
	questionRepo := repos.NewQuestionRepo(db, log)
	responseRepo := repos.NewResponseRepo(db, log)
	svc := NewResponseService(log, responseRepo, questionRepo)

	ctx := context.Background()
	subject, err := subjectRepo.Create(ctx, nil, &types.Subject{Name: "Biology", TeacherID: uuid.New()})
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	content, err := contentRepo.Create(ctx, nil, &types.Content{SubjectID: subject.ID, Title: "The Water Cycle"})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}
	question := &types.Question{
		ContentID: content.ID,
		Text:      "What drives evaporation?",
		Correct:   "A",
		Points:    3,
		Position:  1,
		Source:    types.QuestionSourceManual,
	}
	if err := question.SetOptionList([]types.QuestionOption{
		{Label: "A", Text: "Heat from the sun"},
		{Label: "B", Text: "Wind only"},
	}); err != nil {
		t.Fatalf("set options: %v", err)
	}
	persisted, err := questionRepo.Create(ctx, nil, []*types.Question{question})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return &responseFixture{db: db, svc: svc, question: persisted[0]}
}

func TestResponseSubmitCorrect(t *testing.T) {
	f := newResponseFixture(t)

	resp, err := f.svc.Submit(context.Background(), f.question.ID, uuid.New(), "a")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !resp.IsCorrect {
		t.Fatal("expected a correct response")
	}
	if resp.PointsEarned != 3 {
		t.Fatalf("points earned = %v, want 3", resp.PointsEarned)
	}
	if resp.Selected != "A" {
		t.Fatalf("selected = %q, want normalized A", resp.Selected)
	}
}

func TestResponseSubmitIncorrect(t *testing.T) {
	f := newResponseFixture(t)

	resp, err := f.svc.Submit(context.Background(), f.question.ID, uuid.New(), "B")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.IsCorrect {
		t.Fatal("expected an incorrect response")
	}
	if resp.PointsEarned != 0 {
		t.Fatalf("points earned = %v, want 0", resp.PointsEarned)
	}
}

func TestResponseFirstAnswerIsFinal(t *testing.T) {
	f := newResponseFixture(t)
	ctx := context.Background()
	student := uuid.New()

	if _, err := f.svc.Submit(ctx, f.question.ID, student, "B"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := f.svc.Submit(ctx, f.question.ID, student, "A"); !stderrors.Is(err, errors.ErrValidation) {
		t.Fatalf("second submit: error %v, want ErrValidation", err)
	}

	responses, err := f.svc.ListByStudent(ctx, student)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(responses) != 1 || responses[0].Selected != "B" {
		t.Fatalf("stored responses %+v, want the original answer only", responses)
	}
}

func TestResponseSubmitUnknownOption(t *testing.T) {
	f := newResponseFixture(t)

	if _, err := f.svc.Submit(context.Background(), f.question.ID, uuid.New(), "Z"); !stderrors.Is(err, errors.ErrValidation) {
		t.Fatalf("error %v, want ErrValidation", err)
	}
}

func TestResponseSubmitUnknownQuestion(t *testing.T) {
	f := newResponseFixture(t)

	if _, err := f.svc.Submit(context.Background(), uuid.New(), uuid.New(), "A"); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("error %v, want ErrNotFound", err)
	}
}

func TestResponseListByQuestion(t *testing.T) {
	f := newResponseFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Submit(ctx, f.question.ID, uuid.New(), "A"); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	responses, err := f.svc.ListByQuestion(ctx, f.question.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(responses) != 3 {
		t.Fatalf("got %d responses, want 3", len(responses))
	}
}
