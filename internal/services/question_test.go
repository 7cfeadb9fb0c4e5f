package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/errors"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/repos"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

type questionFixture struct {
	db      *gorm.DB
	bucket  *fakeBucket
	ai      *fakeAI
	svc     QuestionService
	content *types.Content
}

func newQuestionFixture(t *testing.T) *questionFixture {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()

	subjectRepo := repos.NewSubjectRepo(db, log)
	contentRepo := repos.NewContentRepo(db, log)
	questionRepo := repos.NewQuestionRepo(db, log)
	bucket := newFakeBucket()
	ai := &fakeAI{result: candidatePayload(validQuestion())}

	extractor := NewExtractorService(log, &fakeVision{})
	synthesizer, err := NewQuestionSynthesizer(log, ai, 0)
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}
	svc := NewQuestionService(log, db, questionRepo, contentRepo, bucket, extractor, synthesizer)

	ctx := context.Background()
	subject, err := subjectRepo.Create(ctx, nil, &types.Subject{Name: "Biology", TeacherID: uuid.New()})
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	content, err := contentRepo.Create(ctx, nil, &types.Content{
		SubjectID: subject.ID,
		Title:     "The Water Cycle",
		Summary:   "Water evaporates, condenses and precipitates.",
	})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}
	return &questionFixture{db: db, bucket: bucket, ai: ai, svc: svc, content: content}
}

func manualQuestionInput(contentID uuid.UUID) CreateQuestionInput {
	return CreateQuestionInput{
		ContentID: contentID,
		Text:      "What drives evaporation?",
		Options: []types.QuestionOption{
			{Label: "A", Text: "Heat from the sun"},
			{Label: "B", Text: "Wind only"},
		},
		Correct: "A",
	}
}

func TestQuestionCreateManual(t *testing.T) {
	f := newQuestionFixture(t)

	q, err := f.svc.Create(context.Background(), manualQuestionInput(f.content.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if q.Position != 1 {
		t.Fatalf("position = %d, want 1", q.Position)
	}
	if q.Points != 1 {
		t.Fatalf("points = %v, want default 1", q.Points)
	}
	if q.Source != types.QuestionSourceManual {
		t.Fatalf("source = %q, want manual", q.Source)
	}
}

func TestQuestionPositionsAutoIncrement(t *testing.T) {
	f := newQuestionFixture(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		q, err := f.svc.Create(ctx, manualQuestionInput(f.content.ID))
		if err != nil {
			t.Fatalf("create %d: %v", want, err)
		}
		if q.Position != want {
			t.Fatalf("position = %d, want %d", q.Position, want)
		}
	}
}

func TestQuestionCreateManualValidation(t *testing.T) {
	f := newQuestionFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateQuestionInput)
	}{
		{"empty text", func(in *CreateQuestionInput) { in.Text = " " }},
		{"single option", func(in *CreateQuestionInput) { in.Options = in.Options[:1] }},
		{"correct not an option", func(in *CreateQuestionInput) { in.Correct = "E" }},
		{"negative points", func(in *CreateQuestionInput) { in.Points = -2 }},
		{"labels out of order", func(in *CreateQuestionInput) {
			in.Options = []types.QuestionOption{
				{Label: "B", Text: "First"},
				{Label: "A", Text: "Second"},
			}
		}},
	}
	for _, tt := range tests {
		input := manualQuestionInput(f.content.ID)
		tt.mutate(&input)
		if _, err := f.svc.Create(ctx, input); !stderrors.Is(err, errors.ErrValidation) {
			t.Fatalf("%s: error %v, want ErrValidation", tt.name, err)
		}
	}
}

func TestQuestionCreateDuplicatePosition(t *testing.T) {
	f := newQuestionFixture(t)
	ctx := context.Background()

	input := manualQuestionInput(f.content.ID)
	input.Position = 5
	if _, err := f.svc.Create(ctx, input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.svc.Create(ctx, input); !stderrors.Is(err, errors.ErrValidation) {
		t.Fatalf("duplicate position: error %v, want ErrValidation", err)
	}
}

func TestQuestionCreateFromArtifact(t *testing.T) {
	f := newQuestionFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, manualQuestionInput(f.content.ID)); err != nil {
		t.Fatalf("seed manual question: %v", err)
	}

	questions, err := f.svc.CreateFromArtifact(ctx, f.content.ID, ArtifactInput{
		FileName: "lesson.txt",
		MimeType: "text/plain",
		Data:     []byte("Water evaporates when heated by the sun."),
	})
	if err != nil {
		t.Fatalf("create from artifact: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if questions[0].Position != 2 {
		t.Fatalf("generated question position = %d, want 2", questions[0].Position)
	}
	if questions[0].Source != types.QuestionSourceGenerated {
		t.Fatalf("source = %q, want generated", questions[0].Source)
	}
	if len(f.bucket.objects) != 0 {
		t.Fatalf("staging object not cleaned up: %v", f.bucket.objects)
	}
}

func TestQuestionCreateFromArtifactUnusableText(t *testing.T) {
	f := newQuestionFixture(t)

	_, err := f.svc.CreateFromArtifact(context.Background(), f.content.ID, ArtifactInput{
		FileName: "broken.pdf",
		MimeType: "application/pdf",
		Data:     []byte("not a pdf"),
	})
	if !stderrors.Is(err, errors.ErrSynthesis) {
		t.Fatalf("error %v, want ErrSynthesis", err)
	}
	if len(f.bucket.objects) != 0 {
		t.Fatalf("staging object not cleaned up on failure: %v", f.bucket.objects)
	}
}

func TestQuestionCreateFromArtifactProviderFailure(t *testing.T) {
	f := newQuestionFixture(t)
	f.ai.err = fmt.Errorf("provider down")

	_, err := f.svc.CreateFromArtifact(context.Background(), f.content.ID, ArtifactInput{
		FileName: "lesson.txt",
		MimeType: "text/plain",
		Data:     []byte("Water evaporates when heated by the sun."),
	})
	if !stderrors.Is(err, errors.ErrSynthesis) {
		t.Fatalf("error %v, want ErrSynthesis", err)
	}
	var count int64
	f.db.Model(&types.Question{}).Count(&count)
	if count != 0 {
		t.Fatalf("%d questions persisted after hard failure, want none", count)
	}
}

func TestQuestionListByContentOrder(t *testing.T) {
	f := newQuestionFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Create(ctx, manualQuestionInput(f.content.ID)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	questions, err := f.svc.ListByContent(ctx, f.content.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, q := range questions {
		if q.Position != i+1 {
			t.Fatalf("question %d has position %d", i, q.Position)
		}
	}
}

func TestQuestionCreateUnknownContent(t *testing.T) {
	f := newQuestionFixture(t)

	if _, err := f.svc.Create(context.Background(), manualQuestionInput(uuid.New())); !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("error %v, want ErrNotFound", err)
	}
}
