package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database. The schema is created by
// hand because the production column defaults are postgres-only.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	statements := []string{
		`CREATE TABLE subject (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			teacher_id TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE content (
			id TEXT PRIMARY KEY,
			subject_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			start_date DATETIME,
			end_date DATETIME,
			summary TEXT,
			adapted_summaries TEXT,
			artifact_key TEXT,
			artifact_url TEXT,
			artifact_name TEXT,
			artifact_kind TEXT,
			active INTEGER NOT NULL DEFAULT 1,
			created_by TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE question (
			id TEXT PRIMARY KEY,
			content_id TEXT NOT NULL,
			text TEXT NOT NULL,
			options TEXT NOT NULL,
			correct TEXT NOT NULL,
			points REAL NOT NULL DEFAULT 1,
			position INTEGER NOT NULL,
			source TEXT NOT NULL DEFAULT 'manual',
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE UNIQUE INDEX uq_question_content_position ON question(content_id, position)`,
		`CREATE TABLE response (
			id TEXT PRIMARY KEY,
			question_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			selected TEXT NOT NULL,
			is_correct INTEGER NOT NULL,
			points_earned REAL NOT NULL,
			created_at DATETIME
		)`,
		`CREATE UNIQUE INDEX uq_response_question_student ON response(question_id, student_id)`,
		`CREATE TABLE supplementary_material (
			id TEXT PRIMARY KEY,
			content_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			url TEXT,
			storage_key TEXT,
			target_category TEXT NOT NULL DEFAULT 'all',
			created_by TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

// fakeAI scripts the generative provider.
type fakeAI struct {
	result map[string]any
	err    error
	calls  int
}

func (f *fakeAI) GenerateJSON(_ context.Context, _, _, _ string, _ map[string]any) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeBucket is an in-memory object store with scriptable failures.
type fakeBucket struct {
	objects    map[string][]byte
	failUpload bool
	deletes    []string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (f *fakeBucket) Upload(_ context.Context, key string, file io.Reader, _ string) error {
	if f.failUpload {
		return fmt.Errorf("upload refused")
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBucket) Download(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBucket) Delete(_ context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	delete(f.objects, key)
	return nil
}

func (f *fakeBucket) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

// fakeVision scripts OCR output.
type fakeVision struct {
	text string
	err  error
}

func (f *fakeVision) OCRImageBytes(_ context.Context, _ []byte, _ string) (string, error) {
	return f.text, f.err
}

func (f *fakeVision) Close() error { return nil }

func completeAdaptation() map[string]any {
	return map[string]any{
		"generic":      "A short overview of the lesson.",
		"visual":       "A self-describing version.",
		"auditory":     "A visual-first version.",
		"motor":        "A low-interaction version.",
		"intellectual": "A simplified version.",
	}
}
