package services

import (
	"archive/zip"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/errors"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

func TestClassifyMediaKind(t *testing.T) {
	tests := []struct {
		fileName string
		mimeType string
		want     types.MediaKind
	}{
		{"scan.png", "image/png", types.MediaKindImage},
		{"photo.jpeg", "", types.MediaKindImage},
		{"lesson.pdf", "application/pdf", types.MediaKindPDF},
		{"lesson.pdf", "", types.MediaKindPDF},
		{"notes.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", types.MediaKindDocument},
		{"slides.pptx", "", types.MediaKindDocument},
		{"page.html", "text/html; charset=utf-8", types.MediaKindDocument},
		{"notes.txt", "text/plain", types.MediaKindPlainText},
		{"mystery.bin", "application/octet-stream", types.MediaKindPlainText},
	}
	for _, tt := range tests {
		if got := ClassifyMediaKind(tt.fileName, tt.mimeType); got != tt.want {
			t.Fatalf("ClassifyMediaKind(%q, %q) = %q, want %q", tt.fileName, tt.mimeType, got, tt.want)
		}
	}
}

func TestExtractPlainText(t *testing.T) {
	svc := NewExtractorService(logger.NewNop(), &fakeVision{})

	result := svc.Extract(context.Background(), ArtifactInput{
		FileName: "notes.txt",
		MimeType: "text/plain",
		Data:     []byte("Photosynthesis turns   light\ninto chemical energy."),
	})
	if !result.OK() {
		t.Fatalf("unexpected extraction error: %v", result.Err)
	}
	if result.Kind != types.MediaKindPlainText {
		t.Fatalf("kind = %q, want plain_text", result.Kind)
	}
	if result.Text != "Photosynthesis turns light into chemical energy." {
		t.Fatalf("unexpected text %q", result.Text)
	}
}

func TestExtractImageUsesOCR(t *testing.T) {
	svc := NewExtractorService(logger.NewNop(), &fakeVision{text: "text seen in the image"})

	result := svc.Extract(context.Background(), ArtifactInput{
		FileName: "board.png",
		MimeType: "image/png",
		Data:     []byte{0x89, 0x50, 0x4E, 0x47},
	})
	if !result.OK() {
		t.Fatalf("unexpected extraction error: %v", result.Err)
	}
	if result.Text != "text seen in the image" {
		t.Fatalf("unexpected text %q", result.Text)
	}
}

func TestExtractSoftFailure(t *testing.T) {
	svc := NewExtractorService(logger.NewNop(), &fakeVision{err: fmt.Errorf("ocr backend down")})

	tests := []struct {
		name     string
		artifact ArtifactInput
	}{
		{"empty file", ArtifactInput{FileName: "empty.txt"}},
		{"bad pdf", ArtifactInput{FileName: "broken.pdf", MimeType: "application/pdf", Data: []byte("not a pdf at all")}},
		{"binary as text", ArtifactInput{FileName: "blob.txt", Data: bytes.Repeat([]byte{0x00, 0x01}, 100)}},
		{"ocr failure", ArtifactInput{FileName: "scan.png", MimeType: "image/png", Data: []byte{0xFF, 0xD8}}},
	}
	for _, tt := range tests {
		result := svc.Extract(context.Background(), tt.artifact)
		if result.OK() {
			t.Fatalf("%s: expected soft failure, got text %q", tt.name, result.Text)
		}
		if !stderrors.Is(result.Err, errors.ErrExtraction) {
			t.Fatalf("%s: error %v does not wrap ErrExtraction", tt.name, result.Err)
		}
		if result.Text != "" {
			t.Fatalf("%s: degraded extraction must carry no text", tt.name)
		}
	}
}

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	fmt.Fprint(w, `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		fmt.Fprintf(w, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, p)
	}
	fmt.Fprint(w, `</w:body></w:document>`)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractDocx(t *testing.T) {
	svc := NewExtractorService(logger.NewNop(), &fakeVision{})

	result := svc.Extract(context.Background(), ArtifactInput{
		FileName: "lesson.docx",
		MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Data:     buildDocx(t, "The water cycle", "has three stages."),
	})
	if !result.OK() {
		t.Fatalf("unexpected extraction error: %v", result.Err)
	}
	if result.Kind != types.MediaKindDocument {
		t.Fatalf("kind = %q, want document", result.Kind)
	}
	if result.Text != "The water cycle has three stages." {
		t.Fatalf("unexpected text %q", result.Text)
	}
}

func TestExtractHTML(t *testing.T) {
	svc := NewExtractorService(logger.NewNop(), &fakeVision{})

	result := svc.Extract(context.Background(), ArtifactInput{
		FileName: "page.html",
		MimeType: "text/html",
		Data:     []byte(`<html><body><h1>Fractions</h1><p>A half is&nbsp;1/2.</p></body></html>`),
	})
	if !result.OK() {
		t.Fatalf("unexpected extraction error: %v", result.Err)
	}
	if result.Text != "Fractions A half is 1/2." {
		t.Fatalf("unexpected text %q", result.Text)
	}
}
