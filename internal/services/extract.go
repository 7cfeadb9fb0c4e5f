package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/errors"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/platform/gcp"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

// ArtifactInput is a raw uploaded file plus the metadata used to classify it.
type ArtifactInput struct {
	FileName string
	MimeType string
	Data     []byte
}

// Extraction is the Extractor's result. Extraction never fails hard: Err
// records the soft failure (wrapped in errors.ErrExtraction) and Text is
// empty, so the caller can fall back to raw text supplied with the upload.
type Extraction struct {
	Text string
	Kind types.MediaKind
	Err  error
}

func (e Extraction) OK() bool { return e.Err == nil }

type ExtractorService interface {
	Extract(ctx context.Context, artifact ArtifactInput) Extraction
}

// extractStrategy converts one media kind's bytes into plain text.
type extractStrategy interface {
	Extract(ctx context.Context, data []byte, mimeType string) (string, error)
}

type extractorService struct {
	log        *logger.Logger
	strategies map[types.MediaKind]extractStrategy
}

func NewExtractorService(baseLog *logger.Logger, vision gcp.Vision) ExtractorService {
	serviceLog := baseLog.With("service", "ExtractorService")
	return &extractorService{
		log: serviceLog,
		strategies: map[types.MediaKind]extractStrategy{
			types.MediaKindImage:     &imageStrategy{vision: vision},
			types.MediaKindPDF:       &pdfStrategy{},
			types.MediaKindDocument:  &documentStrategy{},
			types.MediaKindPlainText: &plainTextStrategy{},
		},
	}
}

func (s *extractorService) Extract(ctx context.Context, artifact ArtifactInput) Extraction {
	kind := ClassifyMediaKind(artifact.FileName, artifact.MimeType)

	if len(artifact.Data) == 0 {
		return Extraction{
			Kind: kind,
			Err:  fmt.Errorf("%w: empty file %q", errors.ErrExtraction, artifact.FileName),
		}
	}

	strategy, ok := s.strategies[kind]
	if !ok {
		strategy = s.strategies[types.MediaKindPlainText]
		kind = types.MediaKindPlainText
	}

	text, err := strategy.Extract(ctx, artifact.Data, artifact.MimeType)
	if err != nil {
		s.log.Warn("Extraction failed, degrading",
			"file_name", artifact.FileName,
			"media_kind", kind,
			"error", err,
		)
		return Extraction{
			Kind: kind,
			Err:  fmt.Errorf("%w: %s: %v", errors.ErrExtraction, kind, err),
		}
	}
	return Extraction{Text: collapseWhitespace(text), Kind: kind}
}

// ClassifyMediaKind buckets a file into one of the four extraction kinds
// from its mime type and extension. Unrecognized inputs fall back to
// plain-text handling.
func ClassifyMediaKind(fileName, mimeType string) types.MediaKind {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	ext := strings.ToLower(filepath.Ext(fileName))

	switch {
	case strings.HasPrefix(mt, "image/"):
		return types.MediaKindImage
	case mt == "application/pdf" || ext == ".pdf":
		return types.MediaKindPDF
	case mt == "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		mt == "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		mt == "application/msword",
		mt == "text/html":
		return types.MediaKindDocument
	}
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff":
		return types.MediaKindImage
	case ".docx", ".pptx", ".doc", ".html", ".htm":
		return types.MediaKindDocument
	}
	return types.MediaKindPlainText
}

// ------------------------
// Strategies
// ------------------------

type imageStrategy struct {
	vision gcp.Vision
}

func (st *imageStrategy) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	if st.vision == nil {
		return "", fmt.Errorf("no OCR backend configured")
	}
	text, err := st.vision.OCRImageBytes(ctx, data, mimeType)
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return text, nil
}

type pdfStrategy struct{}

func (st *pdfStrategy) Extract(_ context.Context, data []byte, _ string) (string, error) {
	if !isPDF(data) {
		return "", fmt.Errorf("missing %%PDF header, head=%s", firstBytesHex(data, 16))
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return string(b), nil
}

// documentStrategy handles DOCX/PPTX (OpenXML zip containers) and HTML.
type documentStrategy struct{}

func (st *documentStrategy) Extract(_ context.Context, data []byte, mimeType string) (string, error) {
	if isZip(data) {
		kind, err := detectOpenXMLKind(data)
		if err != nil {
			return "", fmt.Errorf("openxml detect: %w", err)
		}
		switch kind {
		case "docx":
			return extractOpenXMLText(data, []string{"word/document.xml"})
		case "pptx":
			return extractOpenXMLTextByPrefix(data, "ppt/slides/", ".xml")
		}
		return "", fmt.Errorf("unsupported openxml kind %q", kind)
	}
	if looksLikeHTML(data) || strings.Contains(strings.ToLower(mimeType), "html") {
		return stripHTML(string(data)), nil
	}
	return "", fmt.Errorf("document is neither an openxml container nor html")
}

type plainTextStrategy struct{}

func (st *plainTextStrategy) Extract(_ context.Context, data []byte, _ string) (string, error) {
	if looksLikeHTML(data) {
		return stripHTML(string(data)), nil
	}
	if !isProbablyText(data) {
		return "", fmt.Errorf("binary data, head=%s", firstBytesHex(data, 16))
	}
	return string(data), nil
}

// ------------------------
// Sniff helpers
// ------------------------

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	// ZIP local file header: PK\x03\x04
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func looksLikeHTML(b []byte) bool {
	s := strings.ToLower(string(b[:minInt(len(b), 2048)]))
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		return true
	}
	return strings.Contains(s, "<html") && strings.Contains(s, "</html")
}

func isProbablyText(b []byte) bool {
	sample := b[:minInt(len(b), 4096)]
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	if len(sample) == 0 {
		return false
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func firstBytesHex(b []byte, n int) string {
	n = minInt(len(b), n)
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		out = append(out, hexdigits[b[i]>>4], hexdigits[b[i]&0x0f])
	}
	return string(out)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ------------------------
// OpenXML / HTML extraction
// ------------------------

func detectOpenXMLKind(zipBytes []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", err
	}
	hasWord := false
	hasPpt := false
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			hasWord = true
		}
		if strings.HasPrefix(f.Name, "ppt/") {
			hasPpt = true
		}
	}
	switch {
	case hasWord && !hasPpt:
		return "docx", nil
	case hasPpt && !hasWord:
		return "pptx", nil
	default:
		return "", fmt.Errorf("zip does not look like docx or pptx")
	}
}

func extractOpenXMLText(zipBytes []byte, files []string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, target := range files {
		for _, f := range zr.File {
			if f.Name != target {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return "", err
			}
			b, _ := io.ReadAll(rc)
			_ = rc.Close()
			out.WriteString(textFromXML(b))
			out.WriteString("\n")
		}
	}
	s := collapseWhitespace(out.String())
	if s == "" {
		return "", fmt.Errorf("no text extracted from openxml")
	}
	return s, nil
}

func extractOpenXMLTextByPrefix(zipBytes []byte, prefix, suffix string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, prefix) && strings.HasSuffix(f.Name, suffix) {
			rc, err := f.Open()
			if err != nil {
				return "", err
			}
			b, _ := io.ReadAll(rc)
			_ = rc.Close()
			out.WriteString(textFromXML(b))
			out.WriteString("\n")
		}
	}
	s := collapseWhitespace(out.String())
	if s == "" {
		return "", fmt.Errorf("no text extracted from openxml prefix %s", prefix)
	}
	return s, nil
}

// textFromXML gathers the run-text elements (<w:t> in DOCX, <a:t> in PPTX).
func textFromXML(xmlBytes []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		_ = dec.DecodeElement(&v, &se)
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return out.String()
}

var htmlTagRe = regexp.MustCompile(`(?s)<[^>]*>`)

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return collapseWhitespace(s)
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
