package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/errors"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/platform/openai"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

// CandidateQuestion is a validated synthesizer output, not yet persisted.
type CandidateQuestion struct {
	Text    string
	Options []types.QuestionOption
	Correct string
	Points  float64
}

// QuestionSynthesizer generates multiple-choice candidates from lesson text.
// Invalid candidates are dropped silently; a provider failure is hard.
type QuestionSynthesizer interface {
	Synthesize(ctx context.Context, plainText string, sourceKind types.MediaKind) ([]CandidateQuestion, error)
}

type questionSynthesizer struct {
	log     *logger.Logger
	ai      openai.JSONClient
	timeout time.Duration
	schema  *gojsonschema.Schema
}

const synthesisSystemPrompt = `You write multiple-choice questions for school lessons.
From the lesson text, produce between 3 and 8 questions. Each question has:
- "text": the question itself, grounded strictly in the lesson text.
- "options": 2 to 5 answer choices, labeled "A" through "E" in order, exactly one plausible per label.
- "correct": the label of the single correct option.
- "points": a positive number of points, usually 1.
Do not invent facts absent from the lesson text. Answer in the language of the lesson text.`

var synthesisSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{"type": "string"},
					"options": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"label": map[string]any{"type": "string"},
								"text":  map[string]any{"type": "string"},
							},
							"required":             []string{"label", "text"},
							"additionalProperties": false,
						},
					},
					"correct": map[string]any{"type": "string"},
					"points":  map[string]any{"type": "number"},
				},
				"required":             []string{"text", "options", "correct", "points"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"questions"},
	"additionalProperties": false,
}

func NewQuestionSynthesizer(baseLog *logger.Logger, ai openai.JSONClient, timeout time.Duration) (QuestionSynthesizer, error) {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(synthesisSchema))
	if err != nil {
		return nil, fmt.Errorf("compile synthesis schema: %w", err)
	}
	return &questionSynthesizer{
		log:     baseLog.With("service", "QuestionSynthesizer"),
		ai:      ai,
		timeout: timeout,
		schema:  compiled,
	}, nil
}

func (s *questionSynthesizer) Synthesize(ctx context.Context, plainText string, sourceKind types.MediaKind) ([]CandidateQuestion, error) {
	text := strings.TrimSpace(plainText)
	if text == "" {
		return nil, fmt.Errorf("%w: no source text", errors.ErrSynthesis)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user := fmt.Sprintf("Source kind: %s\n\nLesson text:\n%s", sourceKind, text)
	obj, err := s.ai.GenerateJSON(ctx, synthesisSystemPrompt, user, "question_candidates", synthesisSchema)
	if err != nil {
		s.log.Warn("Synthesis provider call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrSynthesis, err)
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrSynthesis, err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrSynthesis, err)
	}
	if generic == nil {
		generic = map[string]any{}
	}
	// A provider answering with a null or absent questions member means the
	// same thing as an empty list: nothing usable was generated.
	if v, ok := generic["questions"]; !ok || v == nil {
		generic["questions"] = []any{}
	}

	result, err := s.schema.Validate(gojsonschema.NewGoLoader(generic))
	if err != nil {
		return nil, fmt.Errorf("%w: payload validation: %v", errors.ErrSynthesis, err)
	}
	if !result.Valid() {
		var problems []string
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, fmt.Errorf("%w: malformed payload: %s", errors.ErrSynthesis, strings.Join(problems, "; "))
	}

	raw, err = json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrSynthesis, err)
	}
	var payload struct {
		Questions []struct {
			Text    string                 `json:"text"`
			Options []types.QuestionOption `json:"options"`
			Correct string                 `json:"correct"`
			Points  float64                `json:"points"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrSynthesis, err)
	}

	candidates := make([]CandidateQuestion, 0, len(payload.Questions))
	for i, q := range payload.Questions {
		c := CandidateQuestion{
			Text:    strings.TrimSpace(q.Text),
			Options: q.Options,
			Correct: strings.ToUpper(strings.TrimSpace(q.Correct)),
			Points:  q.Points,
		}
		if c.Points == 0 {
			c.Points = 1
		}
		if reason := validateCandidate(c); reason != "" {
			s.log.Debug("Dropping invalid question candidate", "index", i, "reason", reason)
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// optionLabels is the full label alphabet, in required order.
var optionLabels = []string{"A", "B", "C", "D", "E"}

// validateCandidate returns an empty string for a well-formed candidate, or
// the reason it must be dropped.
func validateCandidate(c CandidateQuestion) string {
	if c.Text == "" {
		return "empty question text"
	}
	if len(c.Options) < 2 || len(c.Options) > 5 {
		return fmt.Sprintf("option count %d out of range", len(c.Options))
	}
	if c.Points <= 0 {
		return "non-positive points"
	}
	correctFound := false
	for i, o := range c.Options {
		if o.Label != optionLabels[i] {
			return fmt.Sprintf("option %d labeled %q, want %q", i, o.Label, optionLabels[i])
		}
		if strings.TrimSpace(o.Text) == "" {
			return fmt.Sprintf("option %s has empty text", o.Label)
		}
		if o.Label == c.Correct {
			correctFound = true
		}
	}
	if !correctFound {
		return fmt.Sprintf("correct label %q not among options", c.Correct)
	}
	return ""
}
