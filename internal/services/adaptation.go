package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/errors"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/platform/openai"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

// minAdaptationInputLen is the validity gate for adaptation input: anything
// shorter is considered degenerate and the provider is not invoked.
const minAdaptationInputLen = 12

// AdaptationService turns plain lesson text into a generic summary plus one
// variant per accessibility category. The bundle is atomic: callers get all
// five members or an error, never a partial set.
type AdaptationService interface {
	Adapt(ctx context.Context, plainText string) (*types.AdaptedSummarySet, error)
}

type adaptationService struct {
	log     *logger.Logger
	ai      openai.JSONClient
	timeout time.Duration
}

func NewAdaptationService(baseLog *logger.Logger, ai openai.JSONClient, timeout time.Duration) AdaptationService {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &adaptationService{
		log:     baseLog.With("service", "AdaptationService"),
		ai:      ai,
		timeout: timeout,
	}
}

// ValidAdaptationInput reports whether text passes the validity gate.
func ValidAdaptationInput(text string) bool {
	return len(strings.TrimSpace(text)) >= minAdaptationInputLen
}

const adaptationSystemPrompt = `You rewrite school lesson text for accessibility.
Given the lesson text, produce:
- "generic": a concise plain-language summary of the lesson.
- "visual": a version for blind and low-vision learners: fully self-describing prose, no reliance on figures, spatial references or color.
- "auditory": a version for deaf and hard-of-hearing learners: visual-first phrasing, no references to listening, spoken instructions or sound.
- "motor": a version for learners with limited mobility: short paragraphs and steps that require no physical manipulation.
- "intellectual": a version for learners with intellectual disabilities: short sentences, everyday words, one idea per sentence, concrete examples.
Every field must be non-empty. Answer in the language of the lesson text.`

var adaptationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"generic":      map[string]any{"type": "string"},
		"visual":       map[string]any{"type": "string"},
		"auditory":     map[string]any{"type": "string"},
		"motor":        map[string]any{"type": "string"},
		"intellectual": map[string]any{"type": "string"},
	},
	"required":             []string{"generic", "visual", "auditory", "motor", "intellectual"},
	"additionalProperties": false,
}

func (s *adaptationService) Adapt(ctx context.Context, plainText string) (*types.AdaptedSummarySet, error) {
	if !ValidAdaptationInput(plainText) {
		return nil, errors.ErrNoAdaptationInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	obj, err := s.ai.GenerateJSON(ctx, adaptationSystemPrompt, plainText, "adapted_summaries", adaptationSchema)
	if err != nil {
		s.log.Warn("Adaptation provider call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrAdaptation, err)
	}

	set := types.AdaptedSummarySet{
		Generic:      stringField(obj, "generic"),
		Visual:       stringField(obj, "visual"),
		Auditory:     stringField(obj, "auditory"),
		Motor:        stringField(obj, "motor"),
		Intellectual: stringField(obj, "intellectual"),
	}
	if !set.Complete() {
		s.log.Warn("Adaptation returned an incomplete bundle, discarding")
		return nil, fmt.Errorf("%w: provider returned incomplete variant set", errors.ErrAdaptation)
	}
	return &set, nil
}

func stringField(obj map[string]any, key string) string {
	v, _ := obj[key].(string)
	return strings.TrimSpace(v)
}
