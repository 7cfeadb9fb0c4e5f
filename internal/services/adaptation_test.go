package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/errors"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
)

func TestAdaptCompleteBundle(t *testing.T) {
	ai := &fakeAI{result: completeAdaptation()}
	svc := NewAdaptationService(logger.NewNop(), ai, 0)

	set, err := svc.Adapt(context.Background(), "Photosynthesis converts light into chemical energy stored in glucose.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.Complete() {
		t.Fatalf("expected a complete bundle, got %+v", set)
	}
	if set.Visual != "A self-describing version." {
		t.Fatalf("unexpected visual variant %q", set.Visual)
	}
}

func TestAdaptValidityGate(t *testing.T) {
	ai := &fakeAI{result: completeAdaptation()}
	svc := NewAdaptationService(logger.NewNop(), ai, 0)

	for _, input := range []string{"", "   ", "short"} {
		_, err := svc.Adapt(context.Background(), input)
		if !stderrors.Is(err, errors.ErrNoAdaptationInput) {
			t.Fatalf("Adapt(%q): error %v, want ErrNoAdaptationInput", input, err)
		}
	}
	if ai.calls != 0 {
		t.Fatalf("provider was invoked %d times for gated input", ai.calls)
	}
}

func TestAdaptIncompleteBundleRejected(t *testing.T) {
	result := completeAdaptation()
	result["motor"] = "   "
	svc := NewAdaptationService(logger.NewNop(), &fakeAI{result: result}, 0)

	_, err := svc.Adapt(context.Background(), "A sufficiently long lesson text about the water cycle.")
	if !stderrors.Is(err, errors.ErrAdaptation) {
		t.Fatalf("error %v, want ErrAdaptation", err)
	}
}

func TestAdaptProviderFailure(t *testing.T) {
	svc := NewAdaptationService(logger.NewNop(), &fakeAI{err: fmt.Errorf("provider timeout")}, 0)

	_, err := svc.Adapt(context.Background(), "A sufficiently long lesson text about the water cycle.")
	if !stderrors.Is(err, errors.ErrAdaptation) {
		t.Fatalf("error %v, want ErrAdaptation", err)
	}
}
