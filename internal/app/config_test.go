package app

import (
	"testing"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
)

func TestLoadConfigCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGINS", "https://school.example, https://admin.school.example")

	cfg := LoadConfig(logger.NewNop())
	want := []string{"https://school.example", "https://admin.school.example"}
	if len(cfg.CORSAllowOrigins) != len(want) {
		t.Fatalf("got origins %v, want %v", cfg.CORSAllowOrigins, want)
	}
	for i := range want {
		if cfg.CORSAllowOrigins[i] != want[i] {
			t.Fatalf("origin %d = %q, want %q", i, cfg.CORSAllowOrigins[i], want[i])
		}
	}
}

func TestSplitOriginsFallsBackOnBlank(t *testing.T) {
	for _, raw := range []string{"", " , ,"} {
		origins := splitOrigins(raw)
		if len(origins) == 0 {
			t.Fatalf("splitOrigins(%q) returned no origins", raw)
		}
	}
}
