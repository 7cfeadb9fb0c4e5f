package openai

import (
	"testing"
	"time"
)

func TestIsRetryableHTTP(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{408, true},
		{429, true},
		{500, true},
		{503, true},
		{599, true},
		{200, false},
		{400, false},
		{401, false},
		{404, false},
	}
	for _, tt := range tests {
		if got := isRetryableHTTP(tt.code); got != tt.want {
			t.Fatalf("isRetryableHTTP(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestJitterSleepBounds(t *testing.T) {
	base := 5 * time.Second
	for i := 0; i < 100; i++ {
		got := jitterSleep(base)
		if got < 4*time.Second || got > 6*time.Second {
			t.Fatalf("jitterSleep(%v) = %v, outside +/- 20%%", base, got)
		}
	}
	if got := jitterSleep(0); got != 0 {
		t.Fatalf("jitterSleep(0) = %v, want 0", got)
	}
}
