package app

import (
	"strings"
	"time"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/envutil"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
)

const defaultCORSOrigins = "http://localhost:80,http://localhost:3000,http://localhost:5174"

type Config struct {
	JWTSecretKey      string
	CORSAllowOrigins  []string
	AdaptationTimeout time.Duration
	SynthesisTimeout  time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	corsOrigins := envutil.GetEnv("CORS_ALLOW_ORIGINS", defaultCORSOrigins, log)
	adaptationTimeoutSeconds := envutil.GetEnvAsInt("ADAPTATION_TIMEOUT_SECONDS", 90, log)
	synthesisTimeoutSeconds := envutil.GetEnvAsInt("SYNTHESIS_TIMEOUT_SECONDS", 90, log)
	return Config{
		JWTSecretKey:      jwtSecretKey,
		CORSAllowOrigins:  splitOrigins(corsOrigins),
		AdaptationTimeout: time.Duration(adaptationTimeoutSeconds) * time.Second,
		SynthesisTimeout:  time.Duration(synthesisTimeoutSeconds) * time.Second,
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			origins = append(origins, part)
		}
	}
	if len(origins) == 0 {
		return splitOrigins(defaultCORSOrigins)
	}
	return origins
}
