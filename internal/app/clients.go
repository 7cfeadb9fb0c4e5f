package app

import (
	"fmt"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/platform/gcp"
	"github.com/yungbote/schoolbridge-backend/internal/platform/gcs"
	"github.com/yungbote/schoolbridge-backend/internal/platform/openai"
)

type Clients struct {
	Bucket gcs.BucketService
	Vision gcp.Vision
	AI     openai.JSONClient
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring platform clients...")

	bucket, err := gcs.NewBucketService(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init bucket service: %w", err)
	}
	vision, err := gcp.NewVision(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init vision client: %w", err)
	}
	ai, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	return Clients{
		Bucket: bucket,
		Vision: vision,
		AI:     ai,
	}, nil
}
