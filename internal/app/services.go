package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/services"
)

type Services struct {
	Extractor   services.ExtractorService
	Adaptation  services.AdaptationService
	Synthesizer services.QuestionSynthesizer

	Subject  services.SubjectService
	Content  services.ContentService
	Question services.QuestionService
	Response services.ResponseService
	Material services.MaterialService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	extractor := services.NewExtractorService(log, clients.Vision)
	adaptation := services.NewAdaptationService(log, clients.AI, cfg.AdaptationTimeout)
	synthesizer, err := services.NewQuestionSynthesizer(log, clients.AI, cfg.SynthesisTimeout)
	if err != nil {
		return Services{}, fmt.Errorf("init question synthesizer: %w", err)
	}

	content := services.NewContentService(
		log, db, reposet.Content, reposet.Subject, reposet.Question, reposet.Response,
		reposet.Material, clients.Bucket, extractor, adaptation,
	)

	return Services{
		Extractor:   extractor,
		Adaptation:  adaptation,
		Synthesizer: synthesizer,

		Subject: services.NewSubjectService(log, reposet.Subject, content),
		Content: content,
		Question: services.NewQuestionService(
			log, db, reposet.Question, reposet.Content, clients.Bucket, extractor, synthesizer,
		),
		Response: services.NewResponseService(log, reposet.Response, reposet.Question),
		Material: services.NewMaterialService(log, reposet.Material, reposet.Content, clients.Bucket),
	}, nil
}
