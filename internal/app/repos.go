package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/repos"
)

type Repos struct {
	Subject  repos.SubjectRepo
	Content  repos.ContentRepo
	Question repos.QuestionRepo
	Response repos.ResponseRepo
	Material repos.SupplementaryMaterialRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Subject:  repos.NewSubjectRepo(db, log),
		Content:  repos.NewContentRepo(db, log),
		Question: repos.NewQuestionRepo(db, log),
		Response: repos.NewResponseRepo(db, log),
		Material: repos.NewSupplementaryMaterialRepo(db, log),
	}
}
