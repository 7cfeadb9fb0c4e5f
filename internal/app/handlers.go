package app

import (
	"github.com/yungbote/schoolbridge-backend/internal/http/handlers"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
)

type Handlers struct {
	Subject  *handlers.SubjectHandler
	Content  *handlers.ContentHandler
	Question *handlers.QuestionHandler
	Response *handlers.ResponseHandler
	Material *handlers.MaterialHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Subject:  handlers.NewSubjectHandler(log, serviceset.Subject),
		Content:  handlers.NewContentHandler(log, serviceset.Content),
		Question: handlers.NewQuestionHandler(log, serviceset.Question),
		Response: handlers.NewResponseHandler(log, serviceset.Response),
		Material: handlers.NewMaterialHandler(log, serviceset.Material),
	}
}
