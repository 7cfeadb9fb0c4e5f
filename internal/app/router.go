package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:             log,
		AllowOrigins:    cfg.CORSAllowOrigins,
		AuthMiddleware:  middlewareset.Auth,
		SubjectHandler:  handlerset.Subject,
		ContentHandler:  handlerset.Content,
		QuestionHandler: handlerset.Question,
		ResponseHandler: handlerset.Response,
		MaterialHandler: handlerset.Material,
	})
}
