package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/schoolbridge-backend/internal/http/handlers"
	"github.com/yungbote/schoolbridge-backend/internal/http/middleware"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log             *logger.Logger
	AllowOrigins    []string
	AuthMiddleware  *middleware.AuthMiddleware
	SubjectHandler  *handlers.SubjectHandler
	ContentHandler  *handlers.ContentHandler
	QuestionHandler *handlers.QuestionHandler
	ResponseHandler *handlers.ResponseHandler
	MaterialHandler *handlers.MaterialHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Accessibility-Category"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// Subjects
		api.POST("/subjects", cfg.SubjectHandler.Create)
		api.GET("/subjects/:id", cfg.SubjectHandler.Get)
		api.DELETE("/subjects/:id", cfg.SubjectHandler.Delete)
		api.GET("/subjects/:id/contents", cfg.ContentHandler.ListBySubject)

		// Contents
		api.POST("/contents", cfg.ContentHandler.Create)
		api.GET("/contents/:id", cfg.ContentHandler.Get)
		api.PUT("/contents/:id", cfg.ContentHandler.Update)
		api.DELETE("/contents/:id", cfg.ContentHandler.Delete)

		// Questions
		api.POST("/contents/:id/questions", cfg.QuestionHandler.Create)
		api.POST("/contents/:id/questions/from-artifact", cfg.QuestionHandler.CreateFromArtifact)
		api.GET("/contents/:id/questions", cfg.QuestionHandler.ListByContent)

		// Responses
		api.POST("/questions/:id/responses", cfg.ResponseHandler.Submit)
		api.GET("/questions/:id/responses", cfg.ResponseHandler.ListByQuestion)
		api.GET("/responses", cfg.ResponseHandler.ListMine)

		// Supplementary materials
		api.POST("/contents/:id/materials", cfg.MaterialHandler.Create)
		api.GET("/contents/:id/materials", cfg.MaterialHandler.ListByContent)
		api.DELETE("/materials/:id", cfg.MaterialHandler.Delete)
	}

	return router
}
