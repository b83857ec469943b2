package app

import (
	"github.com/gin-gonic/gin"

	"github.com/tushar-behera15/padh-ai-tracker/internal/server"
)

func wireRouter(handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:     handlers.Auth,
		AuthMiddleware:  middleware.Auth,
		SubjectHandler:  handlers.Subject,
		ChapterHandler:  handlers.Chapter,
		ScoreHandler:    handlers.Score,
		RevisionHandler: handlers.Revision,
	})
}
