package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tushar-behera15/padh-ai-tracker/internal/handlers"
	"github.com/tushar-behera15/padh-ai-tracker/internal/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	SubjectHandler  *handlers.SubjectHandler
	ChapterHandler  *handlers.ChapterHandler
	ScoreHandler    *handlers.ScoreHandler
	RevisionHandler *handlers.RevisionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/api/auth/register", cfg.AuthHandler.Register)
	router.POST("/api/auth/login", cfg.AuthHandler.Login)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	api.POST("/auth/logout", cfg.AuthHandler.Logout)
	api.GET("/auth/me", cfg.AuthHandler.GetMe)

	// Subjects
	api.GET("/subjects", cfg.SubjectHandler.List)
	api.POST("/subjects", cfg.SubjectHandler.Create)
	api.PUT("/subjects/:subjectId", cfg.SubjectHandler.Rename)
	api.DELETE("/subjects/:subjectId", cfg.SubjectHandler.Delete)
	api.GET("/subjects/:subjectId/scores", cfg.ScoreHandler.SubjectSummary)

	// Chapters
	api.GET("/subjects/:subjectId/chapters", cfg.ChapterHandler.ListBySubject)
	api.POST("/subjects/:subjectId/chapters", cfg.ChapterHandler.Create)
	api.PUT("/chapters/:chapterId", cfg.ChapterHandler.Rename)
	api.DELETE("/chapters/:chapterId", cfg.ChapterHandler.Delete)

	// Scores
	api.GET("/chapters/:chapterId/scores", cfg.ScoreHandler.ListByChapter)
	api.POST("/chapters/:chapterId/scores", cfg.ScoreHandler.Record)
	api.PUT("/scores/:scoreId", cfg.ScoreHandler.Update)
	api.DELETE("/scores/:scoreId", cfg.ScoreHandler.Delete)

	// Revisions
	api.GET("/revisions", cfg.RevisionHandler.List)
	api.PUT("/revisions/:revisionId/completed", cfg.RevisionHandler.MarkCompleted)

	return router
}
