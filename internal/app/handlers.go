package app

import (
	"github.com/tushar-behera15/padh-ai-tracker/internal/handlers"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Subject  *handlers.SubjectHandler
	Chapter  *handlers.ChapterHandler
	Score    *handlers.ScoreHandler
	Revision *handlers.RevisionHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:     handlers.NewAuthHandler(services.Auth),
		Subject:  handlers.NewSubjectHandler(log, services.Subject),
		Chapter:  handlers.NewChapterHandler(log, services.Chapter),
		Score:    handlers.NewScoreHandler(log, services.Score),
		Revision: handlers.NewRevisionHandler(log, services.Revision),
	}
}
