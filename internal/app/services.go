package app

import (
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
	"github.com/tushar-behera15/padh-ai-tracker/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Subject  services.SubjectService
	Chapter  services.ChapterService
	Score    services.ScoreService
	Revision services.RevisionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) Services {
	log.Info("Wiring services...")

	// Typed-nil interfaces would defeat the service's nil checks, so only
	// hand over clients that actually exist.
	var provider services.StrategyProvider
	if clients.Gemini != nil {
		provider = clients.Gemini
	}
	var cache services.StrategyCache
	if clients.StrategyCache != nil {
		cache = clients.StrategyCache
	}

	return Services{
		Auth:     services.NewAuthService(db, log, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Subject:  services.NewSubjectService(db, log, r.Subject),
		Chapter:  services.NewChapterService(db, log, r.Subject, r.Chapter),
		Score:    services.NewScoreService(db, log, r.Chapter, r.Score, r.Revision, provider, cache),
		Revision: services.NewRevisionService(db, log, r.Revision),
	}
}
