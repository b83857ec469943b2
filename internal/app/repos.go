package app

import (
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/data/repos"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Subject   repos.SubjectRepo
	Chapter   repos.ChapterRepo
	Score     repos.ScoreRepo
	Revision  repos.RevisionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Subject:   repos.NewSubjectRepo(db, log),
		Chapter:   repos.NewChapterRepo(db, log),
		Score:     repos.NewScoreRepo(db, log),
		Revision:  repos.NewRevisionRepo(db, log),
	}
}
