package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/data/repos"
	"github.com/tushar-behera15/padh-ai-tracker/internal/domain"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/apierr"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/dbctx"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
)

type ChapterService interface {
	ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*domain.Chapter, error)
	Create(ctx context.Context, subjectID uuid.UUID, name string) (*domain.Chapter, error)
	Rename(ctx context.Context, chapterID uuid.UUID, name string) (*domain.Chapter, error)
	Delete(ctx context.Context, chapterID uuid.UUID) error
}

type chapterService struct {
	db          *gorm.DB
	log         *logger.Logger
	subjectRepo repos.SubjectRepo
	chapterRepo repos.ChapterRepo
}

func NewChapterService(db *gorm.DB, log *logger.Logger, subjectRepo repos.SubjectRepo, chapterRepo repos.ChapterRepo) ChapterService {
	return &chapterService{
		db:          db,
		log:         log.With("service", "ChapterService"),
		subjectRepo: subjectRepo,
		chapterRepo: chapterRepo,
	}
}

func (cs *chapterService) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*domain.Chapter, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	subject, err := cs.subjectRepo.GetOwned(dbc, subjectID, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving subject: %w", err)
	}
	if subject == nil {
		return nil, apierr.NotFound("subject")
	}
	return cs.chapterRepo.ListBySubjectOwned(dbc, subjectID, userID)
}

func (cs *chapterService) Create(ctx context.Context, subjectID uuid.UUID, name string) (*domain.Chapter, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Invalid(fmt.Errorf("chapter name is required"))
	}
	dbc := dbctx.Context{Ctx: ctx}
	subject, err := cs.subjectRepo.GetOwned(dbc, subjectID, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving subject: %w", err)
	}
	if subject == nil {
		return nil, apierr.NotFound("subject")
	}
	chapter := &domain.Chapter{ID: uuid.New(), Name: name, SubjectID: subjectID}
	if _, err := cs.chapterRepo.Create(dbc, []*domain.Chapter{chapter}); err != nil {
		return nil, fmt.Errorf("creating chapter: %w", err)
	}
	return chapter, nil
}

func (cs *chapterService) Rename(ctx context.Context, chapterID uuid.UUID, name string) (*domain.Chapter, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Invalid(fmt.Errorf("chapter name is required"))
	}
	chapter, err := cs.chapterRepo.UpdateNameOwned(dbctx.Context{Ctx: ctx}, chapterID, userID, name)
	if err != nil {
		return nil, fmt.Errorf("renaming chapter: %w", err)
	}
	if chapter == nil {
		return nil, apierr.NotFound("chapter")
	}
	return chapter, nil
}

func (cs *chapterService) Delete(ctx context.Context, chapterID uuid.UUID) error {
	userID, err := requireUser(ctx)
	if err != nil {
		return err
	}
	deleted, err := cs.chapterRepo.DeleteOwned(dbctx.Context{Ctx: ctx}, chapterID, userID)
	if err != nil {
		return fmt.Errorf("deleting chapter: %w", err)
	}
	if !deleted {
		return apierr.NotFound("chapter")
	}
	return nil
}
