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
	"github.com/tushar-behera15/padh-ai-tracker/internal/requestdata"
)

type SubjectService interface {
	List(ctx context.Context) ([]*domain.Subject, error)
	Create(ctx context.Context, name string) (*domain.Subject, error)
	Rename(ctx context.Context, subjectID uuid.UUID, name string) (*domain.Subject, error)
	Delete(ctx context.Context, subjectID uuid.UUID) error
}

type subjectService struct {
	db          *gorm.DB
	log         *logger.Logger
	subjectRepo repos.SubjectRepo
}

func NewSubjectService(db *gorm.DB, log *logger.Logger, subjectRepo repos.SubjectRepo) SubjectService {
	return &subjectService{
		db:          db,
		log:         log.With("service", "SubjectService"),
		subjectRepo: subjectRepo,
	}
}

func requireUser(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apierr.Unauthorized(fmt.Errorf("user not set in request context"))
	}
	return rd.UserID, nil
}

func (ss *subjectService) List(ctx context.Context) ([]*domain.Subject, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return ss.subjectRepo.ListByUser(dbctx.Context{Ctx: ctx}, userID)
}

func (ss *subjectService) Create(ctx context.Context, name string) (*domain.Subject, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Invalid(fmt.Errorf("subject name is required"))
	}
	subject := &domain.Subject{ID: uuid.New(), Name: name, UserID: userID}
	if _, err := ss.subjectRepo.Create(dbctx.Context{Ctx: ctx}, []*domain.Subject{subject}); err != nil {
		return nil, fmt.Errorf("creating subject: %w", err)
	}
	return subject, nil
}

func (ss *subjectService) Rename(ctx context.Context, subjectID uuid.UUID, name string) (*domain.Subject, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Invalid(fmt.Errorf("subject name is required"))
	}
	subject, err := ss.subjectRepo.UpdateNameOwned(dbctx.Context{Ctx: ctx}, subjectID, userID, name)
	if err != nil {
		return nil, fmt.Errorf("renaming subject: %w", err)
	}
	if subject == nil {
		return nil, apierr.NotFound("subject")
	}
	return subject, nil
}

func (ss *subjectService) Delete(ctx context.Context, subjectID uuid.UUID) error {
	userID, err := requireUser(ctx)
	if err != nil {
		return err
	}
	deleted, err := ss.subjectRepo.DeleteOwned(dbctx.Context{Ctx: ctx}, subjectID, userID)
	if err != nil {
		return fmt.Errorf("deleting subject: %w", err)
	}
	if !deleted {
		return apierr.NotFound("subject")
	}
	return nil
}
