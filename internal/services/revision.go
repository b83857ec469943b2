package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/data/repos"
	"github.com/tushar-behera15/padh-ai-tracker/internal/domain"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/apierr"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/dbctx"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
)

type RevisionService interface {
	// List returns the user's whole revision dashboard, or a single day's
	// slice when date is non-nil.
	List(ctx context.Context, date *time.Time) ([]*domain.RevisionItem, error)
	MarkCompleted(ctx context.Context, revisionID uuid.UUID) (*domain.Revision, error)
}

type revisionService struct {
	db           *gorm.DB
	log          *logger.Logger
	revisionRepo repos.RevisionRepo
}

func NewRevisionService(db *gorm.DB, log *logger.Logger, revisionRepo repos.RevisionRepo) RevisionService {
	return &revisionService{
		db:           db,
		log:          log.With("service", "RevisionService"),
		revisionRepo: revisionRepo,
	}
}

func (rs *revisionService) List(ctx context.Context, date *time.Time) ([]*domain.RevisionItem, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if date != nil {
		return rs.revisionRepo.ListByUserAndDate(dbc, userID, *date)
	}
	return rs.revisionRepo.ListByUser(dbc, userID)
}

func (rs *revisionService) MarkCompleted(ctx context.Context, revisionID uuid.UUID) (*domain.Revision, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	revision, err := rs.revisionRepo.MarkCompletedOwned(dbctx.Context{Ctx: ctx}, revisionID, userID)
	if err != nil {
		return nil, fmt.Errorf("marking revision: %w", err)
	}
	if revision == nil {
		return nil, apierr.NotFound("revision")
	}
	return revision, nil
}
