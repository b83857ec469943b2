package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/domain"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/dbctx"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
)

type RevisionRepo interface {
	Create(dbc dbctx.Context, revisions []*domain.Revision) ([]*domain.Revision, error)
	ListByScore(dbc dbctx.Context, scoreID uuid.UUID) ([]*domain.Revision, error)
	DeleteByScoreIDs(dbc dbctx.Context, scoreIDs []uuid.UUID) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.RevisionItem, error)
	ListByUserAndDate(dbc dbctx.Context, userID uuid.UUID, date time.Time) ([]*domain.RevisionItem, error)
	MarkCompletedOwned(dbc dbctx.Context, revisionID, userID uuid.UUID) (*domain.Revision, error)
}

type revisionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRevisionRepo(db *gorm.DB, baseLog *logger.Logger) RevisionRepo {
	return &revisionRepo{db: db, log: baseLog.With("repo", "RevisionRepo")}
}

func (r *revisionRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

// ownedScores restricts revision access through the full ownership chain:
// revision -> score -> chapter -> subject -> user.
func (r *revisionRepo) ownedScores(dbc dbctx.Context, userID uuid.UUID) *gorm.DB {
	return r.conn(dbc).
		Model(&domain.Score{}).
		Select("scores.id").
		Joins("JOIN chapters ON chapters.id = scores.chapter_id").
		Joins("JOIN subjects ON subjects.id = chapters.subject_id").
		Where("subjects.user_id = ?", userID)
}

func (r *revisionRepo) Create(dbc dbctx.Context, revisions []*domain.Revision) ([]*domain.Revision, error) {
	if len(revisions) == 0 {
		return []*domain.Revision{}, nil
	}
	if err := r.conn(dbc).Create(&revisions).Error; err != nil {
		return nil, err
	}
	return revisions, nil
}

func (r *revisionRepo) ListByScore(dbc dbctx.Context, scoreID uuid.UUID) ([]*domain.Revision, error) {
	var results []*domain.Revision
	if err := r.conn(dbc).
		Where("score_id = ?", scoreID).
		Order("revision_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *revisionRepo) DeleteByScoreIDs(dbc dbctx.Context, scoreIDs []uuid.UUID) error {
	if len(scoreIDs) == 0 {
		return nil
	}
	return r.conn(dbc).
		Where("score_id IN ?", scoreIDs).
		Delete(&domain.Revision{}).Error
}

func (r *revisionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.RevisionItem, error) {
	var results []*domain.RevisionItem
	if err := r.itemQuery(dbc, userID).
		Order("revisions.revision_date ASC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *revisionRepo) ListByUserAndDate(dbc dbctx.Context, userID uuid.UUID, date time.Time) ([]*domain.RevisionItem, error) {
	var results []*domain.RevisionItem
	if err := r.itemQuery(dbc, userID).
		Where("revisions.revision_date = ?", date).
		Order("chapters.name ASC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *revisionRepo) itemQuery(dbc dbctx.Context, userID uuid.UUID) *gorm.DB {
	return r.conn(dbc).
		Model(&domain.Revision{}).
		Select(`
			revisions.id,
			revisions.revision_date,
			revisions.completed,
			chapters.name AS chapter_name,
			subjects.name AS subject_name`).
		Joins("JOIN scores ON revisions.score_id = scores.id").
		Joins("JOIN chapters ON scores.chapter_id = chapters.id").
		Joins("JOIN subjects ON chapters.subject_id = subjects.id").
		Where("subjects.user_id = ?", userID)
}

func (r *revisionRepo) MarkCompletedOwned(dbc dbctx.Context, revisionID, userID uuid.UUID) (*domain.Revision, error) {
	res := r.conn(dbc).
		Model(&domain.Revision{}).
		Where("id = ? AND score_id IN (?)", revisionID, r.ownedScores(dbc, userID)).
		Update("completed", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	var row domain.Revision
	if err := r.conn(dbc).Where("id = ?", revisionID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
