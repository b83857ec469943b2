package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/domain"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/dbctx"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
)

type ChapterRepo interface {
	Create(dbc dbctx.Context, chapters []*domain.Chapter) ([]*domain.Chapter, error)
	ListBySubjectOwned(dbc dbctx.Context, subjectID, userID uuid.UUID) ([]*domain.Chapter, error)
	GetOwned(dbc dbctx.Context, chapterID, userID uuid.UUID) (*domain.Chapter, error)
	UpdateNameOwned(dbc dbctx.Context, chapterID, userID uuid.UUID, name string) (*domain.Chapter, error)
	DeleteOwned(dbc dbctx.Context, chapterID, userID uuid.UUID) (bool, error)
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return &chapterRepo{db: db, log: baseLog.With("repo", "ChapterRepo")}
}

func (r *chapterRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

// ownedSubjects is the subquery that restricts chapter access to subjects
// of the requesting user.
func (r *chapterRepo) ownedSubjects(dbc dbctx.Context, userID uuid.UUID) *gorm.DB {
	return r.conn(dbc).
		Model(&domain.Subject{}).
		Select("id").
		Where("user_id = ?", userID)
}

func (r *chapterRepo) Create(dbc dbctx.Context, chapters []*domain.Chapter) ([]*domain.Chapter, error) {
	if len(chapters) == 0 {
		return []*domain.Chapter{}, nil
	}
	if err := r.conn(dbc).Create(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *chapterRepo) ListBySubjectOwned(dbc dbctx.Context, subjectID, userID uuid.UUID) ([]*domain.Chapter, error) {
	var results []*domain.Chapter
	if err := r.conn(dbc).
		Where("subject_id = ? AND subject_id IN (?)", subjectID, r.ownedSubjects(dbc, userID)).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chapterRepo) GetOwned(dbc dbctx.Context, chapterID, userID uuid.UUID) (*domain.Chapter, error) {
	var row domain.Chapter
	err := r.conn(dbc).
		Where("id = ? AND subject_id IN (?)", chapterID, r.ownedSubjects(dbc, userID)).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *chapterRepo) UpdateNameOwned(dbc dbctx.Context, chapterID, userID uuid.UUID, name string) (*domain.Chapter, error) {
	res := r.conn(dbc).
		Model(&domain.Chapter{}).
		Where("id = ? AND subject_id IN (?)", chapterID, r.ownedSubjects(dbc, userID)).
		Update("name", name)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetOwned(dbc, chapterID, userID)
}

func (r *chapterRepo) DeleteOwned(dbc dbctx.Context, chapterID, userID uuid.UUID) (bool, error) {
	res := r.conn(dbc).
		Where("id = ? AND subject_id IN (?)", chapterID, r.ownedSubjects(dbc, userID)).
		Delete(&domain.Chapter{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
