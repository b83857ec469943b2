package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/domain"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/dbctx"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
)

// SubjectRepo scopes every lookup and mutation by the owning user id, so a
// miss and a cross-user access are indistinguishable to callers.
type SubjectRepo interface {
	Create(dbc dbctx.Context, subjects []*domain.Subject) ([]*domain.Subject, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.Subject, error)
	GetOwned(dbc dbctx.Context, subjectID, userID uuid.UUID) (*domain.Subject, error)
	UpdateNameOwned(dbc dbctx.Context, subjectID, userID uuid.UUID, name string) (*domain.Subject, error)
	DeleteOwned(dbc dbctx.Context, subjectID, userID uuid.UUID) (bool, error)
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{db: db, log: baseLog.With("repo", "SubjectRepo")}
}

func (r *subjectRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *subjectRepo) Create(dbc dbctx.Context, subjects []*domain.Subject) ([]*domain.Subject, error) {
	if len(subjects) == 0 {
		return []*domain.Subject{}, nil
	}
	if err := r.conn(dbc).Create(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.Subject, error) {
	var results []*domain.Subject
	if err := r.conn(dbc).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *subjectRepo) GetOwned(dbc dbctx.Context, subjectID, userID uuid.UUID) (*domain.Subject, error) {
	var row domain.Subject
	err := r.conn(dbc).
		Where("id = ? AND user_id = ?", subjectID, userID).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *subjectRepo) UpdateNameOwned(dbc dbctx.Context, subjectID, userID uuid.UUID, name string) (*domain.Subject, error) {
	res := r.conn(dbc).
		Model(&domain.Subject{}).
		Where("id = ? AND user_id = ?", subjectID, userID).
		Update("name", name)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetOwned(dbc, subjectID, userID)
}

func (r *subjectRepo) DeleteOwned(dbc dbctx.Context, subjectID, userID uuid.UUID) (bool, error) {
	res := r.conn(dbc).
		Where("id = ? AND user_id = ?", subjectID, userID).
		Delete(&domain.Subject{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
