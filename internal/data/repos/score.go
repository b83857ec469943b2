package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/domain"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/dbctx"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
)

// SubjectScoreSummary aggregates a subject's scores by performance level.
type SubjectScoreSummary struct {
	Weak              int64    `json:"weak"`
	Average           int64    `json:"average"`
	Strong            int64    `json:"strong"`
	AveragePercentage *float64 `json:"average_percentage"`
}

type ScoreRepo interface {
	Create(dbc dbctx.Context, scores []*domain.Score) ([]*domain.Score, error)
	GetOwned(dbc dbctx.Context, scoreID, userID uuid.UUID) (*domain.Score, error)
	ListByChapterOwned(dbc dbctx.Context, chapterID, userID uuid.UUID) ([]*domain.Score, error)
	ListIDsByChapter(dbc dbctx.Context, chapterID uuid.UUID) ([]uuid.UUID, error)
	DeleteByChapter(dbc dbctx.Context, chapterID uuid.UUID) error
	DeleteOwned(dbc dbctx.Context, scoreID, userID uuid.UUID) (bool, error)
	Update(dbc dbctx.Context, score *domain.Score) error
	SubjectSummary(dbc dbctx.Context, subjectID, userID uuid.UUID) (*SubjectScoreSummary, error)
}

type scoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreRepo(db *gorm.DB, baseLog *logger.Logger) ScoreRepo {
	return &scoreRepo{db: db, log: baseLog.With("repo", "ScoreRepo")}
}

func (r *scoreRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *scoreRepo) ownedChapters(dbc dbctx.Context, userID uuid.UUID) *gorm.DB {
	return r.conn(dbc).
		Model(&domain.Chapter{}).
		Select("chapters.id").
		Joins("JOIN subjects ON subjects.id = chapters.subject_id").
		Where("subjects.user_id = ?", userID)
}

func (r *scoreRepo) Create(dbc dbctx.Context, scores []*domain.Score) ([]*domain.Score, error) {
	if len(scores) == 0 {
		return []*domain.Score{}, nil
	}
	if err := r.conn(dbc).Create(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *scoreRepo) GetOwned(dbc dbctx.Context, scoreID, userID uuid.UUID) (*domain.Score, error) {
	var row domain.Score
	err := r.conn(dbc).
		Where("id = ? AND chapter_id IN (?)", scoreID, r.ownedChapters(dbc, userID)).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *scoreRepo) ListByChapterOwned(dbc dbctx.Context, chapterID, userID uuid.UUID) ([]*domain.Score, error) {
	var results []*domain.Score
	if err := r.conn(dbc).
		Where("chapter_id = ? AND chapter_id IN (?)", chapterID, r.ownedChapters(dbc, userID)).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scoreRepo) ListIDsByChapter(dbc dbctx.Context, chapterID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.conn(dbc).
		Model(&domain.Score{}).
		Where("chapter_id = ?", chapterID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *scoreRepo) DeleteByChapter(dbc dbctx.Context, chapterID uuid.UUID) error {
	return r.conn(dbc).
		Where("chapter_id = ?", chapterID).
		Delete(&domain.Score{}).Error
}

func (r *scoreRepo) DeleteOwned(dbc dbctx.Context, scoreID, userID uuid.UUID) (bool, error) {
	res := r.conn(dbc).
		Where("id = ? AND chapter_id IN (?)", scoreID, r.ownedChapters(dbc, userID)).
		Delete(&domain.Score{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *scoreRepo) Update(dbc dbctx.Context, score *domain.Score) error {
	return r.conn(dbc).
		Model(&domain.Score{}).
		Where("id = ?", score.ID).
		Updates(map[string]any{
			"score_percentage":  score.ScorePercentage,
			"performance_level": score.PerformanceLevel,
			"deadline":          score.Deadline,
			"ai_strategy":       score.AIStrategy,
			"updated_at":        time.Now(),
		}).Error
}

func (r *scoreRepo) SubjectSummary(dbc dbctx.Context, subjectID, userID uuid.UUID) (*SubjectScoreSummary, error) {
	var summary SubjectScoreSummary
	err := r.conn(dbc).
		Model(&domain.Score{}).
		Select(`
			COUNT(*) FILTER (WHERE scores.performance_level = 'weak')    AS weak,
			COUNT(*) FILTER (WHERE scores.performance_level = 'average') AS average,
			COUNT(*) FILTER (WHERE scores.performance_level = 'strong')  AS strong,
			ROUND(AVG(scores.score_percentage)::numeric, 2)              AS average_percentage`).
		Joins("JOIN chapters ON scores.chapter_id = chapters.id").
		Joins("JOIN subjects ON chapters.subject_id = subjects.id").
		Where("subjects.id = ? AND subjects.user_id = ?", subjectID, userID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
