package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/domain"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/dbctx"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
)

type UserTokenRepo interface {
	Create(dbc dbctx.Context, tokens []*domain.UserToken) ([]*domain.UserToken, error)
	GetByAccessToken(dbc dbctx.Context, accessToken string) (*domain.UserToken, error)
	GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*domain.UserToken, error)
	GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*domain.UserToken, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (r *userTokenRepo) conn(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx)
	}
	return r.db.WithContext(dbc.Ctx)
}

func (r *userTokenRepo) Create(dbc dbctx.Context, tokens []*domain.UserToken) ([]*domain.UserToken, error) {
	if len(tokens) == 0 {
		return []*domain.UserToken{}, nil
	}
	if err := r.conn(dbc).Create(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *userTokenRepo) GetByAccessToken(dbc dbctx.Context, accessToken string) (*domain.UserToken, error) {
	return r.getByColumn(dbc, "access_token", accessToken)
}

func (r *userTokenRepo) GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*domain.UserToken, error) {
	return r.getByColumn(dbc, "refresh_token", refreshToken)
}

func (r *userTokenRepo) getByColumn(dbc dbctx.Context, column, value string) (*domain.UserToken, error) {
	var row domain.UserToken
	err := r.conn(dbc).
		Where(column+" = ?", value).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *userTokenRepo) GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*domain.UserToken, error) {
	var results []*domain.UserToken
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := r.conn(dbc).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userTokenRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.conn(dbc).
		Where("id IN ?", ids).
		Delete(&domain.UserToken{}).Error
}

func (r *userTokenRepo) DeleteByUserID(dbc dbctx.Context, userID uuid.UUID) error {
	return r.conn(dbc).
		Where("user_id = ?", userID).
		Delete(&domain.UserToken{}).Error
}
