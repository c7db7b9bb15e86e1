package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

type UserTokenRepo interface {
	Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error)
	GetByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) ([]*types.UserToken, error)
	GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.UserToken, error)
	GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error)
	UpdateAccessToken(dbc dbctx.Context, tokenID uuid.UUID, accessToken string) error
	FullDeleteByRefreshTokens(dbc dbctx.Context, refreshTokens []string) (int64, error)
	FullDeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error
	FullDeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) error
	FullDeleteExpired(dbc dbctx.Context, before time.Time) (int64, error)
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	repoLog := baseLog.With("repo", "UserTokenRepo")
	return &userTokenRepo{db: db, log: repoLog}
}

func (utr *userTokenRepo) Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}

	if len(userTokens) == 0 {
		return []*types.UserToken{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&userTokens).Error; err != nil {
		return nil, err
	}

	return userTokens, nil
}

func (utr *userTokenRepo) GetByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) ([]*types.UserToken, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}

	var results []*types.UserToken
	if len(tokenIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", tokenIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.UserToken, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}

	var results []*types.UserToken
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}

	var results []*types.UserToken
	if len(refreshTokens) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("refresh_token IN ?", refreshTokens).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) UpdateAccessToken(dbc dbctx.Context, tokenID uuid.UUID, accessToken string) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.UserToken{}).
		Where("id = ?", tokenID).
		Update("access_token", accessToken).Error
}

func (utr *userTokenRepo) FullDeleteByRefreshTokens(dbc dbctx.Context, refreshTokens []string) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}
	if len(refreshTokens) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Unscoped().
		Where("refresh_token IN ?", refreshTokens).
		Delete(&types.UserToken{})
	return res.RowsAffected, res.Error
}

func (utr *userTokenRepo) FullDeleteByIDs(dbc dbctx.Context, tokenIDs []uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}
	if len(tokenIDs) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Unscoped().
		Where("id IN ?", tokenIDs).
		Delete(&types.UserToken{}).Error
}

func (utr *userTokenRepo) FullDeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}
	if len(userIDs) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Unscoped().
		Where("user_id IN ?", userIDs).
		Delete(&types.UserToken{}).Error
}

// FullDeleteExpired removes sessions whose refresh window closed before the
// given instant and returns how many were removed.
func (utr *userTokenRepo) FullDeleteExpired(dbc dbctx.Context, before time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = utr.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Unscoped().
		Where("expires_at < ?", before).
		Delete(&types.UserToken{})
	return res.RowsAffected, res.Error
}
