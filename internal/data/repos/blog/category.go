package blog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

type CategoryRepo interface {
	Create(dbc dbctx.Context, categories []*types.Category) ([]*types.Category, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Category, error)
	GetBySlugs(dbc dbctx.Context, slugs []string) ([]*types.Category, error)
	GetByNames(dbc dbctx.Context, names []string) ([]*types.Category, error)
	List(dbc dbctx.Context, offset, limit int) ([]*types.Category, int64, error)
	SlugExists(dbc dbctx.Context, slug string) (bool, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Create(dbc dbctx.Context, categories []*types.Category) ([]*types.Category, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(categories) == 0 {
		return []*types.Category{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Category, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Category
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) GetBySlugs(dbc dbctx.Context, slugs []string) ([]*types.Category, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Category
	if len(slugs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("slug IN ?", slugs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) GetByNames(dbc dbctx.Context, names []string) ([]*types.Category, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Category
	if len(names) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("name IN ?", names).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) List(dbc dbctx.Context, offset, limit int) ([]*types.Category, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var total int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Category{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.Category
	if err := transaction.WithContext(dbc.Ctx).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *categoryRepo) SlugExists(dbc dbctx.Context, slug string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Category{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
