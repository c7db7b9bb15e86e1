package shop

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

type ProductCategoryRepo interface {
	Create(dbc dbctx.Context, categories []*types.ProductCategory) ([]*types.ProductCategory, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ProductCategory, error)
	GetByNames(dbc dbctx.Context, names []string) ([]*types.ProductCategory, error)
	List(dbc dbctx.Context, offset, limit int) ([]*types.ProductCategory, int64, error)
	SlugExists(dbc dbctx.Context, slug string) (bool, error)
}

type productCategoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductCategoryRepo(db *gorm.DB, baseLog *logger.Logger) ProductCategoryRepo {
	return &productCategoryRepo{db: db, log: baseLog.With("repo", "ProductCategoryRepo")}
}

func (r *productCategoryRepo) Create(dbc dbctx.Context, categories []*types.ProductCategory) ([]*types.ProductCategory, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(categories) == 0 {
		return []*types.ProductCategory{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *productCategoryRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ProductCategory, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ProductCategory
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

func (r *productCategoryRepo) GetByNames(dbc dbctx.Context, names []string) ([]*types.ProductCategory, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ProductCategory
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

func (r *productCategoryRepo) List(dbc dbctx.Context, offset, limit int) ([]*types.ProductCategory, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var total int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.ProductCategory{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*types.ProductCategory
	if err := transaction.WithContext(dbc.Ctx).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *productCategoryRepo) SlugExists(dbc dbctx.Context, slug string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.ProductCategory{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
