package shop

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

type ProductImageRepo interface {
	Create(dbc dbctx.Context, images []*types.ProductImage) ([]*types.ProductImage, error)
	ListByProducts(dbc dbctx.Context, productIDs []uuid.UUID) ([]*types.ProductImage, error)
}

type productImageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductImageRepo(db *gorm.DB, baseLog *logger.Logger) ProductImageRepo {
	return &productImageRepo{db: db, log: baseLog.With("repo", "ProductImageRepo")}
}

func (r *productImageRepo) Create(dbc dbctx.Context, images []*types.ProductImage) ([]*types.ProductImage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(images) == 0 {
		return []*types.ProductImage{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Omit("Product").Create(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *productImageRepo) ListByProducts(dbc dbctx.Context, productIDs []uuid.UUID) ([]*types.ProductImage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ProductImage
	if len(productIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("product_id IN ?", productIDs).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
