package shop

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

// ReviewStats aggregates the approved reviews of one product.
type ReviewStats struct {
	Average float64
	Count   int64
}

type ProductReviewRepo interface {
	Create(dbc dbctx.Context, reviews []*types.ProductReview) ([]*types.ProductReview, error)
	ListApprovedByProduct(dbc dbctx.Context, productID uuid.UUID) ([]*types.ProductReview, error)
	StatsByProducts(dbc dbctx.Context, productIDs []uuid.UUID) (map[uuid.UUID]ReviewStats, error)
}

type productReviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductReviewRepo(db *gorm.DB, baseLog *logger.Logger) ProductReviewRepo {
	return &productReviewRepo{db: db, log: baseLog.With("repo", "ProductReviewRepo")}
}

func (r *productReviewRepo) Create(dbc dbctx.Context, reviews []*types.ProductReview) ([]*types.ProductReview, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(reviews) == 0 {
		return []*types.ProductReview{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Omit("Product", "User").Create(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListApprovedByProduct returns approved reviews, newest first.
func (r *productReviewRepo) ListApprovedByProduct(dbc dbctx.Context, productID uuid.UUID) ([]*types.ProductReview, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ProductReview
	if err := transaction.WithContext(dbc.Ctx).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productReviewRepo) StatsByProducts(dbc dbctx.Context, productIDs []uuid.UUID) (map[uuid.UUID]ReviewStats, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := make(map[uuid.UUID]ReviewStats, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		GroupID   uuid.UUID
		N         int64
		AvgRating float64
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.ProductReview{}).
		Select("product_id AS group_id, COUNT(*) AS n, CAST(AVG(rating) AS FLOAT) AS avg_rating").
		Where("product_id IN ? AND is_approved = ?", productIDs, true).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.GroupID] = ReviewStats{Average: row.AvgRating, Count: row.N}
	}
	return out, nil
}
