package shop

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/pkg/money"
	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

// ProductFilter narrows ProductRepo.List. Zero values mean "no constraint".
type ProductFilter struct {
	Status       string
	CategoryID   *uuid.UUID
	CategorySlug string
	MinPrice     *money.Amount
	MaxPrice     *money.Amount
	InStock      bool
	Search       string
	FeaturedOnly bool
	// Ordering is one of price, created_at, average_rating, optionally
	// prefixed with "-".
	Ordering string
}

const avgRatingExpr = "(SELECT COALESCE(AVG(r.rating), 0) FROM product_review r WHERE r.product_id = product.id AND r.is_approved)"

var productOrderings = map[string]string{
	"price":           "price ASC",
	"-price":          "price DESC",
	"created_at":      "created_at ASC",
	"-created_at":     "created_at DESC",
	"average_rating":  avgRatingExpr + " ASC",
	"-average_rating": avgRatingExpr + " DESC",
}

func ValidProductOrdering(s string) bool {
	_, ok := productOrderings[s]
	return ok
}

type countRow struct {
	GroupID uuid.UUID
	N       int64
}

type ProductRepo interface {
	Create(dbc dbctx.Context, products []*types.Product) ([]*types.Product, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Product, error)
	LockByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Product, error)
	GetBySlug(dbc dbctx.Context, slug string, status string) (*types.Product, error)
	List(dbc dbctx.Context, f ProductFilter, offset, limit int) ([]*types.Product, int64, error)
	Count(dbc dbctx.Context) (int64, error)
	SlugExists(dbc dbctx.Context, slug string) (bool, error)
	SKUExists(dbc dbctx.Context, sku string) (bool, error)
	DecrementStock(dbc dbctx.Context, id uuid.UUID, qty int) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	CountActiveByCategories(dbc dbctx.Context, categoryIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) Create(dbc dbctx.Context, products []*types.Product) ([]*types.Product, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(products) == 0 {
		return []*types.Product{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Omit("Category").Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Product, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Product
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Category").
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LockByIDs reads products with FOR UPDATE so stock checks and decrements in
// the same transaction see a stable row. Must run inside a transaction.
func (r *productRepo) LockByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Product, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Product
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetBySlug returns nil when no product matches. An empty status matches any.
func (r *productRepo) GetBySlug(dbc dbctx.Context, slug string, status string) (*types.Product, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Preload("Category").
		Where("slug = ?", slug)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []*types.Product
	if err := q.Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *productRepo) applyFilter(q *gorm.DB, f ProductFilter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.CategorySlug != "" {
		q = q.Where("category_id IN (SELECT id FROM product_category WHERE slug = ?)", f.CategorySlug)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", f.MinPrice.Cents())
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", f.MaxPrice.Cents())
	}
	if f.InStock {
		q = q.Where("stock_quantity > 0")
	}
	if f.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := normalization.ContainsPattern(s)
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(short_description) LIKE ? ESCAPE '\')`, like, like, like)
	}
	return q
}

func (r *productRepo) List(dbc dbctx.Context, f ProductFilter, offset, limit int) ([]*types.Product, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var total int64
	if err := r.applyFilter(transaction.WithContext(dbc.Ctx).Model(&types.Product{}), f).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := productOrderings[f.Ordering]
	if !ok {
		order = productOrderings["-created_at"]
	}
	var out []*types.Product
	if err := r.applyFilter(transaction.WithContext(dbc.Ctx).Model(&types.Product{}), f).
		Preload("Category").
		Order(order).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *productRepo) Count(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Product{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *productRepo) SlugExists(dbc dbctx.Context, slug string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Product{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *productRepo) SKUExists(dbc dbctx.Context, sku string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Product{}).
		Where("sku = ?", sku).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DecrementStock subtracts qty only when enough stock remains. It reports
// false, without error, when the guard rejected the update.
func (r *productRepo) DecrementStock(dbc dbctx.Context, id uuid.UUID, qty int) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *productRepo) CountActiveByCategories(dbc dbctx.Context, categoryIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := make(map[uuid.UUID]int64, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return out, nil
	}
	var rows []countRow
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Product{}).
		Select("category_id AS group_id, COUNT(*) AS n").
		Where("category_id IN ? AND status = ?", categoryIDs, types.ProductStatusActive).
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.GroupID] = row.N
	}
	return out, nil
}
