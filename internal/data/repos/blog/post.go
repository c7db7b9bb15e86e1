package blog

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

// PostFilter narrows BlogPostRepo.List. Zero values mean "no constraint".
type PostFilter struct {
	Status       string
	CategoryID   *uuid.UUID
	CategorySlug string
	Search       string
	FeaturedOnly bool
	// Ordering is one of created_at, views, optionally prefixed with "-".
	Ordering string
}

var postOrderings = map[string]string{
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
	"views":       "views ASC",
	"-views":      "views DESC",
}

func ValidPostOrdering(s string) bool {
	_, ok := postOrderings[s]
	return ok
}

type countRow struct {
	GroupID uuid.UUID
	N       int64
}

type BlogPostRepo interface {
	Create(dbc dbctx.Context, posts []*types.BlogPost) ([]*types.BlogPost, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.BlogPost, error)
	GetBySlug(dbc dbctx.Context, slug string, status string) (*types.BlogPost, error)
	List(dbc dbctx.Context, f PostFilter, offset, limit int) ([]*types.BlogPost, int64, error)
	SlugExists(dbc dbctx.Context, slug string) (bool, error)
	IncrementViews(dbc dbctx.Context, id uuid.UUID) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	CountPublishedByCategories(dbc dbctx.Context, categoryIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type blogPostRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBlogPostRepo(db *gorm.DB, baseLog *logger.Logger) BlogPostRepo {
	return &blogPostRepo{db: db, log: baseLog.With("repo", "BlogPostRepo")}
}

func (r *blogPostRepo) Create(dbc dbctx.Context, posts []*types.BlogPost) ([]*types.BlogPost, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(posts) == 0 {
		return []*types.BlogPost{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Omit("Category", "Author").Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *blogPostRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.BlogPost, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.BlogPost
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Category").
		Preload("Author").
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetBySlug returns nil when no post matches. An empty status matches any.
func (r *blogPostRepo) GetBySlug(dbc dbctx.Context, slug string, status string) (*types.BlogPost, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Preload("Category").
		Preload("Author").
		Where("slug = ?", slug)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []*types.BlogPost
	if err := q.Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *blogPostRepo) applyFilter(q *gorm.DB, f PostFilter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.CategorySlug != "" {
		q = q.Where("category_id IN (SELECT id FROM blog_category WHERE slug = ?)", f.CategorySlug)
	}
	if f.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := normalization.ContainsPattern(s)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(excerpt) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\')`, like, like, like)
	}
	return q
}

func (r *blogPostRepo) List(dbc dbctx.Context, f PostFilter, offset, limit int) ([]*types.BlogPost, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var total int64
	if err := r.applyFilter(transaction.WithContext(dbc.Ctx).Model(&types.BlogPost{}), f).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := postOrderings[f.Ordering]
	if !ok {
		order = postOrderings["-created_at"]
	}
	var out []*types.BlogPost
	if err := r.applyFilter(transaction.WithContext(dbc.Ctx).Model(&types.BlogPost{}), f).
		Preload("Category").
		Preload("Author").
		Order(order).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *blogPostRepo) SlugExists(dbc dbctx.Context, slug string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.BlogPost{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IncrementViews bumps the counter in SQL so concurrent readers never lose
// an increment. updated_at is left alone.
func (r *blogPostRepo) IncrementViews(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *blogPostRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.BlogPost{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *blogPostRepo) CountPublishedByCategories(dbc dbctx.Context, categoryIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
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
		Model(&types.BlogPost{}).
		Select("category_id AS group_id, COUNT(*) AS n").
		Where("category_id IN ? AND status = ?", categoryIDs, types.PostStatusPublished).
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.GroupID] = row.N
	}
	return out, nil
}
