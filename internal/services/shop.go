package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/pkg/money"
	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
	"github.com/yungbote/lumina-backend/internal/pkg/pagination"
	"github.com/yungbote/lumina-backend/internal/platform/apierr"
	"github.com/yungbote/lumina-backend/internal/platform/ctxutil"
	"github.com/yungbote/lumina-backend/internal/platform/dbctx"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/platform/validate"
)

const featuredProductLimit = 8

type ProductQuery struct {
	CategoryID   *uuid.UUID
	CategorySlug string
	Status       string
	MinPrice     *money.Amount
	MaxPrice     *money.Amount
	InStock      bool
	Search       string
	Ordering     string
}

// ReviewInput names its product by ProductSlug (taken from the URL) or,
// failing that, by ProductID from the body.
type ReviewInput struct {
	ProductID   *uuid.UUID `json:"product"`
	ProductSlug string     `json:"-"`
	AuthorName  string     `json:"author_name" binding:"required,max=100"`
	Rating      int        `json:"rating" binding:"oneof=1 2 3 4 5"`
	Title       string     `json:"title" binding:"max=255"`
	Content     string     `json:"content" binding:"required"`
}

type ProductImageInput struct {
	AltText string `form:"alt_text" json:"alt_text" binding:"max=255"`
	Order   int    `form:"order" json:"order"`
}

type ProductCategoryInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type ProductInput struct {
	Name             string        `json:"name" binding:"required,max=255"`
	Description      string        `json:"description"`
	ShortDescription string        `json:"short_description" binding:"max=255"`
	Price            money.Amount  `json:"price" binding:"gte=0,lte=9999999999"`
	ComparePrice     *money.Amount `json:"compare_price" binding:"omitempty,gte=0,lte=9999999999"`
	SKU              string        `json:"sku" binding:"max=100"`
	CategoryID       *uuid.UUID    `json:"category"`
	Image            string        `json:"image"`
	Status           string        `json:"status" binding:"oneof=active inactive out_of_stock"`
	StockQuantity    int           `json:"stock_quantity" binding:"gte=0,lte=2147483647"`
	IsFeatured       bool          `json:"is_featured"`
	Weight           *float64      `json:"weight" binding:"omitempty,gte=0"`
}

type ShopService interface {
	ListCategories(dbc dbctx.Context, p pagination.Params) (pagination.Page[ProductCategoryView], error)
	ListProducts(dbc dbctx.Context, q ProductQuery, p pagination.Params) (pagination.Page[ProductListItem], error)
	FeaturedProducts(dbc dbctx.Context) ([]ProductListItem, error)
	GetProduct(dbc dbctx.Context, slug string) (*ProductDetail, error)
	ListReviews(dbc dbctx.Context, slug string) ([]ReviewView, error)
	CreateReview(dbc dbctx.Context, in ReviewInput) (*ReviewView, error)
	UploadProductImage(dbc dbctx.Context, slug string, raw []byte, in ProductImageInput) (*ProductImageView, error)

	CreateCategory(dbc dbctx.Context, in ProductCategoryInput) (*types.ProductCategory, error)
	CreateProduct(dbc dbctx.Context, in ProductInput) (*types.Product, error)
}

type shopService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.ProductCategoryRepo
	productRepo  repos.ProductRepo
	imageRepo    repos.ProductImageRepo
	reviewRepo   repos.ProductReviewRepo
	media        MediaService
}

func NewShopService(
	db *gorm.DB,
	baseLog *logger.Logger,
	categoryRepo repos.ProductCategoryRepo,
	productRepo repos.ProductRepo,
	imageRepo repos.ProductImageRepo,
	reviewRepo repos.ProductReviewRepo,
	media MediaService,
) ShopService {
	return &shopService{
		db:           db,
		log:          baseLog.With("service", "ShopService"),
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		imageRepo:    imageRepo,
		reviewRepo:   reviewRepo,
		media:        media,
	}
}

func (s *shopService) dbc(dbc dbctx.Context) dbctx.Context {
	if dbc.Tx == nil {
		return dbctx.Context{Ctx: dbc.Ctx, Tx: s.db}
	}
	return dbc
}

func (s *shopService) ListCategories(dbc dbctx.Context, p pagination.Params) (pagination.Page[ProductCategoryView], error) {
	inner := s.dbc(dbc)
	cats, total, err := s.categoryRepo.List(inner, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[ProductCategoryView]{}, fmt.Errorf("list categories: %w", err)
	}
	if err := p.Check(total); err != nil {
		return pagination.Page[ProductCategoryView]{}, err
	}
	ids := make([]uuid.UUID, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	counts, err := s.productRepo.CountActiveByCategories(inner, ids)
	if err != nil {
		return pagination.Page[ProductCategoryView]{}, fmt.Errorf("count products: %w", err)
	}
	items := make([]ProductCategoryView, 0, len(cats))
	for _, c := range cats {
		items = append(items, NewProductCategoryView(c, counts[c.ID]))
	}
	return pagination.Page[ProductCategoryView]{Items: items, Total: total, Params: p}, nil
}

func (s *shopService) listItems(inner dbctx.Context, products []*types.Product) ([]ProductListItem, error) {
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	stats, err := s.reviewRepo.StatsByProducts(inner, ids)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	items := make([]ProductListItem, 0, len(products))
	for _, p := range products {
		st := stats[p.ID]
		items = append(items, NewProductListItem(p, st.Average, st.Count))
	}
	return items, nil
}

func (s *shopService) ListProducts(dbc dbctx.Context, q ProductQuery, p pagination.Params) (pagination.Page[ProductListItem], error) {
	if q.Status != "" && q.Status != types.ProductStatusActive {
		if err := p.Check(0); err != nil {
			return pagination.Page[ProductListItem]{}, err
		}
		return pagination.Page[ProductListItem]{Items: []ProductListItem{}, Params: p}, nil
	}
	inner := s.dbc(dbc)
	products, total, err := s.productRepo.List(inner, repos.ProductFilter{
		Status:       types.ProductStatusActive,
		CategoryID:   q.CategoryID,
		CategorySlug: strings.TrimSpace(q.CategorySlug),
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		InStock:      q.InStock,
		Search:       q.Search,
		Ordering:     q.Ordering,
	}, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[ProductListItem]{}, fmt.Errorf("list products: %w", err)
	}
	if err := p.Check(total); err != nil {
		return pagination.Page[ProductListItem]{}, err
	}
	items, err := s.listItems(inner, products)
	if err != nil {
		return pagination.Page[ProductListItem]{}, err
	}
	return pagination.Page[ProductListItem]{Items: items, Total: total, Params: p}, nil
}

func (s *shopService) FeaturedProducts(dbc dbctx.Context) ([]ProductListItem, error) {
	inner := s.dbc(dbc)
	products, _, err := s.productRepo.List(inner, repos.ProductFilter{
		Status:       types.ProductStatusActive,
		FeaturedOnly: true,
	}, 0, featuredProductLimit)
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	return s.listItems(inner, products)
}

func (s *shopService) activeProduct(inner dbctx.Context, slug string) (*types.Product, error) {
	p, err := s.productRepo.GetBySlug(inner, strings.TrimSpace(slug), types.ProductStatusActive)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound("No Product matches the given query.")
	}
	return p, nil
}

func (s *shopService) GetProduct(dbc dbctx.Context, slug string) (*ProductDetail, error) {
	inner := s.dbc(dbc)
	p, err := s.activeProduct(inner, slug)
	if err != nil {
		return nil, err
	}
	images, err := s.imageRepo.ListByProducts(inner, []uuid.UUID{p.ID})
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	reviews, err := s.reviewRepo.ListApprovedByProduct(inner, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	stats, err := s.reviewRepo.StatsByProducts(inner, []uuid.UUID{p.ID})
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	st := stats[p.ID]

	out := &ProductDetail{
		ID:                 p.ID,
		Name:               p.Name,
		Slug:               p.Slug,
		Description:        p.Description,
		ShortDescription:   p.ShortDescription,
		Price:              p.Price,
		ComparePrice:       p.ComparePrice,
		DiscountPercentage: p.DiscountPercentage(),
		Image:              p.Image,
		Images:             make([]ImageView, 0, len(images)),
		SKU:                p.SKU,
		Weight:             p.Weight,
		InStock:            p.InStock(),
		StockQuantity:      p.StockQuantity,
		AverageRating:      roundRating(st.Average),
		ReviewCount:        st.Count,
		Reviews:            make([]ReviewView, 0, len(reviews)),
		CreatedAt:          p.CreatedAt,
	}
	for _, img := range images {
		out.Images = append(out.Images, ImageView{URL: img.Image, Alt: img.AltText})
	}
	for _, r := range reviews {
		out.Reviews = append(out.Reviews, NewReviewView(r))
	}
	if p.Category != nil {
		counts, err := s.productRepo.CountActiveByCategories(inner, []uuid.UUID{p.Category.ID})
		if err != nil {
			return nil, fmt.Errorf("count products: %w", err)
		}
		cv := NewProductCategoryView(p.Category, counts[p.Category.ID])
		out.Category = &cv
	}
	return out, nil
}

func (s *shopService) ListReviews(dbc dbctx.Context, slug string) ([]ReviewView, error) {
	inner := s.dbc(dbc)
	p, err := s.activeProduct(inner, slug)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListApprovedByProduct(inner, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	out := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewView(r))
	}
	return out, nil
}

// CreateReview attaches a review to an active product found by slug or, when
// ProductSlug is empty, by ProductID. The caller is linked when signed in.
func (s *shopService) CreateReview(dbc dbctx.Context, in ReviewInput) (*ReviewView, error) {
	if in.ProductSlug == "" && in.ProductID == nil {
		return nil, apierr.FieldError("product", "This field is required.")
	}
	in.AuthorName = normalization.Trim(in.AuthorName)
	in.Title = normalization.Trim(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var out *ReviewView
	err := txBase(s.db, dbc).WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		var product *types.Product
		if in.ProductSlug != "" {
			p, err := s.activeProduct(inner, in.ProductSlug)
			if err != nil {
				return err
			}
			product = p
		} else {
			found, err := s.productRepo.GetByIDs(inner, []uuid.UUID{*in.ProductID})
			if err != nil {
				return fmt.Errorf("load product: %w", err)
			}
			if len(found) == 0 || found[0].Status != types.ProductStatusActive {
				return apierr.FieldError("product", fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", in.ProductID.String()))
			}
			product = found[0]
		}
		r := &types.ProductReview{
			ProductID:  product.ID,
			UserID:     ctxutil.UserID(dbc.Ctx),
			AuthorName: in.AuthorName,
			Rating:     in.Rating,
			Title:      in.Title,
			Content:    in.Content,
		}
		if _, err := s.reviewRepo.Create(inner, []*types.ProductReview{r}); err != nil {
			return fmt.Errorf("create review: %w", err)
		}
		v := NewReviewView(r)
		out = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *shopService) UploadProductImage(dbc dbctx.Context, slug string, raw []byte, in ProductImageInput) (*ProductImageView, error) {
	inner := s.dbc(dbc)
	p, err := s.productRepo.GetBySlug(inner, strings.TrimSpace(slug), "")
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound("No Product matches the given query.")
	}
	in.AltText = normalization.Trim(in.AltText)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	alt := in.AltText
	stored, err := s.media.UploadImage(inner, "products/"+p.ID.String(), raw)
	if err != nil {
		return nil, err
	}
	img := &types.ProductImage{
		ProductID: p.ID,
		Image:     stored.URL,
		BucketKey: stored.Key,
		AltText:   alt,
		Order:     in.Order,
	}
	if _, err := s.imageRepo.Create(inner, []*types.ProductImage{img}); err != nil {
		s.media.Delete(inner, stored.Key)
		return nil, fmt.Errorf("create product image: %w", err)
	}
	if p.Image == "" {
		if err := s.productRepo.UpdateFields(inner, p.ID, map[string]interface{}{"image": stored.URL}); err != nil {
			s.log.Warn("failed to set primary product image", "product_id", p.ID, "error", err)
		}
	}
	return &ProductImageView{ID: img.ID, Image: img.Image, AltText: img.AltText, Order: img.Order}, nil
}

func (s *shopService) CreateCategory(dbc dbctx.Context, in ProductCategoryInput) (*types.ProductCategory, error) {
	in.Name = normalization.Trim(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	name := in.Name
	inner := s.dbc(dbc)
	existing, err := s.categoryRepo.GetByNames(inner, []string{name})
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}
	slug, err := uniqueSlug(name, "category", func(c string) (bool, error) {
		return s.categoryRepo.SlugExists(inner, c)
	})
	if err != nil {
		return nil, err
	}
	c := &types.ProductCategory{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
	}
	if _, err := s.categoryRepo.Create(inner, []*types.ProductCategory{c}); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// nextSKU returns SKU-<count+1000>, bumped until unused.
func (s *shopService) nextSKU(inner dbctx.Context) (string, error) {
	count, err := s.productRepo.Count(inner)
	if err != nil {
		return "", fmt.Errorf("count products: %w", err)
	}
	for n := count + 1000; ; n++ {
		sku := fmt.Sprintf("SKU-%d", n)
		taken, err := s.productRepo.SKUExists(inner, sku)
		if err != nil {
			return "", fmt.Errorf("check sku: %w", err)
		}
		if !taken {
			return sku, nil
		}
	}
}

func (s *shopService) CreateProduct(dbc dbctx.Context, in ProductInput) (*types.Product, error) {
	in.Name = normalization.Trim(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	if in.Status == "" {
		in.Status = types.ProductStatusActive
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	name, status := in.Name, in.Status

	inner := s.dbc(dbc)
	slug, err := uniqueSlug(name, "product", func(c string) (bool, error) {
		return s.productRepo.SlugExists(inner, c)
	})
	if err != nil {
		return nil, err
	}
	sku := in.SKU
	if sku == "" {
		if sku, err = s.nextSKU(inner); err != nil {
			return nil, err
		}
	} else if taken, err := s.productRepo.SKUExists(inner, sku); err != nil {
		return nil, fmt.Errorf("check sku: %w", err)
	} else if taken {
		return nil, apierr.FieldError("sku", "product with this sku already exists.")
	}

	p := &types.Product{
		Name:             name,
		Slug:             slug,
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		Price:            in.Price,
		ComparePrice:     in.ComparePrice,
		SKU:              sku,
		CategoryID:       in.CategoryID,
		Image:            in.Image,
		Status:           status,
		StockQuantity:    in.StockQuantity,
		IsFeatured:       in.IsFeatured,
		Weight:           in.Weight,
	}
	if _, err := s.productRepo.Create(inner, []*types.Product{p}); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}
