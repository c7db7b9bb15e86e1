package services

import (
	"math"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/pkg/money"
)

// Response shapes. Each builder takes the loaded model plus any derived
// counts the caller already fetched in bulk.

type UserView struct {
	ID                     uuid.UUID  `json:"id"`
	Username               string     `json:"username"`
	Email                  string     `json:"email"`
	FirstName              string     `json:"first_name"`
	LastName               string     `json:"last_name"`
	Phone                  string     `json:"phone"`
	Avatar                 string     `json:"avatar"`
	Bio                    string     `json:"bio"`
	Initials               string     `json:"initials"`
	Address                string     `json:"address"`
	City                   string     `json:"city"`
	State                  string     `json:"state"`
	ZipCode                string     `json:"zip_code"`
	Country                string     `json:"country"`
	IsNewsletterSubscribed bool       `json:"is_newsletter_subscribed"`
	IsStaff                bool       `json:"is_staff"`
	LastLogin              *time.Time `json:"last_login"`
	CreatedAt              time.Time  `json:"created_at"`
}

func NewUserView(u *types.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		ID:                     u.ID,
		Username:               u.Username,
		Email:                  u.Email,
		FirstName:              u.FirstName,
		LastName:               u.LastName,
		Phone:                  u.Phone,
		Avatar:                 u.AvatarURL,
		Bio:                    u.Bio,
		Initials:               u.Initials(),
		Address:                u.Address,
		City:                   u.City,
		State:                  u.State,
		ZipCode:                u.ZipCode,
		Country:                u.Country,
		IsNewsletterSubscribed: u.IsNewsletterSubscribed,
		IsStaff:                u.IsStaff,
		LastLogin:              u.LastLogin,
		CreatedAt:              u.CreatedAt,
	}
}

// ---- blog ----

type CategoryView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PostCount   int64     `json:"post_count"`
}

func NewCategoryView(c *types.Category, postCount int64) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description, PostCount: postCount}
}

type CommentView struct {
	ID         uuid.UUID `json:"id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Initials   string    `json:"initials"`
}

func NewCommentView(c *types.Comment) CommentView {
	return CommentView{ID: c.ID, AuthorName: c.AuthorName, Content: c.Content, CreatedAt: c.CreatedAt, Initials: c.Initials()}
}

type PostListItem struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featured_image"`
	Category      *uuid.UUID `json:"category"`
	CategoryName  *string    `json:"category_name"`
	AuthorName    string     `json:"author_name"`
	AuthorAvatar  string     `json:"author_avatar"`
	ReadTime      int        `json:"read_time"`
	CommentCount  int64      `json:"comment_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewPostListItem(p *types.BlogPost, commentCount int64) PostListItem {
	item := PostListItem{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		Category:      p.CategoryID,
		ReadTime:      p.ReadTime,
		CommentCount:  commentCount,
		CreatedAt:     p.CreatedAt,
	}
	if p.Category != nil {
		name := p.Category.Name
		item.CategoryName = &name
	}
	if p.Author != nil {
		item.AuthorName = p.Author.FullName()
		item.AuthorAvatar = p.Author.Initials()
	}
	return item
}

type PostDetail struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Excerpt       string        `json:"excerpt"`
	Content       string        `json:"content"`
	FeaturedImage string        `json:"featured_image"`
	Category      *CategoryView `json:"category"`
	AuthorName    string        `json:"author_name"`
	AuthorAvatar  string        `json:"author_avatar"`
	ReadTime      int           `json:"read_time"`
	Views         int           `json:"views"`
	Comments      []CommentView `json:"comments"`
	CreatedAt     time.Time     `json:"created_at"`
	PublishedAt   *time.Time    `json:"published_at"`
}

// ---- shop ----

type ProductCategoryView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	ProductCount int64     `json:"product_count"`
}

func NewProductCategoryView(c *types.ProductCategory, productCount int64) ProductCategoryView {
	return ProductCategoryView{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		Image:        c.Image,
		ProductCount: productCount,
	}
}

type ReviewView struct {
	ID         uuid.UUID `json:"id"`
	AuthorName string    `json:"author_name"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Initials   string    `json:"initials"`
}

func NewReviewView(r *types.ProductReview) ReviewView {
	return ReviewView{
		ID:         r.ID,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		Title:      r.Title,
		Content:    r.Content,
		CreatedAt:  r.CreatedAt,
		Initials:   r.Initials(),
	}
}

type ProductListItem struct {
	ID                 uuid.UUID     `json:"id"`
	Name               string        `json:"name"`
	Slug               string        `json:"slug"`
	ShortDescription   string        `json:"short_description"`
	Price              money.Amount  `json:"price"`
	ComparePrice       *money.Amount `json:"compare_price"`
	DiscountPercentage int           `json:"discount_percentage"`
	Category           *uuid.UUID    `json:"category"`
	CategoryName       *string       `json:"category_name"`
	Image              string        `json:"image"`
	InStock            bool          `json:"in_stock"`
	AverageRating      float64       `json:"average_rating"`
	ReviewCount        int64         `json:"review_count"`
	IsFeatured         bool          `json:"is_featured"`
}

// roundRating keeps one decimal place.
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

func NewProductListItem(p *types.Product, avg float64, reviews int64) ProductListItem {
	item := ProductListItem{
		ID:                 p.ID,
		Name:               p.Name,
		Slug:               p.Slug,
		ShortDescription:   p.ShortDescription,
		Price:              p.Price,
		ComparePrice:       p.ComparePrice,
		DiscountPercentage: p.DiscountPercentage(),
		Category:           p.CategoryID,
		Image:              p.Image,
		InStock:            p.InStock(),
		AverageRating:      roundRating(avg),
		ReviewCount:        reviews,
		IsFeatured:         p.IsFeatured,
	}
	if p.Category != nil {
		name := p.Category.Name
		item.CategoryName = &name
	}
	return item
}

type ImageView struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type ProductDetail struct {
	ID                 uuid.UUID            `json:"id"`
	Name               string               `json:"name"`
	Slug               string               `json:"slug"`
	Description        string               `json:"description"`
	ShortDescription   string               `json:"short_description"`
	Price              money.Amount         `json:"price"`
	ComparePrice       *money.Amount        `json:"compare_price"`
	DiscountPercentage int                  `json:"discount_percentage"`
	Category           *ProductCategoryView `json:"category"`
	Image              string               `json:"image"`
	Images             []ImageView          `json:"images"`
	SKU                string               `json:"sku"`
	Weight             *float64             `json:"weight"`
	InStock            bool                 `json:"in_stock"`
	StockQuantity      int                  `json:"stock_quantity"`
	AverageRating      float64              `json:"average_rating"`
	ReviewCount        int64                `json:"review_count"`
	Reviews            []ReviewView         `json:"reviews"`
	CreatedAt          time.Time            `json:"created_at"`
}

type ProductImageView struct {
	ID      uuid.UUID `json:"id"`
	Image   string    `json:"image"`
	AltText string    `json:"alt_text"`
	Order   int       `json:"order"`
}

// ---- orders ----

type OrderItemView struct {
	ID           uuid.UUID    `json:"id"`
	ProductName  string       `json:"product_name"`
	ProductSKU   string       `json:"product_sku"`
	ProductImage string       `json:"product_image"`
	Price        money.Amount `json:"price"`
	Quantity     int          `json:"quantity"`
	Total        money.Amount `json:"total"`
}

type OrderView struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	ZipCode       string          `json:"zip_code"`
	Country       string          `json:"country"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Subtotal      money.Amount    `json:"subtotal"`
	ShippingCost  money.Amount    `json:"shipping_cost"`
	Tax           money.Amount    `json:"tax"`
	Discount      money.Amount    `json:"discount"`
	Total         money.Amount    `json:"total"`
	Items         []OrderItemView `json:"items"`
	ItemCount     int             `json:"item_count"`
	CreatedAt     time.Time       `json:"created_at"`
	ShippedAt     *time.Time      `json:"shipped_at"`
	DeliveredAt   *time.Time      `json:"delivered_at"`
}

func NewOrderView(o *types.Order) *OrderView {
	if o == nil {
		return nil
	}
	items := make([]OrderItemView, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items = append(items, OrderItemView{
			ID:           it.ID,
			ProductName:  it.ProductName,
			ProductSKU:   it.ProductSKU,
			ProductImage: it.ProductImage,
			Price:        it.Price,
			Quantity:     it.Quantity,
			Total:        it.Total(),
		})
	}
	return &OrderView{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		FullName:      o.FullName(),
		Email:         o.Email,
		Phone:         o.Phone,
		Address:       o.Address,
		City:          o.City,
		State:         o.State,
		ZipCode:       o.ZipCode,
		Country:       o.Country,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		Subtotal:      o.Subtotal,
		ShippingCost:  o.ShippingCost,
		Tax:           o.Tax,
		Discount:      o.Discount,
		Total:         o.Total,
		Items:         items,
		ItemCount:     o.ItemCount(),
		CreatedAt:     o.CreatedAt,
		ShippedAt:     o.ShippedAt,
		DeliveredAt:   o.DeliveredAt,
	}
}
