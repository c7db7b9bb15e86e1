package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/pkg/money"
	"gorm.io/gorm"
)

// Unique returns prefix plus a short random suffix, for columns with unique
// constraints when tests share a Postgres database.
func Unique(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Username:  Unique("user"),
		Email:     email,
		Password:  "pw",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Category {
	tb.Helper()
	c := &types.Category{
		Name: name,
		Slug: Unique("cat"),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedPost(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID uuid.UUID, categoryID *uuid.UUID, status string) *types.BlogPost {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.BlogPost{
		Title:      "Post",
		Slug:       Unique("post"),
		Excerpt:    "excerpt",
		Content:    "content",
		CategoryID: categoryID,
		AuthorID:   authorID,
		Status:     status,
		ReadTime:   5,
	}
	if status == types.PostStatusPublished {
		p.PublishedAt = &now
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed post: %v", err)
	}
	return p
}

func SeedProductCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.ProductCategory {
	tb.Helper()
	c := &types.ProductCategory{
		Name: name,
		Slug: Unique("pcat"),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed product category: %v", err)
	}
	return c
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, categoryID *uuid.UUID, price money.Amount, stock int) *types.Product {
	tb.Helper()
	p := &types.Product{
		Name:          "Product",
		Slug:          Unique("product"),
		Description:   "description",
		Price:         price,
		SKU:           Unique("SKU"),
		CategoryID:    categoryID,
		Status:        types.ProductStatusActive,
		StockQuantity: stock,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, userID *uuid.UUID, email string) *types.Order {
	tb.Helper()
	o := &types.Order{
		UserID:        userID,
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         email,
		Phone:         "555-0100",
		Address:       "1 Main St",
		City:          "Springfield",
		State:         "IL",
		ZipCode:       "62701",
		Country:       "US",
		Status:        types.OrderStatusProcessing,
		PaymentStatus: types.PaymentPaid,
		Subtotal:      money.Cents(2000),
		ShippingCost:  money.Cents(1000),
		Tax:           money.Cents(160),
		Total:         money.Cents(3160),
		Items: []types.OrderItem{
			{ProductName: "Candle", ProductSKU: "SKU-1", Price: money.Cents(1000), Quantity: 2},
		},
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	return o
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

func PtrBool(v bool) *bool { return &v }
