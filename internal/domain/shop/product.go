package shop

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/lumina-backend/internal/pkg/money"
	"gorm.io/gorm"
)

const (
	ProductStatusActive     = "active"
	ProductStatusInactive   = "inactive"
	ProductStatusOutOfStock = "out_of_stock"
)

func ValidProductStatus(s string) bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusOutOfStock:
		return true
	}
	return false
}

type Product struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string           `gorm:"not null;size:255;column:name" json:"name"`
	Slug             string           `gorm:"uniqueIndex;not null;size:255;column:slug" json:"slug"`
	Description      string           `gorm:"not null;column:description" json:"description"`
	ShortDescription string           `gorm:"not null;default:'';size:255;column:short_description" json:"short_description"`
	Price            money.Amount     `gorm:"not null;column:price" json:"price"`
	ComparePrice     *money.Amount    `gorm:"column:compare_price" json:"compare_price"`
	SKU              string           `gorm:"uniqueIndex;not null;size:100;column:sku" json:"sku"`
	CategoryID       *uuid.UUID       `gorm:"type:uuid;index;column:category_id" json:"category"`
	Category         *ProductCategory `gorm:"constraint:OnDelete:SET NULL;foreignKey:CategoryID;references:ID" json:"-"`
	Image            string           `gorm:"not null;default:'';column:image" json:"image"`
	Status           string           `gorm:"not null;default:'active';size:20;index;column:status" json:"status"`
	StockQuantity    int              `gorm:"not null;default:0;column:stock_quantity" json:"stock_quantity"`
	IsFeatured       bool             `gorm:"not null;default:false;index;column:is_featured" json:"is_featured"`
	Weight           *float64         `gorm:"column:weight" json:"weight"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "product" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0 && p.Status == ProductStatusActive
}

// DiscountPercentage is the whole-percent saving against ComparePrice.
func (p *Product) DiscountPercentage() int {
	if p.ComparePrice == nil || *p.ComparePrice <= p.Price || *p.ComparePrice <= 0 {
		return 0
	}
	cmp := p.ComparePrice.Cents()
	return int((cmp - p.Price.Cents()) * 100 / cmp)
}
