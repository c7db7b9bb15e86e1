package orders

import (
	"github.com/google/uuid"
	"github.com/yungbote/lumina-backend/internal/domain/shop"
	"github.com/yungbote/lumina-backend/internal/pkg/money"
	"gorm.io/gorm"
)

type OrderItem struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID      uuid.UUID     `gorm:"type:uuid;not null;index;column:order_id" json:"-"`
	Order        *Order        `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderID;references:ID" json:"-"`
	ProductID    *uuid.UUID    `gorm:"type:uuid;index;column:product_id" json:"-"`
	Product      *shop.Product `gorm:"constraint:OnDelete:SET NULL;foreignKey:ProductID;references:ID" json:"-"`
	ProductName  string        `gorm:"not null;size:255;column:product_name" json:"product_name"`
	ProductSKU   string        `gorm:"not null;size:100;column:product_sku" json:"product_sku"`
	ProductImage string        `gorm:"not null;default:'';column:product_image" json:"product_image"`
	Price        money.Amount  `gorm:"not null;column:price" json:"price"`
	Quantity     int           `gorm:"not null;default:1;column:quantity" json:"quantity"`
	Position     int           `gorm:"not null;default:0;column:position" json:"-"`
}

func (OrderItem) TableName() string { return "order_item" }

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) Total() money.Amount { return i.Price.Mul(i.Quantity) }
