package shop

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;column:product_id" json:"product"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"-"`
	Image     string    `gorm:"not null;column:image" json:"image"`
	BucketKey string    `gorm:"column:bucket_key" json:"-"`
	AltText   string    `gorm:"not null;default:'';size:255;column:alt_text" json:"alt_text"`
	Order     int       `gorm:"not null;default:0;column:sort_order" json:"order"`
}

func (ProductImage) TableName() string { return "product_image" }

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
