package shop

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:100;column:name" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null;size:100;column:slug" json:"slug"`
	Description string    `gorm:"not null;default:'';column:description" json:"description"`
	Image       string    `gorm:"not null;default:'';column:image" json:"image"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ProductCategory) TableName() string { return "product_category" }

func (c *ProductCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
