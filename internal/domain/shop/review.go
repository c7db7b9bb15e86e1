package shop

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/lumina-backend/internal/domain/user"
	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
	"gorm.io/gorm"
)

type ProductReview struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index;column:product_id" json:"product"`
	Product    *Product   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"-"`
	UserID     *uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"-"`
	User       *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	AuthorName string     `gorm:"not null;size:100;column:author_name" json:"author_name"`
	Rating     int        `gorm:"not null;column:rating" json:"rating"`
	Title      string     `gorm:"not null;default:'';size:255;column:title" json:"title"`
	Content    string     `gorm:"not null;column:content" json:"content"`
	// Pointer so that an explicit false survives gorm's zero-value defaulting.
	IsApproved *bool     `gorm:"not null;default:true;index;column:is_approved" json:"-"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ProductReview) TableName() string { return "product_review" }

func (r *ProductReview) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *ProductReview) Initials() string { return normalization.Initials(r.AuthorName) }
