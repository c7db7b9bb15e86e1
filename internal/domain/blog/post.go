package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/lumina-backend/internal/domain/user"
	"gorm.io/gorm"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

func ValidPostStatus(s string) bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

type BlogPost struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string     `gorm:"not null;size:255;column:title" json:"title"`
	Slug          string     `gorm:"uniqueIndex;not null;size:255;column:slug" json:"slug"`
	Excerpt       string     `gorm:"not null;default:'';size:500;column:excerpt" json:"excerpt"`
	Content       string     `gorm:"not null;column:content" json:"content"`
	FeaturedImage string     `gorm:"not null;default:'';column:featured_image" json:"featured_image"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index;column:category_id" json:"category"`
	Category      *Category  `gorm:"constraint:OnDelete:SET NULL;foreignKey:CategoryID;references:ID" json:"-"`
	AuthorID      uuid.UUID  `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	Author        *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"-"`
	Status        string     `gorm:"not null;default:'draft';size:20;index;column:status" json:"status"`
	ReadTime      int        `gorm:"not null;default:5;column:read_time" json:"read_time"`
	Views         int        `gorm:"not null;default:0;column:views" json:"views"`
	IsFeatured    bool       `gorm:"not null;default:false;index;column:is_featured" json:"is_featured"`

	CreatedAt   time.Time  `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at"`
}

func (BlogPost) TableName() string { return "blog_post" }

func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
