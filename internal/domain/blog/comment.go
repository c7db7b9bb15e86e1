package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/lumina-backend/internal/pkg/normalization"
	"gorm.io/gorm"
)

type Comment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID      uuid.UUID `gorm:"type:uuid;not null;index;column:post_id" json:"post"`
	Post        *BlogPost `gorm:"constraint:OnDelete:CASCADE;foreignKey:PostID;references:ID" json:"-"`
	AuthorName  string    `gorm:"not null;size:100;column:author_name" json:"author_name"`
	AuthorEmail string    `gorm:"not null;column:author_email" json:"-"`
	Content     string    `gorm:"not null;column:content" json:"content"`
	// Pointer so that an explicit false survives gorm's zero-value defaulting.
	IsApproved *bool     `gorm:"not null;default:true;index;column:is_approved" json:"-"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Comment) TableName() string { return "blog_comment" }

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Comment) Initials() string { return normalization.Initials(c.AuthorName) }
