package blog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NewsletterSubscriber struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	IsActive     bool      `gorm:"not null;column:is_active" json:"is_active"`
	SubscribedAt time.Time `gorm:"not null;autoCreateTime;column:subscribed_at" json:"subscribed_at"`
}

func (NewsletterSubscriber) TableName() string { return "newsletter_subscriber" }

func (s *NewsletterSubscriber) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
