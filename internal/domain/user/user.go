package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username        string    `gorm:"uniqueIndex;not null;size:150;column:username" json:"username"`
	Email           string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password        string    `gorm:"not null;column:password" json:"-"`
	FirstName       string    `gorm:"not null;default:'';size:150;column:first_name" json:"first_name"`
	LastName        string    `gorm:"not null;default:'';size:150;column:last_name" json:"last_name"`
	Phone           string    `gorm:"not null;default:'';size:20;column:phone" json:"phone"`
	Bio             string    `gorm:"not null;default:'';column:bio" json:"bio"`
	AvatarBucketKey string    `gorm:"column:avatar_bucket_key" json:"-"`
	AvatarURL       string    `gorm:"column:avatar_url" json:"avatar"`

	Address string `gorm:"not null;default:'';size:255;column:address" json:"address"`
	City    string `gorm:"not null;default:'';size:100;column:city" json:"city"`
	State   string `gorm:"not null;default:'';size:100;column:state" json:"state"`
	ZipCode string `gorm:"not null;default:'';size:20;column:zip_code" json:"zip_code"`
	Country string `gorm:"not null;default:'';size:100;column:country" json:"country"`

	IsNewsletterSubscribed bool `gorm:"not null;default:false;column:is_newsletter_subscribed" json:"is_newsletter_subscribed"`
	IsStaff                bool `gorm:"not null;default:false;column:is_staff" json:"is_staff"`
	// Pointer so that an explicit false survives gorm's zero-value defaulting.
	IsActive *bool `gorm:"not null;default:true;column:is_active" json:"-"`

	LastLogin *time.Time     `gorm:"column:last_login" json:"last_login"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Active reports is_active, treating an unset flag as active.
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (u *User) Initials() string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	switch {
	case first != "" && last != "":
		return strings.ToUpper(string([]rune(first)[:1]) + string([]rune(last)[:1]))
	case first != "":
		return upperPrefix(first, 2)
	case last != "":
		return upperPrefix(last, 2)
	case strings.TrimSpace(u.Username) != "":
		return upperPrefix(strings.TrimSpace(u.Username), 2)
	}
	return "U"
}

func upperPrefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return strings.ToUpper(string(r))
}
