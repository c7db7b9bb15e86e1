package domain

import (
	"github.com/yungbote/lumina-backend/internal/domain/auth"
	"github.com/yungbote/lumina-backend/internal/domain/blog"
	"github.com/yungbote/lumina-backend/internal/domain/jobs"
	"github.com/yungbote/lumina-backend/internal/domain/orders"
	"github.com/yungbote/lumina-backend/internal/domain/shop"
	"github.com/yungbote/lumina-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type Category = blog.Category
type BlogPost = blog.BlogPost
type Comment = blog.Comment
type NewsletterSubscriber = blog.NewsletterSubscriber

type ProductCategory = shop.ProductCategory
type Product = shop.Product
type ProductImage = shop.ProductImage
type ProductReview = shop.ProductReview

type Order = orders.Order
type OrderItem = orders.OrderItem

type JobRun = jobs.JobRun

const (
	PostStatusDraft     = blog.PostStatusDraft
	PostStatusPublished = blog.PostStatusPublished
	PostStatusArchived  = blog.PostStatusArchived

	ProductStatusActive     = shop.ProductStatusActive
	ProductStatusInactive   = shop.ProductStatusInactive
	ProductStatusOutOfStock = shop.ProductStatusOutOfStock

	OrderStatusPending    = orders.StatusPending
	OrderStatusProcessing = orders.StatusProcessing
	OrderStatusShipped    = orders.StatusShipped
	OrderStatusDelivered  = orders.StatusDelivered
	OrderStatusCancelled  = orders.StatusCancelled
	OrderStatusRefunded   = orders.StatusRefunded

	PaymentPending  = orders.PaymentPending
	PaymentPaid     = orders.PaymentPaid
	PaymentFailed   = orders.PaymentFailed
	PaymentRefunded = orders.PaymentRefunded

	JobStatusQueued    = jobs.StatusQueued
	JobStatusRunning   = jobs.StatusRunning
	JobStatusSucceeded = jobs.StatusSucceeded
	JobStatusFailed    = jobs.StatusFailed

	JobTypeUserAvatar             = jobs.TypeUserAvatar
	JobTypeOrderConfirmationEmail = jobs.TypeOrderConfirmationEmail
	JobTypeOrderStatusEmail       = jobs.TypeOrderStatusEmail
	JobTypeNewsletterWelcomeEmail = jobs.TypeNewsletterWelcomeEmail
)

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&UserToken{},

		&Category{},
		&BlogPost{},
		&Comment{},
		&NewsletterSubscriber{},

		&ProductCategory{},
		&Product{},
		&ProductImage{},
		&ProductReview{},

		&Order{},
		&OrderItem{},

		&JobRun{},
	}
}
