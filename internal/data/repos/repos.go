package repos

import (
	"github.com/yungbote/lumina-backend/internal/data/repos/auth"
	"github.com/yungbote/lumina-backend/internal/data/repos/blog"
	"github.com/yungbote/lumina-backend/internal/data/repos/jobs"
	"github.com/yungbote/lumina-backend/internal/data/repos/orders"
	"github.com/yungbote/lumina-backend/internal/data/repos/shop"
	"github.com/yungbote/lumina-backend/internal/data/repos/user"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type CategoryRepo = blog.CategoryRepo
type BlogPostRepo = blog.BlogPostRepo
type CommentRepo = blog.CommentRepo
type NewsletterSubscriberRepo = blog.NewsletterSubscriberRepo
type PostFilter = blog.PostFilter

type ProductCategoryRepo = shop.ProductCategoryRepo
type ProductRepo = shop.ProductRepo
type ProductImageRepo = shop.ProductImageRepo
type ProductReviewRepo = shop.ProductReviewRepo
type ProductFilter = shop.ProductFilter
type ReviewStats = shop.ReviewStats

type OrderRepo = orders.OrderRepo
type OrderFilter = orders.OrderFilter

type JobRunRepo = jobs.JobRunRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return blog.NewCategoryRepo(db, baseLog)
}
func NewBlogPostRepo(db *gorm.DB, baseLog *logger.Logger) BlogPostRepo {
	return blog.NewBlogPostRepo(db, baseLog)
}
func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return blog.NewCommentRepo(db, baseLog)
}
func NewNewsletterSubscriberRepo(db *gorm.DB, baseLog *logger.Logger) NewsletterSubscriberRepo {
	return blog.NewNewsletterSubscriberRepo(db, baseLog)
}

func NewProductCategoryRepo(db *gorm.DB, baseLog *logger.Logger) ProductCategoryRepo {
	return shop.NewProductCategoryRepo(db, baseLog)
}
func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return shop.NewProductRepo(db, baseLog)
}
func NewProductImageRepo(db *gorm.DB, baseLog *logger.Logger) ProductImageRepo {
	return shop.NewProductImageRepo(db, baseLog)
}
func NewProductReviewRepo(db *gorm.DB, baseLog *logger.Logger) ProductReviewRepo {
	return shop.NewProductReviewRepo(db, baseLog)
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return orders.NewOrderRepo(db, baseLog)
}

func NewJobRunRepo(db *gorm.DB, baseLog *logger.Logger) JobRunRepo {
	return jobs.NewJobRunRepo(db, baseLog)
}
