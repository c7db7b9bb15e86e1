package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/data/repos"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo

	Category             repos.CategoryRepo
	BlogPost             repos.BlogPostRepo
	Comment              repos.CommentRepo
	NewsletterSubscriber repos.NewsletterSubscriberRepo

	ProductCategory repos.ProductCategoryRepo
	Product         repos.ProductRepo
	ProductImage    repos.ProductImageRepo
	ProductReview   repos.ProductReviewRepo

	Order repos.OrderRepo

	JobRun repos.JobRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),

		Category:             repos.NewCategoryRepo(db, log),
		BlogPost:             repos.NewBlogPostRepo(db, log),
		Comment:              repos.NewCommentRepo(db, log),
		NewsletterSubscriber: repos.NewNewsletterSubscriberRepo(db, log),

		ProductCategory: repos.NewProductCategoryRepo(db, log),
		Product:         repos.NewProductRepo(db, log),
		ProductImage:    repos.NewProductImageRepo(db, log),
		ProductReview:   repos.NewProductReviewRepo(db, log),

		Order: repos.NewOrderRepo(db, log),

		JobRun: repos.NewJobRunRepo(db, log),
	}
}
