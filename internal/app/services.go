package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/lumina-backend/internal/observability"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/services"
)

type Services struct {
	// Core
	Jobs   services.JobService
	Avatar services.AvatarService
	Media  services.MediaService

	// Accounts
	Auth services.AuthService
	User services.UserService

	// Catalog + content
	Blog       services.BlogService
	Newsletter services.NewsletterService
	Shop       services.ShopService

	// Checkout
	Orders services.OrderService

	Seed services.SeedService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	jobs := services.NewJobService(db, log, r.JobRun)

	avatar, err := services.NewAvatarService(db, log, r.User, c.Bucket)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}
	media := services.NewMediaService(log, c.Bucket)

	auth := services.NewAuthService(db, log, r.User, r.UserToken, jobs, cfg.JWTSecret(), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	user := services.NewUserService(db, log, r.User, r.UserToken, avatar)

	blog := services.NewBlogService(db, log, r.Category, r.BlogPost, r.Comment, media)
	newsletter := services.NewNewsletterService(db, log, r.NewsletterSubscriber, jobs)
	shop := services.NewShopService(db, log, r.ProductCategory, r.Product, r.ProductImage, r.ProductReview, media)
	orders := services.NewOrderService(db, log, r.Order, r.Product, jobs, metrics)

	seed := services.NewSeedService(db, log, auth, blog, shop, r.User, r.BlogPost, r.Product, r.Category)

	return Services{
		Jobs:       jobs,
		Avatar:     avatar,
		Media:      media,
		Auth:       auth,
		User:       user,
		Blog:       blog,
		Newsletter: newsletter,
		Shop:       shop,
		Orders:     orders,
		Seed:       seed,
	}, nil
}
