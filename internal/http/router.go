package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lumina-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lumina-backend/internal/http/middleware"
	"github.com/yungbote/lumina-backend/internal/http/response"
	"github.com/yungbote/lumina-backend/internal/observability"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/platform/ratelimit"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	Limiter     ratelimit.Limiter
	CORSOrigins []string
	ServiceName string

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler  *httpH.AuthHandler
	UserHandler  *httpH.UserHandler
	BlogHandler  *httpH.BlogHandler
	ShopHandler  *httpH.ShopHandler
	OrderHandler *httpH.OrderHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "lumina-api"
	}

	response.UseRequestValidator()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log.With("component", "http")))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	throttle := httpMW.RateLimit(log, cfg.Limiter, cfg.Metrics)

	var (
		optional = passThrough
		auth     = passThrough
		staff    = passThrough
	)
	if cfg.AuthMiddleware != nil {
		optional = cfg.AuthMiddleware.Optional()
		auth = cfg.AuthMiddleware.RequireAuth()
		staff = cfg.AuthMiddleware.RequireStaff()
	}

	api := r.Group("/api")

	// Accounts
	accounts := api.Group("/auth")
	{
		if cfg.AuthHandler != nil {
			accounts.POST("/register/", throttle, cfg.AuthHandler.Register)
			accounts.POST("/token/", throttle, cfg.AuthHandler.Login)
			accounts.POST("/token/refresh/", cfg.AuthHandler.Refresh)
			accounts.POST("/logout/", auth, cfg.AuthHandler.Logout)
		}
		if cfg.UserHandler != nil {
			accounts.GET("/profile/", auth, cfg.UserHandler.GetProfile)
			accounts.PATCH("/profile/", auth, cfg.UserHandler.UpdateProfile)
			accounts.PUT("/profile/", auth, cfg.UserHandler.UpdateProfile)
			accounts.POST("/profile/avatar/", auth, cfg.UserHandler.UploadAvatar)
			accounts.POST("/change-password/", auth, cfg.UserHandler.ChangePassword)
			accounts.GET("/users/", auth, staff, cfg.UserHandler.ListUsers)
		}
	}

	// Blog
	if cfg.BlogHandler != nil {
		blog := api.Group("/blog")
		blog.GET("/categories/", cfg.BlogHandler.ListCategories)
		blog.GET("/posts/", cfg.BlogHandler.ListPosts)
		blog.GET("/posts/featured/", cfg.BlogHandler.FeaturedPosts)
		blog.GET("/posts/:slug/", cfg.BlogHandler.GetPost)
		blog.GET("/posts/:slug/comments/", cfg.BlogHandler.ListComments)
		blog.POST("/posts/:slug/comments/", throttle, optional, cfg.BlogHandler.CreatePostComment)
		blog.POST("/posts/:slug/featured-image/", auth, staff, cfg.BlogHandler.UploadFeaturedImage)
		blog.POST("/comments/", throttle, optional, cfg.BlogHandler.CreateComment)
		blog.POST("/newsletter/subscribe/", throttle, cfg.BlogHandler.Subscribe)
		blog.POST("/newsletter/unsubscribe/", throttle, cfg.BlogHandler.Unsubscribe)
	}

	// Shop
	if cfg.ShopHandler != nil {
		shop := api.Group("/shop")
		shop.GET("/categories/", cfg.ShopHandler.ListCategories)
		shop.GET("/products/", cfg.ShopHandler.ListProducts)
		shop.GET("/products/featured/", cfg.ShopHandler.FeaturedProducts)
		shop.GET("/products/:slug/", cfg.ShopHandler.GetProduct)
		shop.GET("/products/:slug/reviews/", cfg.ShopHandler.ListReviews)
		shop.POST("/products/:slug/reviews/", throttle, optional, cfg.ShopHandler.CreateProductReview)
		shop.POST("/products/:slug/images/", auth, staff, cfg.ShopHandler.UploadProductImage)
		shop.POST("/reviews/", throttle, optional, cfg.ShopHandler.CreateReview)
	}

	// Orders
	if cfg.OrderHandler != nil {
		orders := api.Group("/orders")
		orders.POST("/create/", throttle, optional, cfg.OrderHandler.Create)
		orders.GET("/my-orders/", auth, cfg.OrderHandler.MyOrders)
		orders.GET("/", auth, staff, cfg.OrderHandler.List)
		orders.GET("/:order_number/", cfg.OrderHandler.Get)
		orders.POST("/:order_number/status/", auth, staff, cfg.OrderHandler.UpdateStatus)
	}

	return r
}

func passThrough(c *gin.Context) { c.Next() }
