package app

import (
	"gorm.io/gorm"

	httpapi "github.com/yungbote/lumina-backend/internal/http"
	httpH "github.com/yungbote/lumina-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lumina-backend/internal/http/middleware"
	"github.com/yungbote/lumina-backend/internal/observability"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

func wireRouterConfig(db *gorm.DB, log *logger.Logger, cfg Config, s Services, c Clients, metrics *observability.Metrics) httpapi.RouterConfig {
	log.Info("Wiring handlers...")
	return httpapi.RouterConfig{
		Log:         log,
		Metrics:     metrics,
		Limiter:     c.Limiter,
		CORSOrigins: httpMW.ParseOrigins(cfg.CORSAllowedOrigins),
		ServiceName: cfg.ServiceName,

		AuthMiddleware: httpMW.NewAuthMiddleware(log, s.Auth),

		AuthHandler:  httpH.NewAuthHandler(log, s.Auth),
		UserHandler:  httpH.NewUserHandler(log, s.User, cfg.PageSize),
		BlogHandler:  httpH.NewBlogHandler(log, s.Blog, s.Newsletter, cfg.PageSize),
		ShopHandler:  httpH.NewShopHandler(log, s.Shop, cfg.PageSize),
		OrderHandler: httpH.NewOrderHandler(log, s.Orders, cfg.PageSize),

		HealthHandler: httpH.NewHealthHandler(db),
	}
}
