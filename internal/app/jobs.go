package app

import (
	"fmt"

	"github.com/yungbote/lumina-backend/internal/jobs/pipeline/mailer"
	"github.com/yungbote/lumina-backend/internal/jobs/pipeline/newsletter_welcome"
	"github.com/yungbote/lumina-backend/internal/jobs/pipeline/order_email"
	"github.com/yungbote/lumina-backend/internal/jobs/pipeline/user_avatar"
	jobruntime "github.com/yungbote/lumina-backend/internal/jobs/runtime"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

func wireJobRegistry(log *logger.Logger, r Repos, s Services, c Clients) (*jobruntime.Registry, error) {
	log.Info("Registering job handlers...")
	store := mailer.StoreFromEnv()
	reg := jobruntime.NewRegistry()
	for _, h := range []jobruntime.Handler{
		user_avatar.New(log, r.User, s.Avatar),
		order_email.NewConfirmation(log, r.Order, c.Email, store),
		order_email.NewStatus(log, r.Order, c.Email, store),
		newsletter_welcome.New(log, c.Email, store),
	} {
		if err := reg.Register(h); err != nil {
			return nil, fmt.Errorf("register %s: %w", h.Type(), err)
		}
	}
	return reg, nil
}
