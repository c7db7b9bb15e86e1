package user_avatar

import (
	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/services"
)

type Pipeline struct {
	log    *logger.Logger
	users  repos.UserRepo
	avatar services.AvatarService
}

func New(baseLog *logger.Logger, users repos.UserRepo, avatar services.AvatarService) *Pipeline {
	return &Pipeline{
		log:    baseLog.With("job", types.JobTypeUserAvatar),
		users:  users,
		avatar: avatar,
	}
}

func (p *Pipeline) Type() string { return types.JobTypeUserAvatar }
