package newsletter_welcome

import (
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/jobs/pipeline/mailer"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/platform/sendgrid"
)

type Pipeline struct {
	log   *logger.Logger
	email sendgrid.Client
	store mailer.Store
}

func New(baseLog *logger.Logger, email sendgrid.Client, store mailer.Store) *Pipeline {
	return &Pipeline{
		log:   baseLog.With("job", types.JobTypeNewsletterWelcomeEmail),
		email: email,
		store: store,
	}
}

func (p *Pipeline) Type() string { return types.JobTypeNewsletterWelcomeEmail }
