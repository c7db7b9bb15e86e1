package order_email

import (
	"github.com/yungbote/lumina-backend/internal/data/repos"
	types "github.com/yungbote/lumina-backend/internal/domain"
	"github.com/yungbote/lumina-backend/internal/jobs/pipeline/mailer"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/platform/sendgrid"
)

// Pipeline sends one customer email about an order. The same code serves
// the confirmation and status-change job types; jobType picks the template.
type Pipeline struct {
	log     *logger.Logger
	orders  repos.OrderRepo
	email   sendgrid.Client
	store   mailer.Store
	jobType string
}

// NewConfirmation handles order_confirmation_email. A nil email client makes
// every run succeed as skipped.
func NewConfirmation(baseLog *logger.Logger, orders repos.OrderRepo, email sendgrid.Client, store mailer.Store) *Pipeline {
	return newPipeline(baseLog, orders, email, store, types.JobTypeOrderConfirmationEmail)
}

func NewStatus(baseLog *logger.Logger, orders repos.OrderRepo, email sendgrid.Client, store mailer.Store) *Pipeline {
	return newPipeline(baseLog, orders, email, store, types.JobTypeOrderStatusEmail)
}

func newPipeline(baseLog *logger.Logger, orders repos.OrderRepo, email sendgrid.Client, store mailer.Store, jobType string) *Pipeline {
	return &Pipeline{
		log:     baseLog.With("job", jobType),
		orders:  orders,
		email:   email,
		store:   store,
		jobType: jobType,
	}
}

func (p *Pipeline) Type() string { return p.jobType }
